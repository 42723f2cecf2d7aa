package apperror

import (
	"errors"
	"fmt"
)

// ErrNotConfigured 表示核心服务缺少必要的协作者句柄（如本地存储）。
// 这是一个致命的前置条件错误，应立即向上传递，不应重试。
var ErrNotConfigured = errors.New("服务尚未配置：缺少必要的存储句柄")

// StorageError 表示本地持久化层的读写失败。
// 单个时间范围的聚合失败不应阻止其他时间范围继续更新。
type StorageError struct {
	Op  string // 失败的操作描述，例如 "upsert period stats"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("本地存储错误 (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 包装一个本地存储失败。
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// RemoteError 表示远程排行榜存储的网络或写入失败。
// 这是可恢复错误：脏行保持脏标记，等待下一次同步自动重试；
// 排行榜查询失败时降级为仅本地数据，而不是清空现有视图。
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("远程排行榜错误 (%s): %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError 包装一个远程存储失败。
func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

// IsStorageError 判断错误链中是否包含本地存储错误。
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsRemoteError 判断错误链中是否包含远程存储错误。
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
