package lifecycle

import (
	"context"
	"time"
)

// Handle 是后台服务持有的生命周期凭据。
// 同步调度器这类长循环服务用它感知停机广播：Sleep在广播时立刻
// 返回，Ctx透传给同步过程以中断用户锁内的远程写入。
type Handle struct {
	ctx   context.Context
	close func()
}

// Ctx 返回随停机广播取消的上下文，应透传给所有阻塞操作。
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Close 通知管理器本服务已经退出。
// 服务的Goroutine应在入口处defer调用，重复调用无副作用。
func (h *Handle) Close() {
	h.close()
}

// Sleep 休眠指定时长；停机广播会提前唤醒并返回取消原因。
// 后台循环用它代替time.Sleep，否则停机要等满一个完整间隔。
func (h *Handle) Sleep(d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-h.ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return h.ctx.Err()
	case <-timer.C:
		return nil
	}
}
