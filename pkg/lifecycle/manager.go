package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager 协调一组后台服务的注册与停机。
// 停机分两步：Shutdown广播取消信号；WaitWithTimeout等待服务退出，
// 超时后报告仍未退出的名单，由上层决定是否进入强制阶段。
type Manager struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	active map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager 创建一个空的生命周期管理器。
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		active: make(map[string]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// NewServiceHandle 注册一个后台服务并返回其生命周期凭据。
// 服务名用于停机超时后的报告；同名重复注册是编程错误。
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[name]; exists {
		return nil, fmt.Errorf("生命周期管理器: 服务 '%s' 已被注册", name)
	}
	m.active[name] = struct{}{}
	m.wg.Add(1)
	fmt.Printf("生命周期管理器: 服务 [%s] 已注册。\n", name)

	return &Handle{
		ctx: m.ctx,
		close: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, exists := m.active[name]; !exists {
				return
			}
			delete(m.active, name)
			m.wg.Done()
		},
	}, nil
}

// Shutdown 广播停机信号，所有凭据的上下文同时取消。
func (m *Manager) Shutdown() {
	fmt.Println("生命周期管理器: 广播停机信号...")
	m.cancel()
}

// WaitWithTimeout 等待所有已注册的服务退出。
// 全部退出时返回nil；超时则返回仍在运行的服务名单。
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		names := make([]string, 0, len(m.active))
		for name := range m.active {
			names = append(names, name)
		}
		return names
	}
}
