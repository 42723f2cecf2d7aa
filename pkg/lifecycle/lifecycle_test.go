package lifecycle

import (
	"testing"
	"time"
)

func TestSleepInterruptedByShutdown(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("svc")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	defer h.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Shutdown()
	}()

	start := time.Now()
	if err := h.Sleep(5 * time.Second); err == nil {
		t.Fatal("停机广播应中断休眠并返回取消原因")
	}
	if time.Since(start) > time.Second {
		t.Error("休眠没有被广播及时唤醒")
	}
}

func TestSleepCompletesNormally(t *testing.T) {
	m := NewManager()
	h, _ := m.NewServiceHandle("svc")
	defer h.Close()

	if err := h.Sleep(time.Millisecond); err != nil {
		t.Errorf("正常休眠结束应返回nil, got %v", err)
	}
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager()
	if _, err := m.NewServiceHandle("slow"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	m.Shutdown()

	remaining := m.WaitWithTimeout(20 * time.Millisecond)
	if len(remaining) != 1 || remaining[0] != "slow" {
		t.Errorf("未退出的服务名单 = %v, want [slow]", remaining)
	}
}

func TestWaitAfterAllClosed(t *testing.T) {
	m := NewManager()
	h, _ := m.NewServiceHandle("svc")
	h.Close()

	if remaining := m.WaitWithTimeout(time.Second); len(remaining) != 0 {
		t.Errorf("全部服务退出后名单应为空: %v", remaining)
	}
}

func TestCloseIdempotent(t *testing.T) {
	m := NewManager()
	h, _ := m.NewServiceHandle("svc")
	h.Close()
	h.Close()

	if remaining := m.WaitWithTimeout(time.Second); len(remaining) != 0 {
		t.Errorf("重复Close不应破坏计数: %v", remaining)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	m := NewManager()
	if _, err := m.NewServiceHandle("svc"); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if _, err := m.NewServiceHandle("svc"); err == nil {
		t.Error("同名重复注册应返回错误")
	}
}
