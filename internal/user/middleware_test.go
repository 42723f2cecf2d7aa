package user

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const testUUID = "123e4567-e89b-12d3-a456-426614174000"

// guardedRequest 把已知用户校验挂在一条测试路由上并发起一次请求。
func guardedRequest(t *testing.T, isKnown func(string) (bool, error), cookieValue string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", LoadUserMiddleware(), requireKnownUser(isKnown), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookieValue})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireKnownUser_KnownPasses(t *testing.T) {
	var checked string
	isKnown := func(id string) (bool, error) {
		checked = id
		return true, nil
	}

	w := guardedRequest(t, isKnown, testUUID)
	if w.Code != http.StatusOK {
		t.Errorf("已注册用户应放行, got status %d", w.Code)
	}
	if checked != testUUID {
		t.Errorf("校验的UUID = %q, want %q", checked, testUUID)
	}
}

func TestRequireKnownUser_UnknownRejected(t *testing.T) {
	isKnown := func(string) (bool, error) { return false, nil }

	w := guardedRequest(t, isKnown, testUUID)
	if w.Code != http.StatusForbidden {
		t.Errorf("未注册用户应被拒绝, got status %d", w.Code)
	}
}

func TestRequireKnownUser_MissingCookie(t *testing.T) {
	called := false
	isKnown := func(string) (bool, error) {
		called = true
		return true, nil
	}

	w := guardedRequest(t, isKnown, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺少Cookie应返回401, got status %d", w.Code)
	}
	if called {
		t.Error("缺少用户标识时不应发起已知用户查询")
	}
}

func TestRequireKnownUser_MalformedUUID(t *testing.T) {
	isKnown := func(string) (bool, error) { return true, nil }

	w := guardedRequest(t, isKnown, "not-a-uuid")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非法UUID应返回401, got status %d", w.Code)
	}
}

func TestRequireKnownUser_LookupError(t *testing.T) {
	isKnown := func(string) (bool, error) { return false, errors.New("database is locked") }

	w := guardedRequest(t, isKnown, testUUID)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("校验失败应返回500, got status %d", w.Code)
	}
}
