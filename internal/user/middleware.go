package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "user-id"
	CookieMaxAge = 365 * 24 * 60 * 60
	UserIDKey    = "userID"
)

// EnsureUserCookieMiddleware 保证客户端带有格式正确的用户Cookie。
// Cookie缺失或损坏时签发一个新的临时UUID；此时用户尚未注册，
// 写入口会被已知用户校验拦下，直到展示信息落库。
func EnsureUserCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := c.Cookie(CookieName)
		if err == nil && IsValidUUID(current) {
			c.Next()
			return
		}
		if err == nil {
			fmt.Printf("检测到无效的用户Cookie: %s\n", current)
		} else if err != http.ErrNoCookie {
			fmt.Printf("读取用户Cookie失败: %v\n", err)
		}

		issued, err := CreateProvisionalUser()
		if err != nil {
			fmt.Printf("签发临时用户ID失败: %v\n", err)
		} else {
			c.SetCookie(CookieName, issued, CookieMaxAge, "/", "", false, true)
		}
		c.Next()
	}
}

// LoadUserMiddleware 把Cookie中的用户UUID放入请求上下文。
func LoadUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(CookieName)
		c.Set(UserIDKey, id)
		c.Next()
	}
}

// RequireKnownUserMiddleware 把写入口限定给已注册展示信息的用户。
// 导入和同步都会产生以该用户为主体的远程排行榜数据，
// 临时UUID需要先通过 PUT /api/user/profile 完成注册。
func RequireKnownUserMiddleware() gin.HandlerFunc {
	return requireKnownUser(IsKnownUser)
}

func requireKnownUser(isKnown func(string) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" || !IsValidUUID(userID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
			return
		}

		known, err := isKnown(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !known {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "用户尚未注册展示信息"})
			return
		}
		c.Next()
	}
}
