package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 是更新展示信息的请求体
type UpdateProfileRequest struct {
	DisplayName string  `json:"displayName" binding:"required,max=64"`
	AvatarURL   *string `json:"avatarUrl"`
}

// UpdateProfile 持久化当前用户的展示名称和头像引用。
// 这些信息会随下一次同步推送到远程排行榜。
func UpdateProfile(c *gin.Context) {
	userID := c.GetString(UserIDKey)
	if userID == "" || !IsValidUUID(userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体: " + err.Error()})
		return
	}

	if err := UpsertProfile(userID, req.DisplayName, req.AvatarURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// GetMe 返回当前用户的展示信息，尚未设置时返回空对象。
func GetMe(c *gin.Context) {
	userID := c.GetString(UserIDKey)
	if userID == "" || !IsValidUUID(userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	profile, err := GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"userId": userID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      profile.UUID,
		"displayName": profile.DisplayName,
		"avatarUrl":   profile.AvatarURL,
	})
}
