package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// PlayerIDHeader 网关完成鉴权后注入的玩家标识头
	PlayerIDHeader = "X-Player-ID"

	playerIDKey = "player_id"
)

// PlayerIdentity 解析网关注入的玩家标识
// 会话鉴权发生在网关层，本服务只信任并校验该头的格式
func PlayerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(PlayerIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "missing player identity",
			})
			return
		}

		playerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || playerID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid player identity",
			})
			return
		}

		c.Set(playerIDKey, playerID)
		c.Next()
	}
}

// PlayerIDFromContext 取出当前请求的玩家 ID
func PlayerIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(playerIDKey)
}
