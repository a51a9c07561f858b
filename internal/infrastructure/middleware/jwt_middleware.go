package middleware

import (
	"net/http"
	"strings"

	"chat_inbox_server/pkg/errorx"
	"chat_inbox_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户信息存入上下文；未配置密钥时直接放行
// 浏览器 websocket 无法设置 Header，因此也接受 ?token= 查询参数
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwt.Enabled() {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "请先登录")
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新登录")
			return
		}
		if !claims.IsAccess() {
			abortUnauthorized(c, "请使用 Access Token 访问此接口")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  errorx.CodeUnauthorized,
		"msg":   msg,
		"error": msg,
	})
}
