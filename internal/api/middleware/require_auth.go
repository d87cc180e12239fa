package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/model"
)

// UserContextKey 是认证用户在请求上下文中的键。
const UserContextKey = "authUser"

// Authenticator 校验令牌并返回其持有者。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth 校验 Bearer 令牌并将用户写入请求上下文。
//
// 状态机：无 Authorization 头 → 401；校验失败（签名/过期/记录已删/用户已删）→ 401；
// 通过 → 挂载用户并放行。
func RequireAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Authentication token missing",
			})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		user, err := authn.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Wrong authentication token",
			})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// CurrentUser 读取请求上下文中的认证用户，未认证返回 nil。
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
