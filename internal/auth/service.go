// Package auth 实现认证核心：凭证校验、令牌签发/存储与请求鉴权。
package auth

import (
	"context"
	"time"

	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

// UserStore 是认证流程需要的用户查询能力。
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// TokenStore 是令牌记录的持久化能力。
type TokenStore interface {
	// Replace 删除同用户同类型的全部旧行后插入新行。
	Replace(ctx context.Context, t *model.Token) error
	// Find 按令牌串查找任意类型的记录，未找到返回 (nil, nil)。
	Find(ctx context.Context, token string) (*model.Token, error)
	// FindRefresh 按令牌串查找 REFRESH 记录，未找到返回 (nil, nil)。
	FindRefresh(ctx context.Context, token string) (*model.Token, error)
	// DeleteForUser 删除该用户的全部令牌记录（所有类型）。
	DeleteForUser(ctx context.Context, userID uint) error
}

// Service 编排登录、注销与请求鉴权。
type Service struct {
	users      UserStore
	tokens     TokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService 创建认证服务。
func NewService(users UserStore, tokens TokenStore, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login 校验邮箱与密码，返回对应用户。
//
// 邮箱不存在与密码错误返回完全相同的文案，避免暴露账号是否存在。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil || !PasswordMatches(password, user.Password) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}
	return user, nil
}

// Logout 按出示的刷新令牌注销。
//
// 删除的是该持有者的全部令牌记录（含访问令牌），不只是出示的那条。
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	row, err := s.tokens.FindRefresh(ctx, refreshToken)
	if err != nil {
		return apperr.Internal(err)
	}
	if row == nil {
		return apperr.NotFound("Not found")
	}
	if err := s.tokens.DeleteForUser(ctx, row.UserID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Authenticate 校验出示的令牌并返回其持有者。
//
// 除签名与过期校验外，还要求令牌记录仍然在库且未被拉黑，
// 因此注销后即使签名仍然有效也会被拒绝。
func (s *Service) Authenticate(ctx context.Context, tokenStr string) (*model.User, error) {
	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	// TODO: 校验 claims.Type，目前 REFRESH 令牌同样可以通过接口鉴权。
	row, err := s.tokens.Find(ctx, tokenStr)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if row == nil || row.Blacklisted {
		return nil, apperr.Unauthorized("Wrong authentication token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("Wrong authentication token")
	}
	return user, nil
}
