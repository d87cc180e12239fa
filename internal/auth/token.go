package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
	"github.com/sevennguyen07/task-management/internal/pkg/metrics"
)

// Claims 是令牌负载，携带持有者 ID 与令牌类型。
type Claims struct {
	jwt.RegisteredClaims
	UserID uint            `json:"id"`
	Type   model.TokenType `json:"type"`
}

// TokenDetail 是单个令牌及其过期时间。
type TokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens 是一次登录签发的令牌对。
type AuthTokens struct {
	Access  TokenDetail `json:"access"`
	Refresh TokenDetail `json:"refresh"`
}

// Issue 签发一个指定类型的令牌并落库。
//
// 落库前先删除该用户同类型的全部旧行，保证同类型最多一行。
// 删除与插入是两次独立写入，未加事务。
func (s *Service) Issue(ctx context.Context, userID uint, expiresAt time.Time, typ model.TokenType) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Type:   typ,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal(err)
	}

	if err := s.tokens.Replace(ctx, &model.Token{
		UserID:      userID,
		Token:       signed,
		Type:        typ,
		ExpiresAt:   expiresAt,
		Blacklisted: false,
	}); err != nil {
		return "", apperr.Internal(err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(typ)).Inc()
	return signed, nil
}

// IssueAuthPair 签发一对访问/刷新令牌。
//
// 先访问后刷新，两次签发相互独立；中途失败可能只留下访问令牌。
func (s *Service) IssueAuthPair(ctx context.Context, userID uint) (*AuthTokens, error) {
	accessExpires := s.now().Add(s.accessTTL)
	accessToken, err := s.Issue(ctx, userID, accessExpires, model.TokenAccess)
	if err != nil {
		return nil, err
	}

	refreshExpires := s.now().Add(s.refreshTTL)
	refreshToken, err := s.Issue(ctx, userID, refreshExpires, model.TokenRefresh)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		Access:  TokenDetail{Token: accessToken, Expires: accessExpires},
		Refresh: TokenDetail{Token: refreshToken, Expires: refreshExpires},
	}, nil
}

func (s *Service) parseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Wrong authentication token")
	}
	return claims, nil
}
