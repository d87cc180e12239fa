package auth

import (
	"context"
	"testing"
	"time"

	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
	"github.com/sevennguyen07/task-management/internal/pkg/metrics"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	byID    map[uint]*model.User
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return f.byID[id], nil
}

// fakeTokenStore 以 (userID, type) 为键保存令牌行，复刻先删后插的语义。
type fakeTokenStore struct {
	rows        []model.Token
	deleteCalls []uint
}

func (f *fakeTokenStore) Replace(ctx context.Context, t *model.Token) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID == t.UserID && row.Type == t.Type {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = append(kept, *t)
	return nil
}

func (f *fakeTokenStore) Find(ctx context.Context, token string) (*model.Token, error) {
	for i := range f.rows {
		if f.rows[i].Token == token {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTokenStore) FindRefresh(ctx context.Context, token string) (*model.Token, error) {
	for i := range f.rows {
		if f.rows[i].Token == token && f.rows[i].Type == model.TokenRefresh {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTokenStore) DeleteForUser(ctx context.Context, userID uint) error {
	f.deleteCalls = append(f.deleteCalls, userID)
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID == userID {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

func newTestService(t *testing.T, users *fakeUserStore, tokens *fakeTokenStore) *Service {
	t.Helper()
	metrics.InitMetrics()
	if users == nil {
		users = &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	}
	if tokens == nil {
		tokens = &fakeTokenStore{}
	}
	return NewService(users, tokens, "unit-test-secret", 30*time.Minute, 30*24*time.Hour)
}

func seedUser(t *testing.T, users *fakeUserStore, id uint, email, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{ID: id, Email: email, Password: hash}
	users.byEmail[email] = u
	users.byID[id] = u
	return u
}

func TestLoginSuccess(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 1, "jane@example.com", "Password1")
	svc := newTestService(t, users, nil)

	user, err := svc.Login(context.Background(), "jane@example.com", "Password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLoginFailuresShareMessage(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 1, "jane@example.com", "Password1")
	svc := newTestService(t, users, nil)

	_, wrongPassword := svc.Login(context.Background(), "jane@example.com", "Password2")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "Password1")

	for _, err := range []error{wrongPassword, unknownEmail} {
		e := apperr.As(err)
		if e == nil || e.Kind != apperr.KindUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if e.Message != "Incorrect email or password" {
			t.Fatalf("unexpected message: %q", e.Message)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("both failure modes must share the exact same message")
	}
}

func TestIssueAuthPairKeepsOneRowPerType(t *testing.T) {
	tokens := &fakeTokenStore{}
	svc := newTestService(t, nil, tokens)

	ctx := context.Background()
	if _, err := svc.IssueAuthPair(ctx, 7); err != nil {
		t.Fatalf("first pair: %v", err)
	}
	if _, err := svc.IssueAuthPair(ctx, 7); err != nil {
		t.Fatalf("second pair: %v", err)
	}

	perType := map[model.TokenType]int{}
	for _, row := range tokens.rows {
		if row.UserID == 7 {
			perType[row.Type]++
		}
	}
	if perType[model.TokenAccess] != 1 || perType[model.TokenRefresh] != 1 {
		t.Fatalf("expected one live row per type, got %+v", perType)
	}
}

func TestLogoutUnknownTokenIsNotFound(t *testing.T) {
	svc := newTestService(t, nil, &fakeTokenStore{})

	err := svc.Logout(context.Background(), "no-such-token")
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLogoutDeletesEveryTokenOfOwner(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 3, "jane@example.com", "Password1")
	tokens := &fakeTokenStore{}
	svc := newTestService(t, users, tokens)

	ctx := context.Background()
	pair, err := svc.IssueAuthPair(ctx, 3)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if err := svc.Logout(ctx, pair.Refresh.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(tokens.rows) != 0 {
		t.Fatalf("expected all rows removed, got %d", len(tokens.rows))
	}

	// 配对的访问令牌签名仍然有效，但记录已删，鉴权必须失败
	_, err = svc.Authenticate(ctx, pair.Access.Token)
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 5, "jane@example.com", "Password1")
	svc := newTestService(t, users, &fakeTokenStore{})

	ctx := context.Background()
	pair, err := svc.IssueAuthPair(ctx, 5)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	user, err := svc.Authenticate(ctx, pair.Access.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 5 {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthenticateRefreshTokenAlsoPasses(t *testing.T) {
	// 既有契约：鉴权不检查令牌类型，刷新令牌同样可用
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 5, "jane@example.com", "Password1")
	svc := newTestService(t, users, &fakeTokenStore{})

	ctx := context.Background()
	pair, err := svc.IssueAuthPair(ctx, 5)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := svc.Authenticate(ctx, pair.Refresh.Token); err != nil {
		t.Fatalf("expected refresh token to authenticate, got %v", err)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Authenticate(context.Background(), "not.a.jwt")
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 5, "jane@example.com", "Password1")
	svc := newTestService(t, users, &fakeTokenStore{})

	ctx := context.Background()
	expired, err := svc.Issue(ctx, 5, time.Now().Add(-time.Minute), model.TokenAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Authenticate(ctx, expired)
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestAuthenticateRejectsBlacklistedRow(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 5, "jane@example.com", "Password1")
	tokens := &fakeTokenStore{}
	svc := newTestService(t, users, tokens)

	ctx := context.Background()
	signed, err := svc.Issue(ctx, 5, time.Now().Add(time.Hour), model.TokenAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for i := range tokens.rows {
		tokens.rows[i].Blacklisted = true
	}

	_, err = svc.Authenticate(ctx, signed)
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for blacklisted token, got %v", err)
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}, byID: map[uint]*model.User{}}
	seedUser(t, users, 5, "jane@example.com", "Password1")
	svc := newTestService(t, users, &fakeTokenStore{})

	ctx := context.Background()
	pair, err := svc.IssueAuthPair(ctx, 5)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	delete(users.byID, 5)

	_, err = svc.Authenticate(ctx, pair.Access.Token)
	e := apperr.As(err)
	if e == nil || e.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for deleted user, got %v", err)
	}
}
