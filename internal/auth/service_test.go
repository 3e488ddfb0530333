package auth

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/dkushnir/library-service-api/pkg/auth"
	"github.com/dkushnir/library-service-api/pkg/auth/session"
	"github.com/dkushnir/library-service-api/pkg/config"
	"github.com/dkushnir/library-service-api/pkg/db/models"
	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
	"github.com/dkushnir/library-service-api/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret-please-rotate",
	Issuer:            "library-test",
	ExpirationMinutes: 15,
}

// Fast argon parameters; production values are far heavier.
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uint]*models.User

	lastLoginCalls int
	profileUpdates map[string]any
}

func newFakeUserRepo(list ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: map[string]*models.User{}, byID: map[uint]*models.User{}}
	for _, u := range list {
		repo.byEmail[u.Email] = u
		repo.byID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id uint, updates map[string]any) error {
	f.profileUpdates = updates
	if u, ok := f.byID[id]; ok {
		if v, ok := updates["first_name"].(string); ok {
			u.FirstName = v
		}
		if v, ok := updates["last_name"].(string); ok {
			u.LastName = v
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	f.lastLoginCalls++
	return nil
}

type fakeSessionManager struct {
	generated []string
	revoked   []string

	rotateErr error
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	return "rotated-id", "rotated-refresh", nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func seedActiveUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.User{
		ID:           1,
		Email:        "reader@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
}

func newAuthService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := seedActiveUser(t, "correct horse battery")
	repo := newFakeUserRepo(user)
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, repo, sessions)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Reader@Example.com ",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user %d in claims, got %d", user.ID, claims.UserID)
	}
	if claims.IsStaff {
		t.Fatal("reader must not carry the staff claim")
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("refresh session must be bound to the token JTI, got %v", sessions.generated)
	}
	if repo.lastLoginCalls != 1 {
		t.Fatalf("expected last login recorded once, got %d", repo.lastLoginCalls)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo(seedActiveUser(t, "correct horse battery"))
	svc := newAuthService(t, repo, &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "reader@example.com",
		Password: "wrong",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo(), &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := seedActiveUser(t, "correct horse battery")
	user.IsActive = false
	svc := newAuthService(t, newFakeUserRepo(user), &fakeSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, newFakeUserRepo(), sessions)

	// Minted far in the past so the expiry claim is no longer valid.
	expired, err := pkgauth.MintAccessToken(testJWTConfig, time.Now().Add(-48*time.Hour), pkgauth.AccessTokenPayload{
		UserID: 1,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	result, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  expired,
		RefreshToken: "some-refresh",
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID != "rotated-id" {
		t.Fatalf("expected rotated JTI, got %s", claims.ID)
	}
	if result.RefreshToken != "rotated-refresh" {
		t.Fatalf("expected rotated refresh token, got %s", result.RefreshToken)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	sessions := &fakeSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, newFakeUserRepo(), sessions)

	token, err := pkgauth.MintAccessToken(testJWTConfig, time.Now(), pkgauth.AccessTokenPayload{
		UserID: 1,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  token,
		RefreshToken: "stolen",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := newAuthService(t, newFakeUserRepo(), sessions)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("expected session jti-1 revoked, got %v", sessions.revoked)
	}
}

func TestUpdateProfileHashesNewPassword(t *testing.T) {
	user := seedActiveUser(t, "old password 123")
	repo := newFakeUserRepo(user)
	svc := newAuthService(t, repo, &fakeSessionManager{})

	newPassword := "brand new password"
	if _, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Password: &newPassword}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	hash, ok := repo.profileUpdates["password_hash"].(string)
	if !ok || hash == "" {
		t.Fatal("expected a password_hash update")
	}
	if hash == newPassword {
		t.Fatal("password must never be stored in the clear")
	}
	if match, err := security.VerifyPassword(newPassword, hash); err != nil || !match {
		t.Fatalf("stored hash must verify against the new password (match=%v, err=%v)", match, err)
	}
}
