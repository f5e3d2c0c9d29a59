package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/jobs"
	"github.com/openacademia/catalog-api/pkg/password"
)

type fakeAuthAdmins struct {
	byEmail          map[string]*models.Admin
	byID             map[string]*models.Admin
	lastLoginUpdated bool
	updatedHash      string
}

func (f *fakeAuthAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthAdmins) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthAdmins) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	f.lastLoginUpdated = true
	return nil
}

func (f *fakeAuthAdmins) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	f.updatedHash = passwordHash
	return nil
}

type fakeTokens struct {
	refresh     map[string]*models.RefreshToken
	reset       map[string]*models.ResetToken
	revokedIDs  []string
	revokedAll  []string
	usedResets  []string
	createdRefs int
}

func (f *fakeTokens) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if f.refresh == nil {
		f.refresh = map[string]*models.RefreshToken{}
	}
	f.refresh[token.Token] = token
	f.createdRefs++
	return nil
}

func (f *fakeTokens) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.refresh[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokens) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	f.revokedIDs = append(f.revokedIDs, id)
	for _, t := range f.refresh {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func (f *fakeTokens) RevokeAdminRefreshTokens(ctx context.Context, adminID string) error {
	f.revokedAll = append(f.revokedAll, adminID)
	return nil
}

func (f *fakeTokens) CreateResetToken(ctx context.Context, token *models.ResetToken) error {
	if f.reset == nil {
		f.reset = map[string]*models.ResetToken{}
	}
	f.reset[token.Token] = token
	return nil
}

func (f *fakeTokens) FindResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	if t, ok := f.reset[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokens) MarkResetTokenUsed(ctx context.Context, id string, usedAt time.Time) error {
	f.usedResets = append(f.usedResets, id)
	for _, t := range f.reset {
		if t.ID == id {
			t.UsedAt = &usedAt
		}
	}
	return nil
}

type fakeQueue struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeMailer struct {
	resets []string
	err    error
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, email, name, link string) error {
	if f.err != nil {
		return f.err
	}
	f.resets = append(f.resets, email+" "+link)
	return nil
}

func activeAdmin(t *testing.T, id, email, rawPassword string) *models.Admin {
	t.Helper()
	hash, err := password.Hash(rawPassword)
	require.NoError(t, err)
	return &models.Admin{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test Admin",
		Role:         models.RoleRector,
		State:        models.StateActive,
	}
}

func newAuthService(admins *fakeAuthAdmins, tokens *fakeTokens, mailer *fakeMailer, queue *fakeQueue) *AuthService {
	return NewAuthService(admins, tokens, mailer, queue, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "catalog-api",
		ResetURLBase:       "https://example.com/reset",
		ResetTokenTTL:      time.Hour,
	})
}

func TestLoginSuccess(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{admin.Email: admin}}
	tokens := &fakeTokens{}
	svc := newAuthService(admins, tokens, &fakeMailer{}, &fakeQueue{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "Sup3r-Secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "a1", res.Admin.ID)
	assert.True(t, admins.lastLoginUpdated)
	assert.Equal(t, 1, tokens.createdRefs)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.AdminID)
	assert.Equal(t, models.RoleRector, claims.Role)
}

func TestLoginDoesNotRevealUnknownAccounts(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{admin.Email: admin}}
	svc := newAuthService(admins, &fakeTokens{}, &fakeMailer{}, &fakeQueue{})

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "Sup3r-Secret"})
	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.True(t, appErrors.IsCode(unknownErr, appErrors.ErrInvalidCredentials.Code))
}

func TestLoginInactiveAccount(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admin.State = models.StateSuspended
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{admin.Email: admin}}
	svc := newAuthService(admins, &fakeTokens{}, &fakeMailer{}, &fakeQueue{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "Sup3r-Secret"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrInactiveAccount.Code))
}

func TestRefreshTokenRotates(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{
		byEmail: map[string]*models.Admin{admin.Email: admin},
		byID:    map[string]*models.Admin{admin.ID: admin},
	}
	tokens := &fakeTokens{refresh: map[string]*models.RefreshToken{
		"old-token": {ID: "t1", AdminID: "a1", Token: "old-token", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthService(admins, tokens, &fakeMailer{}, &fakeQueue{})

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", res.RefreshToken)
	assert.Contains(t, tokens.revokedIDs, "t1")

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
}

func TestRefreshTokenExpired(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byID: map[string]*models.Admin{admin.ID: admin}}
	tokens := &fakeTokens{refresh: map[string]*models.RefreshToken{
		"stale": {ID: "t1", AdminID: "a1", Token: "stale", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	svc := newAuthService(admins, tokens, &fakeMailer{}, &fakeQueue{})

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	tokens := &fakeTokens{refresh: map[string]*models.RefreshToken{
		"theirs": {ID: "t1", AdminID: "a2", Token: "theirs", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthService(&fakeAuthAdmins{}, tokens, &fakeMailer{}, &fakeQueue{})

	err := svc.Logout(context.Background(), "a1", "theirs")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrForbidden.Code))
	assert.Empty(t, tokens.revokedIDs)
}

func TestChangePasswordEnforcesPolicyAndRevokesSessions(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byID: map[string]*models.Admin{admin.ID: admin}}
	tokens := &fakeTokens{}
	svc := newAuthService(admins, tokens, &fakeMailer{}, &fakeQueue{})

	err := svc.ChangePassword(context.Background(), "a1", models.ChangePasswordRequest{OldPassword: "Sup3r-Secret", NewPassword: "weak"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))

	err = svc.ChangePassword(context.Background(), "a1", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "N3w-Secret!"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrForbidden.Code))

	err = svc.ChangePassword(context.Background(), "a1", models.ChangePasswordRequest{OldPassword: "Sup3r-Secret", NewPassword: "N3w-Secret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, admins.updatedHash)
	assert.Contains(t, tokens.revokedAll, "a1")
}

func TestForgotPasswordAlwaysAcknowledges(t *testing.T) {
	queue := &fakeQueue{}
	svc := newAuthService(&fakeAuthAdmins{}, &fakeTokens{}, &fakeMailer{}, queue)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "anyone@example.com"}))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ResetJobType, queue.jobs[0].Type)

	queue.err = errors.New("queue full")
	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "anyone@example.com"}))
}

func TestDeliverResetSendsLinkForActiveAccount(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{admin.Email: admin}}
	tokens := &fakeTokens{}
	mailer := &fakeMailer{}
	svc := newAuthService(admins, tokens, mailer, &fakeQueue{})

	err := svc.DeliverReset(context.Background(), jobs.Job{Type: ResetJobType, Payload: ResetJobPayload{Email: admin.Email}})
	require.NoError(t, err)
	require.Len(t, mailer.resets, 1)
	assert.Contains(t, mailer.resets[0], "https://example.com/reset?token=")
	assert.Len(t, tokens.reset, 1)
}

func TestDeliverResetDropsUnknownAndInactiveSilently(t *testing.T) {
	inactive := activeAdmin(t, "a2", "gone@example.com", "Sup3r-Secret")
	inactive.State = models.StateInactive
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{inactive.Email: inactive}}
	mailer := &fakeMailer{}
	svc := newAuthService(admins, &fakeTokens{}, mailer, &fakeQueue{})

	require.NoError(t, svc.DeliverReset(context.Background(), jobs.Job{Payload: ResetJobPayload{Email: "nobody@example.com"}}))
	require.NoError(t, svc.DeliverReset(context.Background(), jobs.Job{Payload: ResetJobPayload{Email: inactive.Email}}))
	assert.Empty(t, mailer.resets)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byID: map[string]*models.Admin{admin.ID: admin}}
	tokens := &fakeTokens{reset: map[string]*models.ResetToken{
		"reset-1": {ID: "r1", AdminID: "a1", Token: "reset-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthService(admins, tokens, &fakeMailer{}, &fakeQueue{})

	require.NoError(t, svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "reset-1", NewPassword: "N3w-Secret!"}))
	assert.Contains(t, tokens.usedResets, "r1")
	assert.Contains(t, tokens.revokedAll, "a1")

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "reset-1", NewPassword: "N3w-Secret!"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	admin := activeAdmin(t, "a1", "rector@example.com", "Sup3r-Secret")
	admins := &fakeAuthAdmins{byEmail: map[string]*models.Admin{admin.Email: admin}}
	svc := newAuthService(admins, &fakeTokens{}, &fakeMailer{}, &fakeQueue{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: admin.Email, Password: "Sup3r-Secret"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
}
