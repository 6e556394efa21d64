package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

func newOTPServiceAt(repo *fakeUserRepo, at time.Time) *otpService {
	return &otpService{
		userRepo: repo,
		now:      func() time.Time { return at },
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:    uuid.New(),
		Email: "a@x.com",
		Name:  "Ada",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestIssue_SetsCodeAndExpiry(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newOTPServiceAt(repo, issuedAt)

	code, err := svc.Issue(context.Background(), user, domain.OTPPurposeVerify)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	stored, expiry := user.Code(domain.OTPPurposeVerify)
	assert.Equal(t, code, stored)
	require.NotNil(t, expiry)
	assert.Equal(t, issuedAt.Add(VerifyCodeTTL), *expiry)

	// reset pair untouched
	resetCode, resetExpiry := user.Code(domain.OTPPurposeReset)
	assert.Empty(t, resetCode)
	assert.Nil(t, resetExpiry)
}

func TestIssue_OverwritesPreviousCode(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newOTPServiceAt(repo, issuedAt)

	first, err := svc.Issue(context.Background(), user, domain.OTPPurposeReset)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), user, domain.OTPPurposeReset)
	require.NoError(t, err)

	err = svc.Validate(context.Background(), user, domain.OTPPurposeReset, second)
	assert.NoError(t, err)
	_ = first
}

func TestValidate_VerifyWindow(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"accepted just inside 24h", issuedAt.Add(23*time.Hour + 59*time.Minute), nil},
		{"rejected just past 24h", issuedAt.Add(24*time.Hour + time.Minute), domain.ErrCodeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			user := seedUser(t, repo)
			code, err := newOTPServiceAt(repo, issuedAt).Issue(context.Background(), user, domain.OTPPurposeVerify)
			require.NoError(t, err)

			err = newOTPServiceAt(repo, tt.at).Validate(context.Background(), user, domain.OTPPurposeVerify, code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, user.IsVerified)
			} else {
				assert.NoError(t, err)
				assert.True(t, user.IsVerified)
			}
		})
	}
}

func TestValidate_ResetWindow(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"accepted at 14m", issuedAt.Add(14 * time.Minute), nil},
		{"rejected at 16m", issuedAt.Add(16 * time.Minute), domain.ErrCodeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			user := seedUser(t, repo)
			code, err := newOTPServiceAt(repo, issuedAt).Issue(context.Background(), user, domain.OTPPurposeReset)
			require.NoError(t, err)

			err = newOTPServiceAt(repo, tt.at).Validate(context.Background(), user, domain.OTPPurposeReset, code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_SingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newOTPServiceAt(repo, issuedAt.Add(time.Minute))

	code, err := newOTPServiceAt(repo, issuedAt).Issue(context.Background(), user, domain.OTPPurposeVerify)
	require.NoError(t, err)

	require.NoError(t, svc.Validate(context.Background(), user, domain.OTPPurposeVerify, code))
	err = svc.Validate(context.Background(), user, domain.OTPPurposeVerify, code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestValidate_ExpiryClearsCode(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	code, err := newOTPServiceAt(repo, issuedAt).Issue(context.Background(), user, domain.OTPPurposeReset)
	require.NoError(t, err)

	late := newOTPServiceAt(repo, issuedAt.Add(time.Hour))
	err = late.Validate(context.Background(), user, domain.OTPPurposeReset, code)
	require.ErrorIs(t, err, domain.ErrCodeExpired)

	// an expired code cannot be retried: the pair was cleared and persisted
	stored, expiry := user.Code(domain.OTPPurposeReset)
	assert.Empty(t, stored)
	assert.Nil(t, expiry)

	err = late.Validate(context.Background(), user, domain.OTPPurposeReset, code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestValidate_WrongOrEmptyCode(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newOTPServiceAt(repo, issuedAt)

	// nothing issued yet
	err := svc.Validate(context.Background(), user, domain.OTPPurposeVerify, "123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	code, err := svc.Issue(context.Background(), user, domain.OTPPurposeVerify)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.Validate(context.Background(), user, domain.OTPPurposeVerify, wrong)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestGenerateCode_InRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
