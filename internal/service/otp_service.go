package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

// Validity windows for the two code purposes.
const (
	VerifyCodeTTL = 24 * time.Hour
	ResetCodeTTL  = 15 * time.Minute
)

type otpService struct {
	userRepo domain.UserRepository
	now      func() time.Time
}

func NewOTPService(userRepo domain.UserRepository) domain.OTPService {
	return &otpService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue overwrites any existing code/expiry pair for the purpose and persists
// the account before returning the code for delivery.
func (s *otpService) Issue(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	ttl := VerifyCodeTTL
	if purpose == domain.OTPPurposeReset {
		ttl = ResetCodeTTL
	}

	now := s.now()
	user.SetCode(purpose, code, now.Add(ttl))
	user.UpdatedAt = now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return code, nil
}

// Validate checks a supplied code against the stored pair. A match past its
// expiry clears the pair before failing, so an expired code cannot be
// retried; a successful match clears the pair (single use) and, for the
// verification purpose, marks the account verified.
func (s *otpService) Validate(ctx context.Context, user *domain.User, purpose domain.OTPPurpose, supplied string) error {
	stored, expiry := user.Code(purpose)
	if stored == "" || stored != supplied {
		return domain.ErrInvalidCode
	}

	now := s.now()
	if expiry == nil || now.After(*expiry) {
		user.ClearCode(purpose)
		user.UpdatedAt = now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return domain.ErrCodeExpired
	}

	user.ClearCode(purpose)
	if purpose == domain.OTPPurposeVerify {
		user.IsVerified = true
	}
	user.UpdatedAt = now
	return s.userRepo.Update(ctx, user)
}
