package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/config"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

// SessionTokenDuration is the lifetime of a session credential. Tokens are
// not tracked server-side: logout only clears the client's cookie, so a token
// stays formally valid until this window elapses.
const SessionTokenDuration = 7 * 24 * time.Hour

const minimumAge = 18

type Claims struct {
	UserID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}

type authService struct {
	config    *config.Config
	userRepo  domain.UserRepository
	otpSvc    domain.OTPService
	mailer    domain.Mailer
	jwtSecret string
	now       func() time.Time
}

func NewAuthService(
	cfg *config.Config,
	userRepo domain.UserRepository,
	otpSvc domain.OTPService,
	mailer domain.Mailer,
) domain.AuthService {
	return &authService{
		config:    cfg,
		userRepo:  userRepo,
		otpSvc:    otpSvc,
		mailer:    mailer,
		jwtSecret: cfg.JWTSecret,
		now:       time.Now,
	}
}

// Register validates the registration form, creates the account in the
// unverified state and dispatches the verification code. No session is
// issued: login stays blocked until the email is verified.
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) error {
	req.Name = domain.SanitizeString(req.Name)
	req.LastName = domain.SanitizeString(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = domain.SanitizeString(req.Phone)
	req.Address = domain.SanitizeString(req.Address)

	if req.Name == "" || req.LastName == "" || req.Email == "" || req.Password == "" ||
		req.ConfirmPassword == "" || req.DateOfBirth == "" || req.Phone == "" || req.Address == "" {
		return domain.NewValidationError("body", "missing details")
	}
	if req.Password != req.ConfirmPassword {
		return domain.NewValidationError("confirmpassword", "passwords do not match")
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return err
	}
	if err := domain.ValidateEmailFormat(req.Email); err != nil {
		return err
	}
	if err := domain.ValidateMinimumAge(req.DateOfBirth, minimumAge, s.now()); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		DateOfBirth:  req.DateOfBirth,
		Phone:        req.Phone,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	return s.dispatchCode(ctx, user, domain.OTPPurposeVerify)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("body", "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", nil, domain.ErrNotVerified
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

func (s *authService) SendVerifyOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return s.dispatchCode(ctx, user, domain.OTPPurposeVerify)
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return s.otpSvc.Validate(ctx, user, domain.OTPPurposeVerify, code)
}

func (s *authService) SendResetOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.dispatchCode(ctx, user, domain.OTPPurposeReset)
}

// ResetPassword validates the reset code (clearing it in the process) and
// stores the new secret.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return domain.NewValidationError("newPassword", "new password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otpSvc.Validate(ctx, user, domain.OTPPurposeReset, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now()
	return s.userRepo.Update(ctx, user)
}

func (s *authService) issueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken verifies signature and expiry; every failure collapses into a
// uniform authentication error so callers cannot distinguish the cause.
func (s *authService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return claims.UserID, nil
}

func (s *authService) CurrentUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// dispatchCode issues a fresh code and mails it. A send failure surfaces to
// the caller as-is; there are no retries.
func (s *authService) dispatchCode(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) error {
	code, err := s.otpSvc.Issue(ctx, user, purpose)
	if err != nil {
		return err
	}

	subject := "Account Verification Code"
	body := fmt.Sprintf("Your verification code is: %s. It will expire in 24 hours.", code)
	if purpose == domain.OTPPurposeReset {
		subject = "Password Reset Code"
		body = fmt.Sprintf("Your code for resetting your password is: %s. Use this code to proceed with resetting your password.", code)
	}

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send one-time code")
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
