package domain

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CVRepository interface {
	Upsert(ctx context.Context, cv *CV) (*CV, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CV, error)
	AddItem(ctx context.Context, cvID uuid.UUID, item *CVItem) error
	UpdateItem(ctx context.Context, cvID, itemID uuid.UUID, section Section, data json.RawMessage) error
	RemoveItem(ctx context.Context, cvID, itemID uuid.UUID, section Section) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// AuthService orchestrates the account lifecycle: registration, one-time-code
// verification, login/logout and password reset.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) error
	Login(ctx context.Context, email, password string) (string, *PublicUser, error)
	SendVerifyOTP(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	SendResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ValidateToken(token string) (uuid.UUID, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// OTPService issues and validates the time-boxed numeric codes embedded in
// an account. Codes are single-use; validation clears them on success and on
// detected expiry.
type OTPService interface {
	Issue(ctx context.Context, user *User, purpose OTPPurpose) (string, error)
	Validate(ctx context.Context, user *User, purpose OTPPurpose, supplied string) error
}

type CVService interface {
	CreateOrUpdate(ctx context.Context, userID uuid.UUID, req *CVUpsertRequest) (*CV, error)
	Get(ctx context.Context, userID uuid.UUID) (*CV, error)
	AddItem(ctx context.Context, userID uuid.UUID, section string, item json.RawMessage) (*CV, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID, patch json.RawMessage) (*CV, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID) (*CV, error)
	UpdateInfo(ctx context.Context, userID uuid.UUID, req *CVUpsertRequest) (*CV, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	Export(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// Mailer delivers outbound notifications. A failed send surfaces to the
// caller; nothing retries automatically.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Renderer turns a CV and its owner into a downloadable document.
type Renderer interface {
	Render(user *User, cv *CV) ([]byte, error)
}
