package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	LastName     string    `json:"lastname" db:"lastname"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DateOfBirth  string    `json:"dateBirth" db:"date_of_birth"` // Format: YYYY-MM-DD
	Phone        string    `json:"numeroPhone" db:"phone"`
	Address      string    `json:"adress" db:"address"`

	IsVerified       bool       `json:"isAccountVerified" db:"is_verified"`
	VerifyCode       string     `json:"-" db:"verify_code"`
	VerifyCodeExpiry *time.Time `json:"-" db:"verify_code_expires_at"`
	ResetCode        string     `json:"-" db:"reset_code"`
	ResetCodeExpiry  *time.Time `json:"-" db:"reset_code_expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OTPPurpose selects which code/expiry pair on the account a one-time code
// operation targets.
type OTPPurpose string

const (
	OTPPurposeVerify OTPPurpose = "verify"
	OTPPurposeReset  OTPPurpose = "reset"
)

// Code returns the stored code and expiry for the given purpose.
func (u *User) Code(purpose OTPPurpose) (string, *time.Time) {
	if purpose == OTPPurposeReset {
		return u.ResetCode, u.ResetCodeExpiry
	}
	return u.VerifyCode, u.VerifyCodeExpiry
}

// SetCode stores a code/expiry pair. The pair is always written together so
// a non-empty code has a governing expiry.
func (u *User) SetCode(purpose OTPPurpose, code string, expiry time.Time) {
	if purpose == OTPPurposeReset {
		u.ResetCode = code
		u.ResetCodeExpiry = &expiry
		return
	}
	u.VerifyCode = code
	u.VerifyCodeExpiry = &expiry
}

// ClearCode empties a code/expiry pair, making the code unusable.
func (u *User) ClearCode(purpose OTPPurpose) {
	if purpose == OTPPurposeReset {
		u.ResetCode = ""
		u.ResetCodeExpiry = nil
		return
	}
	u.VerifyCode = ""
	u.VerifyCodeExpiry = nil
}

// PublicUser is the identity payload returned by login and is-auth; it never
// carries the password hash or pending codes.
type PublicUser struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	LastName          string    `json:"lastname"`
	IsAccountVerified bool      `json:"isAccountVerified"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		LastName:          u.LastName,
		IsAccountVerified: u.IsVerified,
	}
}

// RegisterRequest carries the registration form. Field names match the wire
// format the existing client sends, misspellings included.
type RegisterRequest struct {
	Name            string `json:"name"`
	LastName        string `json:"lastname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
	DateOfBirth     string `json:"dateBirth"`
	Phone           string `json:"numeroPhone"`
	Address         string `json:"adress"`
}
