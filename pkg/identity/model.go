// Package identity defines enrolled wallet identities and their record store.
package identity

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identity is a registered wallet owner. Email is the unique lookup key. An
// identity without face data can only authenticate through the password+OTP
// fallback path.
type Identity struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password"`
	FaceData     FaceData  `json:"faceData"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Registration is the profile input collected at sign-up.
type Registration struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required"`
	Password string `validate:"required,min=8"`
}

// StartingBalance is credited to every new identity so the demo wallet has
// something to move around.
const StartingBalance int64 = 1000_00

var validate = validator.New()

// Validate checks the registration input.
func (r Registration) Validate() error {
	return validate.Struct(r)
}

// New builds an Identity from validated registration input. The password is
// stored only as a bcrypt hash.
func New(reg Registration) (Identity, error) {
	if err := reg.Validate(); err != nil {
		return Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		ID:           uuid.NewString(),
		FullName:     reg.FullName,
		Email:        reg.Email,
		Phone:        reg.Phone,
		PasswordHash: string(hash),
		Balance:      StartingBalance,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (i Identity) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(i.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the stored hash with one for the new password.
func (i *Identity) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = string(hash)
	return nil
}
