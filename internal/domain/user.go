package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = NewRuleError("user ID cannot be empty")
	ErrInvalidEmail        = NewRuleError("invalid email format")
	ErrEmptyEmail          = NewRuleError("email cannot be empty")
	ErrEmptyUserName       = NewRuleError("user name cannot be empty")
	ErrUserNameTooLong     = NewRuleError("user name must be at most 64 characters long")
	ErrPasswordTooShort    = NewRuleError("password must be at least 8 characters long")
	ErrPasswordTooLong     = NewRuleError("password must be at most 72 characters long")
	ErrEmptyPassword       = NewRuleError("password cannot be empty")
	ErrEmptyHashedPassword = NewRuleError("hashed password cannot be empty")
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	maxUserNameLength = 64
)

var fieldValidator = validator.New()

// User represents a registered learner.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	UserName       string    `json:"user_name"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, user name and plaintext
// password. An empty user name defaults to the email address.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, userName, password string) (*User, error) {
	email = strings.TrimSpace(email)
	userName = strings.TrimSpace(userName)
	if userName == "" {
		userName = email
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		UserName:  userName,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data. Failures are ValidationErrors
// wrapping the specific sentinel above.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyUserID)
	}

	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}

	if err := fieldValidator.Var(u.Email, "email"); err != nil {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}

	if u.UserName == "" {
		return NewValidationError("user_name", "cannot be empty", ErrEmptyUserName)
	}
	if len(u.UserName) > maxUserNameLength {
		return NewValidationError("user_name", "is too long", ErrUserNameTooLong)
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < minPasswordLength:
			return NewValidationError("password", "is too short", ErrPasswordTooShort)
		case len(u.Password) > maxPasswordLength:
			return NewValidationError("password", "is too long", ErrPasswordTooLong)
		}
		return nil
	}

	// Existing users loaded from storage only carry the hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
	}

	return nil
}
