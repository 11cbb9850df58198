package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest represents the request to register a new user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the user profile and a signed token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SubmitJobRequest represents the request to start a tailoring job.
type SubmitJobRequest struct {
	TargetPostingID string   `json:"target_posting_id" validate:"required,uuid"`
	SourceRecordIDs []string `json:"source_record_ids" validate:"required,min=1,dive,uuid"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SubmitJobRequest using the validator.
func (r *SubmitJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
