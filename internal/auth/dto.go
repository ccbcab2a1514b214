package auth

import (
	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/core/common/validation"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

const minPasswordLength = 8

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdatePasswordDTO struct {
	Password string `json:"password"`
}

// SignUpRequest creates an account plus its profile. Role defaults to employee.
type SignUpRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Role       grc.Role `json:"role,omitempty"`
	Department string   `json:"department"`
}

func (r SignUpRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("email", r.Email).Required().Email()
	v.Field("password", r.Password).Required().MinLength(minPasswordLength)
	v.Field("name", r.Name).Required().MaxLength(200)
	if r.Role != "" {
		v.Field("role", string(r.Role)).OneOf(grc.Names(grc.Roles), internal.ErrCodeInvalidRole)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (r SignUpRequest) role() grc.Role {
	if r.Role == "" {
		return grc.RoleEmployee
	}
	return r.Role
}

func validatePassword(pw string) error {
	v := validation.NewValidator()
	v.Field("password", pw).Required().MinLength(minPasswordLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
