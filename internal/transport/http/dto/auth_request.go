package dto

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password_strength", passwordStrength)
	_ = v.RegisterValidation("username_format", usernameFormat)
	return v
}

// passwordStrength requires at least 8 chars with one upper, one lower
// and one digit.
func passwordStrength(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// usernameFormat rejects whitespace and the '@' separator so usernames
// can never be mistaken for email addresses at login.
func usernameFormat(fl validator.FieldLevel) bool {
	u := fl.Field().String()
	if u == "" {
		return false
	}
	return !strings.ContainsAny(u, " \t@")
}

type LoginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" validate:"required,min=1,max=254"`
	Password   string `json:"password" validate:"required,min=1,max=128"`
}

type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username_format"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password_strength,max=128"`
	Name     string `json:"name" validate:"max=64"`
	Surname  string `json:"surname" validate:"max=64"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password_strength,max=128"`
}

type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username" validate:"required,min=3,max=32,username_format"`
	Password    string `json:"password" validate:"required"`
}

type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type DeleteMeRequest struct {
	Password string `json:"password" validate:"required"`
}

// Validate runs the struct tags against v and returns a map of
// field -> failed rule suitable for an error response payload.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "invalid payload"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}
