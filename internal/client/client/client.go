package client

import (
	"context"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
)

type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	PhoneNumber          string `json:"phone_number"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResult is a successful login or registration.
type AuthResult struct {
	Message   string
	Token     string
	TokenType string
	User      models.User
}

type Client interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Ping(ctx context.Context) error
}
