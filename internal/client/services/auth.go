// Package services contains the application services behind the Desa
// Bantuin client screens. This file defines the authentication service:
// login, registration, logout and the liveness probe.
package services

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/desabantuin/internal/client/client"
	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/logging"
)

const (
	minPasswordLength = 6

	msgLoginMissing     = "Mohon lengkapi nomor telepon dan password"
	msgRegisterMissing  = "Mohon lengkapi semua field yang diperlukan"
	msgPasswordMismatch = "Password dan konfirmasi password tidak cocok"
	msgPasswordTooShort = "Password minimal 6 karakter"

	msgLoginOK        = "Login berhasil"
	msgLoginFailed    = "Login gagal"
	msgLoginError     = "Terjadi kesalahan saat login"
	msgRegisterOK     = "Registrasi berhasil!"
	msgRegisterFailed = "Registrasi gagal"
	msgRegisterError  = "Terjadi kesalahan saat registrasi"
)

// SessionStore is the part of session.Store the auth service drives.
type SessionStore interface {
	Login(ctx context.Context, token string, user models.User) error
	Logout(ctx context.Context) error
}

// RegisterForm is the registration screen input. Passwords are byte slices
// so the caller can wipe them.
type RegisterForm struct {
	Name                 string
	Email                string
	PhoneNumber          string
	Password             []byte
	PasswordConfirmation []byte
}

// AuthService defines authentication operations for the CLI.
//
// Login and Register validate input, call the backend and, on success, hand
// token and user to the session store. They return the message to show.
type AuthService interface {
	Login(ctx context.Context, phone string, password []byte) (string, error)
	Register(ctx context.Context, form RegisterForm) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger
}

func NewAuthService(c client.Client, store SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, store: store, log: log.With("component", "auth")}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (a *authService) Login(ctx context.Context, phone string, password []byte) (string, error) {
	if blank(phone) || len(password) == 0 {
		return "", &ValidationError{Message: msgLoginMissing}
	}

	res, err := a.client.Login(ctx, client.LoginRequest{
		PhoneNumber: strings.TrimSpace(phone),
		Password:    string(password),
	})
	if err != nil {
		return "", a.remoteError(ctx, "login", err, msgLoginFailed, msgLoginError)
	}

	if err := a.store.Login(ctx, res.Token, res.User); err != nil {
		return "", err
	}
	return messageOr(res.Message, msgLoginOK), nil
}

func (a *authService) Register(ctx context.Context, f RegisterForm) (string, error) {
	if blank(f.Name) || blank(f.Email) || blank(f.PhoneNumber) ||
		len(f.Password) == 0 || len(f.PasswordConfirmation) == 0 {
		return "", &ValidationError{Message: msgRegisterMissing}
	}
	if !bytes.Equal(f.Password, f.PasswordConfirmation) {
		return "", &ValidationError{Message: msgPasswordMismatch}
	}
	if len(f.Password) < minPasswordLength {
		return "", &ValidationError{Message: msgPasswordTooShort}
	}

	res, err := a.client.Register(ctx, client.RegisterRequest{
		Name:                 strings.TrimSpace(f.Name),
		Email:                strings.TrimSpace(f.Email),
		PhoneNumber:          strings.TrimSpace(f.PhoneNumber),
		Password:             string(f.Password),
		PasswordConfirmation: string(f.PasswordConfirmation),
	})
	if err != nil {
		return "", a.remoteError(ctx, "register", err, msgRegisterFailed, msgRegisterError)
	}

	if err := a.store.Login(ctx, res.Token, res.User); err != nil {
		return "", err
	}
	return messageOr(res.Message, msgRegisterOK), nil
}

// remoteError keeps the server's message when it sent one.
func (a *authService) remoteError(ctx context.Context, op string, err error, failed, broken string) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		a.log.Info(ctx, op+" refused", "status", apiErr.StatusCode, "message", apiErr.Message)
		return &RemoteError{Message: messageOr(apiErr.Message, failed), Err: err}
	}
	a.log.Warn(ctx, op+" failed", "error", err)
	return &RemoteError{Message: broken, Err: err}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Logout(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
