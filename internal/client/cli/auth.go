package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/client"
	"github.com/dmitrijs2005/desabantuin/internal/client/services"
	"github.com/dmitrijs2005/desabantuin/internal/client/session"
	"github.com/dmitrijs2005/desabantuin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for phone number and password and signs in. The service
// message (success or failure) is printed either way.
func (a *App) Login(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Nomor telepon", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.authService.Login(ctx, phone, password)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, msg)
	return nil
}

// Register prompts for the registration form and signs the new user in.
func (a *App) Register(ctx context.Context) error {
	var f services.RegisterForm
	var err error

	for _, field := range []struct {
		prompt string
		dst    *string
	}{
		{"Nama lengkap", &f.Name},
		{"Email", &f.Email},
		{"Nomor telepon", &f.PhoneNumber},
	} {
		if *field.dst, err = getSimpleText(a.reader, field.prompt, a.out); err != nil {
			return err
		}
	}

	if f.Password, err = getPassword(a.out, "Password"); err != nil {
		return err
	}
	defer common.WipeByteArray(f.Password)

	if f.PasswordConfirmation, err = getPassword(a.out, "Konfirmasi password"); err != nil {
		return err
	}
	defer common.WipeByteArray(f.PasswordConfirmation)

	msg, err := a.authService.Register(ctx, f)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) reportAuthError(err error) {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	fmt.Fprintln(a.out, "Error:", services.UserMessage(err))
}

// Logout signs out. When the stored session cannot be removed the user
// stays signed in and is asked to retry.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		if errors.Is(err, session.ErrStorageWrite) {
			fmt.Fprintln(a.out, "Gagal keluar. Sesi masih tersimpan, ketik 'logout' untuk mencoba lagi.")
		} else {
			fmt.Fprintln(a.out, "Gagal keluar:", err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Berhasil keluar")
	return nil
}

// Profile prints the signed-in user and what is known about the token.
func (a *App) Profile(ctx context.Context) error {
	cur := a.store.Current()
	if !cur.SignedIn() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	u := cur.User
	fmt.Fprintf(a.out, "Nama:    %s\n", u.Name)
	fmt.Fprintf(a.out, "Email:   %s\n", u.Email)
	fmt.Fprintf(a.out, "Telepon: %s\n", u.PhoneNumber)
	fmt.Fprintf(a.out, "Peran:   %s\n", u.Role)

	info := session.DescribeToken(cur.Token)
	switch {
	case info.Kind == session.TokenJWT && !info.ExpiresAt.IsZero():
		state := "valid"
		if info.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Token:   jwt, expires %s (%s)\n", info.ExpiresAt.Local().Format(dateLayout), state)
	default:
		fmt.Fprintf(a.out, "Token:   %s\n", info.Kind)
	}
	return nil
}
