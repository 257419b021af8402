// Package models defines the client-side data models of the Desa Bantuin
// client: the signed-in user and the document requests filed with the
// village office.
package models

import "strings"

// User is the profile record returned by the backend on login/register and
// persisted alongside the session token.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// Complete reports whether every profile field is populated.
func (u User) Complete() bool {
	return u.ID != 0 &&
		strings.TrimSpace(u.Name) != "" &&
		strings.TrimSpace(u.Email) != "" &&
		strings.TrimSpace(u.PhoneNumber) != "" &&
		strings.TrimSpace(u.Role) != ""
}
