// Package session holds the Session Store: the single source of truth for
// who is signed in on this device.
//
// The store is built once at startup around a storage.Backend and handed to
// every consumer. Initialize rehydrates the session from storage, Login and
// Logout persist before they touch memory, and Current is a lock-free read of
// the in-memory snapshot.
package session

import (
	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/common"
)

// Storage keys owned by the store. Nothing else reads or writes them.
const (
	TokenKey = "auth_token"
	UserKey  = "user_data"
)

// Session is a point-in-time view of the signed-in identity.
// Token and User are either both set or both empty.
type Session struct {
	Token     string
	User      *models.User
	IsLoading bool
}

// SignedIn reports whether the session carries an identity.
func (s Session) SignedIn() bool {
	return s.Token != "" && s.User != nil
}

// Bearer returns the Authorization header value for the session token,
// or "" when signed out.
func (s Session) Bearer() string {
	if !s.SignedIn() {
		return ""
	}
	return common.BearerTokenType + " " + s.Token
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
