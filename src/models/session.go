package models

import "time"

// Principal is the authenticated caller every domain operation is scoped to.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"user_email"`
	Name     string `json:"user_name"`
	UserType string `json:"user_type"`
}

func (p Principal) IsZero() bool {
	return p.UserID == 0
}

func (p Principal) Public() PublicUser {
	return PublicUser{ID: p.UserID, Name: p.Name, Email: p.Email, UserType: p.UserType}
}

func PrincipalOf(u *User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Name: u.Name, UserType: u.UserType}
}

type Session struct {
	ID string `json:"id"`
	Principal
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
