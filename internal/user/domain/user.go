package domain

import (
	"time"

	"secondhand_market/pkg/encrypt"
)

// User a marketplace account
type User struct {
	ID        int64
	Email     string
	Nickname  string
	Password  string
	CreatedAt time.Time
}

// UserSession the refresh-token session kept in redis, keyed by user id
type UserSession struct {
	RefreshToken string    `json:"RefreshToken"`
	UserID       int64     `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch checks the input against the stored hash.
func (u *User) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(u.Password, inputPwd)
}

// IsExpired reports whether the session already lapsed.
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// UserQuery join conditions are used to query users
type UserQuery struct {
	ID       *int64  `db:"id"`
	Email    *string `db:"email"`
	Nickname *string `db:"nickname"`
}
