package domain

import "time"

// Session is an authenticated admin session against the backend.
type Session struct {
	Token    string
	Username string
	IssuedAt time.Time
}

func (s Session) Valid() bool { return s.Token != "" }
