package domain

import "time"

// Claims is what a verified access token says about its bearer.
type Claims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}
