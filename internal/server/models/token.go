package models

import "time"

// Token is an issued bearer credential. Only the digest of the value handed
// to the client is kept; a revoked token is simply absent.
type Token struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}
