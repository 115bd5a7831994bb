package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. Malformed hashes
// never match.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

const dummyPassword = "gophtasks-dummy-password"

// DummyHasher returns a lazily built hash of a throwaway password at cost.
// The cost must match the one real hashes use, or comparisons against it
// finish at a different speed.
func DummyHasher(cost int) func() string {
	return sync.OnceValue(func() string {
		h, err := HashPassword(dummyPassword, cost)
		if err != nil {
			panic(errors.New("auth: cannot build dummy hash: " + err.Error()))
		}
		return h
	})
}

// BurnPasswordCheck spends the time of one bcrypt comparison against hash.
// Login calls it for unknown emails so response time does not reveal
// registered accounts.
func BurnPasswordCheck(hash, password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
