package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

var ErrInvalidCredential = errors.New("credential must be one or more decimal digits")

// Credential is the digit sequence that unlocks the door. It is fixed for the
// life of the controller.
type Credential struct {
	digits string
}

// NewCredential validates digits after trimming surrounding space. The result
// must be non-empty and contain only '0'..'9'.
func NewCredential(digits string) (Credential, error) {
	digits = strings.TrimSpace(digits)
	if digits == "" {
		return Credential{}, ErrInvalidCredential
	}
	for _, r := range digits {
		if !device.Key(r).IsDigit() {
			return Credential{}, ErrInvalidCredential
		}
	}
	return Credential{digits: digits}, nil
}

// Matches reports whether entered is exactly the credential. Any length
// mismatch fails.
func (c Credential) Matches(entered string) bool {
	if c.digits == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.digits), []byte(entered)) == 1
}

func (c Credential) Len() int { return len(c.digits) }
