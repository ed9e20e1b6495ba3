// Package id generates prefixed, URL-safe unique identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	size     = 16
)

// Entity prefixes keep identifiers self-describing in logs and URLs.
const (
	PrefixUser   = "usr"
	PrefixBoard  = "brd"
	PrefixChoice = "cho"
	PrefixCustom = "cus"
)

// New generates an identifier of the form "<prefix>-<nanoid>".
func New(prefix string) (string, error) {
	nid, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return fmt.Sprintf("%s-%s", prefix, nid), nil
}

// MustNew is like New but panics on failure. Generation only fails when the
// system entropy source is broken, so this is safe for startup-time use.
func MustNew(prefix string) string {
	v, err := New(prefix)
	if err != nil {
		panic(err)
	}
	return v
}
