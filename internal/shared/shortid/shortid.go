// Package shortid issues short human-readable identifiers.
package shortid

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var errLength = errors.New("shortid: length must be positive")

// New returns a random upper-case base-36 string of length n.
func New(n int) (string, error) {
	if n <= 0 {
		return "", errLength
	}
	limit := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// Valid reports whether id has length n and only uses the base-36 upper-case alphabet.
func Valid(id string, n int) bool {
	if len(id) != n {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return false
		}
	}
	return true
}
