// Package codes generates and normalizes the short shareable codes that
// recruiters hand out to students. Codes are compared case-insensitively:
// they are stored uppercase and every lookup goes through Normalize first.
package codes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet deliberately omits 0/O/1/I/L so a code read over the phone or
// typed from an email cannot be mistranscribed.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length is the fixed length of every recruiter code.
const Length = 8

// MaxAttempts bounds the generate-check loop. With a 31^8 candidate space a
// collision is already vanishingly rare; hitting this cap means the random
// source or the backing store is broken, not bad luck.
const MaxAttempts = 20

// ErrSpaceExhausted is returned when MaxAttempts candidates in a row already
// existed in the store. It is a configuration-level failure for operators,
// never something to retry or to show an end user.
var ErrSpaceExhausted = errors.New("recruiter code space exhausted")

// CodeStore answers whether a candidate code is already issued. The store's
// own uniqueness constraint remains the final authority; this check only
// keeps the expected retry count at zero.
type CodeStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Normalize trims surrounding whitespace and uppercases a presented code.
// Generation, validation and linking all use the same normalization so the
// comparison rule lives in exactly one place.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormed reports whether a normalized code has the right length and
// only uses characters from Alphabet.
func IsWellFormed(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

// Generator produces unique recruiter codes.
type Generator struct {
	store CodeStore
}

// NewGenerator creates a Generator backed by the given store.
func NewGenerator(store CodeStore) *Generator {
	return &Generator{store: store}
}

// Generate returns a new code that did not exist in the store at check time.
// Callers inserting the code must still treat a unique-constraint violation
// as a signal to call Generate again, since two concurrent generations can
// both pass the existence check.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("error generating code candidate: %w", err)
		}

		exists, err := g.store.CodeExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("error checking code existence: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrSpaceExhausted
}

// randomCode draws Length characters from Alphabet using crypto/rand.
func randomCode() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
