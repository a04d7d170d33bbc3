// Package codegen generates unique human-readable numbers such as
// "INV-20261015-3FA9C1" for documents and payments.
package codegen

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxAttempts bounds GenerateUnique when no limit is configured.
const DefaultMaxAttempts = 10

// ErrCodeGenerationExhausted is returned when every candidate was taken.
var ErrCodeGenerationExhausted = errors.New("unique code generation exhausted attempts")

// IsTakenFunc reports whether a candidate code is already in use.
type IsTakenFunc func(ctx context.Context, code string) (bool, error)

// SuffixFunc produces the random part of a candidate.
type SuffixFunc func() (string, error)

// Generator builds candidates as PREFIX-YYYYMMDD-SUFFIX.
type Generator struct {
	MaxAttempts int
	Suffix      SuffixFunc
	Now         func() time.Time
}

// NewGenerator returns a Generator with a crypto/rand hex suffix.
func NewGenerator(maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{
		MaxAttempts: maxAttempts,
		Suffix:      func() (string, error) { return RandomHex(3) },
		Now:         time.Now,
	}
}

// Generate returns the first candidate for which isTaken reports false.
func (g *Generator) Generate(ctx context.Context, prefix string, isTaken IsTakenFunc) (string, error) {
	date := g.Now().UTC().Format("20060102")
	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		suffix, err := g.Suffix()
		if err != nil {
			return "", fmt.Errorf("failed to generate code suffix: %w", err)
		}
		candidate := fmt.Sprintf("%s-%s-%s", prefix, date, strings.ToUpper(suffix))

		taken, err := isTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check code %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %s after %d attempts", ErrCodeGenerationExhausted, prefix, g.MaxAttempts)
}

// GenerateUnique is Generate with the default suffix source.
func GenerateUnique(ctx context.Context, prefix string, isTaken IsTakenFunc, maxAttempts int) (string, error) {
	return NewGenerator(maxAttempts).Generate(ctx, prefix, isTaken)
}

// RandomHex generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=3 will result in a 6-character hex string.
func RandomHex(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
