// Package token produces share tokens and verification codes from crypto/rand.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// ShareTokenBytes is the entropy of a share token (96 bits).
	ShareTokenBytes = 12
	// VerificationCodeBytes is the entropy of a verification code (24 bits).
	// Codes are typed by humans and delivered out of band.
	VerificationCodeBytes = 3
)

// Generator creates the secrets attached to a share.
type Generator interface {
	// NewShareToken returns a URL-safe token that locates a share.
	NewShareToken() (string, error)
	// NewVerificationCode returns a short hex code for browse shares.
	NewVerificationCode() (string, error)
}

// RandomGenerator reads from a cryptographically secure source.
type RandomGenerator struct {
	src io.Reader
}

var _ Generator = (*RandomGenerator)(nil)

// NewRandomGenerator returns a generator backed by crypto/rand.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{src: rand.Reader}
}

// NewShareToken returns 16 base64url characters without padding.
func (g *RandomGenerator) NewShareToken() (string, error) {
	b, err := g.read(ShareTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewVerificationCode returns 6 lowercase hex characters.
func (g *RandomGenerator) NewVerificationCode() (string, error) {
	b, err := g.read(VerificationCodeBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (g *RandomGenerator) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(g.src, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
