package token

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hexCode = regexp.MustCompile(`^[0-9a-f]{6}$`)
)

func TestNewShareToken(t *testing.T) {
	g := NewRandomGenerator()

	tok, err := g.NewShareToken()
	require.NoError(t, err)
	assert.Len(t, tok, 16)
	assert.Regexp(t, urlSafe, tok)
}

func TestNewShareToken_Unique(t *testing.T) {
	g := NewRandomGenerator()
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		tok, err := g.NewShareToken()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %q", tok)
		seen[tok] = struct{}{}
	}
}

func TestNewVerificationCode(t *testing.T) {
	g := NewRandomGenerator()

	code, err := g.NewVerificationCode()
	require.NoError(t, err)
	assert.Regexp(t, hexCode, code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerator_SourceError(t *testing.T) {
	g := &RandomGenerator{src: failingReader{}}

	tok, err := g.NewShareToken()
	assert.Error(t, err)
	assert.Empty(t, tok)

	code, err := g.NewVerificationCode()
	assert.ErrorContains(t, err, "entropy exhausted")
	assert.Empty(t, code)
}
