package sealer

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat(string(b), 32)))
}

func TestSealOpen(t *testing.T) {
	s, err := New(testKey('k'))
	require.NoError(t, err)

	token, err := s.Seal("user-42", "6720f1c2a9b8c7d6e5f40312")
	require.NoError(t, err)
	assert.NotContains(t, token, "user-42")

	userID, draftID, err := s.Open(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	assert.Equal(t, "6720f1c2a9b8c7d6e5f40312", draftID)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	s, err := New(testKey('k'))
	require.NoError(t, err)

	a, _ := s.Seal("u", "d")
	b, _ := s.Seal("u", "d")
	assert.NotEqual(t, a, b)
}

func TestOpen_Rejects(t *testing.T) {
	s, err := New(testKey('k'))
	require.NoError(t, err)
	other, err := New(testKey('x'))
	require.NoError(t, err)

	token, err := other.Seal("user", "draft")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong key": token,
		"garbage":   "!!!",
		"too short": "YWJj",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Open(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNew_BadKey(t *testing.T) {
	_, err := New("short")
	assert.Error(t, err)

	_, err = New(base64.StdEncoding.EncodeToString([]byte("seven")))
	assert.Error(t, err)
}
