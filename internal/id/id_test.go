package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v, err := New(PrefixBoard)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v, "brd-"))
	assert.Len(t, v, len(PrefixBoard)+1+size)
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		v, err := New(PrefixUser)
		require.NoError(t, err)
		require.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}
