package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder(t *testing.T) {
	kb := NewKeyBuilder("")
	assert.Equal(t, "links:owner-1", kb.Listing("owner-1"))
	assert.Equal(t, "links:*", kb.Pattern(PrefixListing))
}

func TestKeyBuilderWithNamespace(t *testing.T) {
	kb := NewKeyBuilder("test")
	assert.Equal(t, "test:links:owner-1", kb.Listing("owner-1"))
	assert.Equal(t, "test:links:*", kb.Pattern(PrefixListing))
}
