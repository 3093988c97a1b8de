package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Coffee Corner", "coffee-corner"},
		{"  Mr. Beer & Wine  ", "mr-beer-and-wine"},
		{"Café Olé", "cafe-ole"},
		{"UPPER CASE", "upper-case"},
		{"!!!", "store"}, // punctuation-only names still get a reachable slug
		{"...", "store"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name))
	}
}

func TestTruncateNameBoundary(t *testing.T) {
	exact := strings.Repeat("a", MaxStoreNameLen)
	assert.Equal(t, exact, TruncateName(exact))

	over := exact + "b"
	assert.Equal(t, exact, TruncateName(over))

	// Runes, not bytes: multibyte names must not be cut mid-character.
	wide := strings.Repeat("é", MaxStoreNameLen+5)
	got := TruncateName(wide)
	assert.Equal(t, MaxStoreNameLen, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", MaxStoreNameLen), got)
}

func TestUniqueSlugSequencing(t *testing.T) {
	assert.Equal(t, "coffee", UniqueSlug("coffee", 0))
	assert.Equal(t, "coffee-2", UniqueSlug("coffee", 1))
	assert.Equal(t, "coffee-3", UniqueSlug("coffee", 2))
	assert.Equal(t, "coffee-10", UniqueSlug("coffee", 9))
}

func TestSlugPattern(t *testing.T) {
	re := regexp.MustCompile(SlugPattern("coffee"))

	assert.True(t, re.MatchString("coffee"))
	assert.True(t, re.MatchString("coffee-2"))
	assert.True(t, re.MatchString("coffee-13"))
	assert.True(t, re.MatchString("coffee-"))

	assert.False(t, re.MatchString("coffee-shop"))
	assert.False(t, re.MatchString("my-coffee"))
	assert.False(t, re.MatchString("coffeehouse"))
}
