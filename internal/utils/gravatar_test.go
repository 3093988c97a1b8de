package utils

import (
	"crypto/md5"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	want := fmt.Sprintf("https://gravatar.com/avatar/%x?s=200", md5.Sum([]byte("wes@example.com")))
	assert.Equal(t, want, GravatarURL("wes@example.com", 200))

	// Address is normalized before hashing.
	assert.Equal(t, want, GravatarURL("  WES@Example.COM ", 200))
}
