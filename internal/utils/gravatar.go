package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives the avatar URL for an email address. Gravatar keys
// avatars on the md5 of the lowercased address.
func GravatarURL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=%d", sum, size)
}
