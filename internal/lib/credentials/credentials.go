// Package credentials generates the one-time login credentials handed to a
// registrant: a username derived from the full name and a random password
// carrying the event prefix. Neither value is checked for collisions against
// existing accounts; uniqueness of the account is guaranteed by email, not
// by username.
package credentials

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// passwordPrefix is a branding convention of the event, not a secret.
	passwordPrefix = "ace24"
	passwordSuffixLen = 5

	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword returns a one-time password: the fixed event prefix
// followed by five random alphanumeric characters.
func GeneratePassword() string {
	var b strings.Builder
	b.WriteString(passwordPrefix)
	for i := 0; i < passwordSuffixLen; i++ {
		b.WriteByte(charset[rand.IntN(len(charset))])
	}
	return b.String()
}

// CreateUsername derives a username from a full name: the name is
// lower-cased, stripped of everything but letters and digits, and a random
// integer in [0, 1000) is appended.
func CreateUsername(fullName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fullName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	b.WriteString(strconv.Itoa(rand.IntN(1000)))
	return b.String()
}
