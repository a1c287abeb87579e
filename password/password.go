// Package password generates throwaway passwords for the gen_pass button.
package password

import (
	"math/rand/v2"
	"strings"
)

// Alphabet leaves out characters that are easy to misread (0 O o 1 l I) and
// characters that would need escaping inside an HTML message.
const Alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%*?-_+="

// DefaultLength is the password_length default.
const DefaultLength = 12

// Generate draws length characters uniformly from Alphabet. The source is not
// cryptographically secure.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(Alphabet[rand.IntN(len(Alphabet))])
	}
	return b.String()
}

// Valid reports whether every character of s belongs to Alphabet.
func Valid(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
