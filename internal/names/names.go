// Package names normalizes free-text entity names typed into slash commands.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize upper-cases the first rune of every whitespace-delimited token and
// joins the tokens with single spaces. The rest of each token is left as is.
func Normalize(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		r, size := utf8.DecodeRuneInString(tok)
		if r == utf8.RuneError {
			continue
		}
		tokens[i] = string(unicode.ToUpper(r)) + tok[size:]
	}
	return strings.Join(tokens, " ")
}

// Canonical lower-cases s before normalizing it, so "IRON pact" and
// "iron pact" both become "Iron Pact".
func Canonical(s string) string {
	return Normalize(strings.ToLower(s))
}
