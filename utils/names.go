package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CapitalizeName turns free-text names into the stored canonical form:
// whitespace-separated tokens, each with an upper-case first letter and the rest
// lower-case, joined by single spaces.
func CapitalizeName(name string) string {
	return capitalizeTokens(strings.Fields(name))
}

// CapitalizeSnakeName is CapitalizeName for names written as lower_snake_case,
// as they appear in URL paths.
func CapitalizeSnakeName(name string) string {
	return capitalizeTokens(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	}))
}

// SnakeName is the inverse of CapitalizeSnakeName for canonical names.
func SnakeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// capitalizeTokens upper-cases the first rune of every token and lower-cases
// the rest, so "mary-jane" becomes "Mary-jane".
func capitalizeTokens(tokens []string) string {
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)
	for i, token := range tokens {
		_, size := utf8.DecodeRuneInString(token)
		tokens[i] = upper.String(token[:size]) + lower.String(token[size:])
	}
	return strings.Join(tokens, " ")
}
