package match

import (
	"strings"

	"github.com/stoewer/go-strcase"
)

// suffixes stripped by NormalizeIdentWithSuffixStrip, longest first.
var suffixes = []string{"timestamp", "address", "ids", "utc", "id", "at"}

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase,
// snake_case and kebab-case spellings of the same words normalize to the
// same lowercase string.
//
//	NormalizeIdent("CustomerID")  == "customerid"
//	NormalizeIdent("customer_id") == "customerid"
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip normalizes s and strips one common suffix
// token such as "id", "at" or "timestamp". An identifier made of the suffix
// alone is kept.
func NormalizeIdentWithSuffixStrip(s string) string {
	tokens := TokenizeIdent(s)
	if len(tokens) < 2 {
		return strings.Join(tokens, "")
	}

	last := tokens[len(tokens)-1]
	for _, suffix := range suffixes {
		if last == suffix {
			tokens = tokens[:len(tokens)-1]
			break
		}
	}

	return strings.Join(tokens, "")
}

// TokenizeIdent splits an identifier into lowercase words.
//
//	TokenizeIdent("XMLParser")  == ["xml", "parser"]
//	TokenizeIdent("created_at") == ["created", "at"]
func TokenizeIdent(s string) []string {
	snake := strcase.SnakeCase(s)
	if snake == "" {
		return nil
	}

	return strings.FieldsFunc(snake, func(r rune) bool { return r == '_' })
}
