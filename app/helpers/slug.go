package helpers

import (
	"strings"

	"github.com/gosimple/slug"
)

// MakeSlug normalizes a display name into a lowercase, punctuation-stripped
// URL slug. Two names that normalize to the same slug collide.
func MakeSlug(name string) string {
	return slug.Make(name)
}

// SanitizeSearch strips characters that are meaningful to SQL string
// literals before the term is embedded in a LIKE pattern.
func SanitizeSearch(query string) string {
	replacer := strings.NewReplacer(";", "", "'", "", `"`, "", `\`, "")
	return replacer.Replace(query)
}
