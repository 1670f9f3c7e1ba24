package postgres

import "strings"

// escapeLike neutralizes LIKE metacharacters in user search terms.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
