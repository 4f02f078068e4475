package repositories

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchPattern builds the case-insensitive regex used for title and
// username search. The query is a literal substring: every regex
// metacharacter is escaped before the pattern reaches the store, so a
// search for "a.b*c" matches only the literal text "a.b*c".
func SearchPattern(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}
