// Package classify derives a coarse statement verb from raw SQL text.
// Only the leading keyword is inspected; the rest of the statement is
// opaque to this package.
package classify

import "strings"

// Verb is the coarse SQL statement category.
type Verb string

const (
	Select   Verb = "SELECT"
	Insert   Verb = "INSERT"
	Update   Verb = "UPDATE"
	Delete   Verb = "DELETE"
	Create   Verb = "CREATE"
	Alter    Verb = "ALTER"
	Drop     Verb = "DROP"
	Truncate Verb = "TRUNCATE"
	Replace  Verb = "REPLACE"
	Show     Verb = "SHOW"
	Describe Verb = "DESCRIBE"
	Other    Verb = "OTHER"
)

// Statement classifies raw SQL text by its leading keyword. Unrecognized
// text (including empty input) yields Other. DESC is treated as DESCRIBE.
func Statement(sql string) Verb {
	switch strings.ToUpper(leadingToken(sql)) {
	case "SELECT":
		return Select
	case "INSERT":
		return Insert
	case "UPDATE":
		return Update
	case "DELETE":
		return Delete
	case "CREATE":
		return Create
	case "ALTER":
		return Alter
	case "DROP":
		return Drop
	case "TRUNCATE":
		return Truncate
	case "REPLACE":
		return Replace
	case "SHOW":
		return Show
	case "DESCRIBE", "DESC":
		return Describe
	}
	return Other
}

// ReturnsRows reports whether statements with this verb produce a row set
// rather than a mutation receipt. Other is treated as row-producing: the
// statements that land there (WITH, EXPLAIN, SET-returning constructs)
// come back through the text protocol as result sets.
func (v Verb) ReturnsRows() bool {
	switch v {
	case Select, Show, Describe, Other:
		return true
	}
	return false
}

// String returns the verb token, e.g. "SELECT".
func (v Verb) String() string {
	return string(v)
}

// leadingToken returns the first run of letters after leading whitespace.
func leadingToken(sql string) string {
	s := strings.TrimSpace(sql)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		end++
	}
	return s[:end]
}
