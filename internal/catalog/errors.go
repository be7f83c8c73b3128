package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// LookupKind is the category of a failed lookup.
type LookupKind string

const (
	// NotFound means nothing matched the query.
	NotFound LookupKind = "not_found"
	// Ambiguous means more than one entry matched the query.
	Ambiguous LookupKind = "ambiguous"
)

// Sentinels matched by LookupError through errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous")
)

// LookupError reports a query that did not name exactly one catalog entry.
type LookupError struct {
	Kind       LookupKind
	Entity     string
	Query      string
	Candidates []string
}

func (e *LookupError) Error() string {
	if e.Kind == Ambiguous {
		return fmt.Sprintf("ambiguous %s %q, could be: %s", e.Entity, e.Query, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("unknown %s %q", e.Entity, e.Query)
}

// Is matches ErrNotFound or ErrAmbiguous.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrAmbiguous:
		return e.Kind == Ambiguous
	}
	return false
}

func notFound(entity, query string) error {
	return &LookupError{Kind: NotFound, Entity: entity, Query: query}
}

// DataError reports a malformed entry in a game data or save file.
type DataError struct {
	File string
	ID   string
	Err  error
}

func (e *DataError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s: %v", e.File, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
