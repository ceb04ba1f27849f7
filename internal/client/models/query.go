package models

import (
	"fmt"
	"strings"
)

// Gender is the list filter; ALL disables filtering.
type Gender string

const (
	GenderAll    Gender = "ALL"
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender is case-insensitive.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderAll, GenderMale, GenderFemale:
		return g, nil
	}
	return "", invalid("gender", fmt.Sprintf("unknown gender %q", s))
}

// SortDirection of the list query.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection is case-insensitive.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case SortAsc, SortDesc:
		return d, nil
	}
	return "", invalid("sortDirection", fmt.Sprintf("unknown sort direction %q", s))
}

// Defaults of the explore list.
const (
	DefaultSortField = "species"
	DefaultPageSize  = 10
)

// Query selects one page of penguins. It is comparable and is used as the
// cache key as-is, so it must stay a flat struct of scalar fields.
type Query struct {
	SearchQuery   string
	Gender        Gender
	SortField     string
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// DefaultQuery is the first page of the explore list.
func DefaultQuery() Query {
	return Query{
		Gender:        GenderAll,
		SortField:     DefaultSortField,
		SortDirection: SortAsc,
		Page:          1,
		PageSize:      DefaultPageSize,
	}
}

// Normalize fills unset fields with defaults and clamps Page and PageSize to
// at least 1, so equivalent queries share a cache key.
func (q Query) Normalize() Query {
	if q.Gender == "" {
		q.Gender = GenderAll
	}
	if q.SortField == "" {
		q.SortField = DefaultSortField
	}
	if q.SortDirection == "" {
		q.SortDirection = SortAsc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Page is one page of results.
type Page struct {
	Penguins   []Penguin `json:"penguins"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

// Contains reports whether a penguin with the given id is on the page.
func (p *Page) Contains(id int64) bool {
	if p == nil {
		return false
	}
	for _, pg := range p.Penguins {
		if pg.ID == id {
			return true
		}
	}
	return false
}
