package cascade

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Policy says what happens to a reference when its target is deleted.
type Policy int

const (
	// Retain leaves the reference dangling.
	Retain Policy = iota
	// CascadeDelete deletes the referencing document.
	CascadeDelete
	// SetNull clears the reference; on a list field the id is pulled.
	SetNull
	// RestrictIfReferenced refuses the delete while a reference exists.
	RestrictIfReferenced
)

func (p Policy) String() string {
	switch p {
	case CascadeDelete:
		return "cascade"
	case SetNull:
		return "setnull"
	case RestrictIfReferenced:
		return "restrict"
	default:
		return "retain"
	}
}

// ParsePolicy accepts the String() forms, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retain":
		return Retain, nil
	case "cascade":
		return CascadeDelete, nil
	case "setnull":
		return SetNull, nil
	case "restrict":
		return RestrictIfReferenced, nil
	}
	return Retain, errors.Errorf("unknown cascade policy %q", s)
}

// Edge is a reference from a document field to another collection.
type Edge struct {
	From   string // collection.field
	To     string // referenced collection
	Policy Policy
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Policy)
}

// Edges lists every reference in the data model and its delete policy.
// course.category is overridden by configuration (see WithCategoryPolicy).
var Edges = []Edge{
	{From: "ratingandreviews.course", To: "courses", Policy: CascadeDelete},
	{From: "ratingandreviews.user", To: "users", Policy: CascadeDelete},
	{From: "users.courses", To: "courses", Policy: SetNull},
	{From: "courses.studentsEnrolled", To: "users", Policy: SetNull},
	{From: "users.additionalDetails", To: "profiles", Policy: CascadeDelete}, // owned: deleted with its user
	{From: "courses.instructor", To: "users", Policy: Retain},
	{From: "courses.category", To: "categories", Policy: Retain},
}

// EdgesTo returns the edges pointing at collection.
func EdgesTo(edges []Edge, collection string) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.To == collection {
			out = append(out, e)
		}
	}
	return out
}

// WithCategoryPolicy returns a copy of edges with courses.category set to p.
func WithCategoryPolicy(edges []Edge, p Policy) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	for i := range out {
		if out[i].From == "courses.category" {
			out[i].Policy = p
		}
	}
	return out
}

// PolicyOf returns the policy of the edge from `from`, Retain if unknown.
func PolicyOf(edges []Edge, from string) Policy {
	for _, e := range edges {
		if e.From == from {
			return e.Policy
		}
	}
	return Retain
}
