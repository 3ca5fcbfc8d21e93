package auth

import "strings"

// RouteCategory is the precedence-ordered classification of a request path
// used to select an authorization rule.
type RouteCategory string

const (
	CategoryAuth      RouteCategory = "auth"
	CategoryPublic    RouteCategory = "public"
	CategoryAdmin     RouteCategory = "admin"
	CategoryProtected RouteCategory = "protected"
	CategoryDefault   RouteCategory = "default"
)

// RouteLists groups the configured path patterns per non-default category.
type RouteLists struct {
	Auth      []string
	Public    []string
	Admin     []string
	Protected []string
}

// RouteTable is an immutable classification table built once at startup.
// Categories are evaluated in fixed precedence order: a path present in both
// the auth and public lists classifies as auth.
type RouteTable struct {
	auth      []string
	public    []string
	admin     []string
	protected []string
}

// NewRouteTable copies the configured lists into an immutable table.
func NewRouteTable(lists RouteLists) RouteTable {
	return RouteTable{
		auth:      append([]string(nil), lists.Auth...),
		public:    append([]string(nil), lists.Public...),
		admin:     append([]string(nil), lists.Admin...),
		protected: append([]string(nil), lists.Protected...),
	}
}

// Classify maps a request path to exactly one category. It is total: paths
// matching no configured pattern classify as CategoryDefault.
func (t RouteTable) Classify(path string) RouteCategory {
	// Precedence: auth > public > admin > protected > default.
	switch {
	case matchAny(t.auth, path):
		return CategoryAuth
	case matchAny(t.public, path):
		return CategoryPublic
	case matchAny(t.admin, path):
		return CategoryAdmin
	case matchAny(t.protected, path):
		return CategoryProtected
	default:
		return CategoryDefault
	}
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

// matchPattern applies a single pattern: a trailing "*" makes it a prefix
// match; otherwise the pattern matches itself and any descendant path.
func matchPattern(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}
