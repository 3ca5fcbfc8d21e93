package config

import (
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
)

// RoutesConfig holds the per-category route pattern lists used by the
// classifier. A pattern is an exact path, a trailing-* prefix, or a plain
// path that also matches its descendants. The defaults mirror the site map
// of the agency front office.
type RoutesConfig struct {
	Auth      []string `env:"ROUTES_AUTH"      envDefault:"/login,/register,/auth/signin,/auth/signup,/auth/error,/auth/verify-request" envSeparator:","`
	Public    []string `env:"ROUTES_PUBLIC"    envDefault:"/,/about,/contact,/pricing,/features,/blog,/terms,/privacy"                  envSeparator:","`
	Admin     []string `env:"ROUTES_ADMIN"     envDefault:"/das"                                                                       envSeparator:","`
	Protected []string `env:"ROUTES_PROTECTED" envDefault:"/dashboard,/profile,/settings,/account"                                     envSeparator:","`
}

// Sanitize drops empty patterns that survive env parsing (e.g. trailing
// commas in the variable value).
func (r *RoutesConfig) Sanitize() {
	r.Auth = dropEmpty(r.Auth)
	r.Public = dropEmpty(r.Public)
	r.Admin = dropEmpty(r.Admin)
	r.Protected = dropEmpty(r.Protected)
}

// Table builds the immutable classification table from the configured lists.
func (r RoutesConfig) Table() domainauth.RouteTable {
	return domainauth.NewRouteTable(domainauth.RouteLists{
		Auth:      r.Auth,
		Public:    r.Public,
		Admin:     r.Admin,
		Protected: r.Protected,
	})
}

func dropEmpty(patterns []string) []string {
	out := patterns[:0]
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
