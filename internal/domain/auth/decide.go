package auth

import "net/url"

// Verdict is the outcome of an authorization decision: either the request
// proceeds, or the caller must redirect to RedirectURL.
type Verdict struct {
	RedirectURL string
}

// Allow is the verdict that lets the request proceed.
func Allow() Verdict { return Verdict{} }

// RedirectTo is the verdict that sends the client to target instead.
func RedirectTo(target string) Verdict { return Verdict{RedirectURL: target} }

// Allowed reports whether the request may proceed.
func (v Verdict) Allowed() bool { return v.RedirectURL == "" }

// LoginURL builds the login redirect target carrying the originally
// requested path so the client can resume after signing in.
func LoginURL(path string) string {
	return "/login?callbackUrl=" + url.QueryEscape(path)
}

// Decide computes the authorization verdict for a classified request. It is
// pure: all upstream failures must already be folded into validity, so this
// function cannot fail. Any invalid session is treated identically
// regardless of the reason that produced it.
func Decide(category RouteCategory, loggedIn bool, validity Validity, path string) Verdict {
	authenticated := loggedIn && validity.IsValid()

	switch category {
	case CategoryAuth:
		// Login/registration screens are pointless for an authenticated
		// user; bounce them home.
		if authenticated {
			return RedirectTo("/")
		}
		return Allow()

	case CategoryPublic:
		return Allow()

	case CategoryAdmin:
		if !authenticated {
			return RedirectTo(LoginURL(path))
		}
		// The admin flag is intentionally not enforced here: any
		// authenticated user passes. Pending a product decision on
		// whether /das should require IsAdmin.
		return Allow()

	case CategoryProtected:
		if !authenticated {
			return RedirectTo(LoginURL(path))
		}
		return Allow()

	default:
		return Allow()
	}
}
