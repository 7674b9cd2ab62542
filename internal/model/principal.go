package model

// Principal is the authenticated identity attached to a request, as asserted by
// the identity provider's session token.
type Principal struct {
	ID       string
	Email    string
	FullName string
}
