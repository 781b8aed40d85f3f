package domain

// Policy holds the access rules evaluated before a domain operation runs.
// With EnforceBlock unset, blocked users may still log in and blocked admins
// may still administer.
type Policy struct {
	EnforceBlock bool
}

// CanAdminister reports whether u may use the admin routes.
func (p Policy) CanAdminister(u *User) bool {
	return u != nil && u.IsAdmin && p.CanLogin(u)
}

// CanLogin reports whether u may authenticate.
func (p Policy) CanLogin(u *User) bool {
	return u != nil && !(p.EnforceBlock && u.IsBlocked)
}

// CanCreateRequest reports whether u holds at least one credit.
func (p Policy) CanCreateRequest(u *User) bool {
	return u != nil && u.Credits >= 1
}

// CanBid reports whether u is a seller.
func (p Policy) CanBid(u *User) bool {
	return u != nil && u.IsSeller
}
