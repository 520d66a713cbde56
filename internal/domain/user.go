package domain

// AuthUser is the authenticated caller, injected into every request context
type AuthUser struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
}

// CanAccess returns true if the user may read or cancel the booking
func (u *AuthUser) CanAccess(b *Booking) bool {
	if u == nil || b == nil {
		return false
	}
	return u.IsAdmin || b.IsOwnedBy(u.Email)
}

// Profile flags owned by the authentication provider; read-only here
type Profile struct {
	UserID      string
	IsAdmin     bool
	IsFirstTime bool
}
