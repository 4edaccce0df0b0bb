package model

// Principal is the authenticated identity extracted from the bearer token.
// It is passed explicitly into every service operation; there is no
// request-scoped global session state.
type Principal struct {
	ID      string
	IsAdmin bool
}

// CanActFor reports whether the principal may act on behalf of userID.
func (p Principal) CanActFor(userID string) bool {
	return p.IsAdmin || p.ID == userID
}

// CanAccessBooking reports whether the principal is the booking's customer,
// its host, or an admin.
func (p Principal) CanAccessBooking(b *Booking) bool {
	return p.IsAdmin || p.ID == b.CustomerID || p.ID == b.HostID
}
