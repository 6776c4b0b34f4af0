package services

// Actor is the caller of a domain operation: identity plus the explicit role
// set. Services never read ambient identity; the transport layer builds the
// actor from its own auth context.
type Actor struct {
	UserID uint
	Roles  []string
}

func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}
