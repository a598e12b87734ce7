package model

// Identity is the authenticated caller of a privileged operation.
// The zero value is anonymous.
type Identity struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// Authenticated reports whether the identity belongs to a known user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}
