package service

import "errors"

// ErrMissingIdentity is returned when an operation that needs an acting
// user receives an empty identity.
var ErrMissingIdentity = errors.New("missing caller identity")

// Identity is the acting user for one request. The gateway authenticates
// the caller and forwards the login; the identity middleware turns it into
// this value, which is then passed explicitly to every call that needs it
// rather than living in ambient context.
type Identity struct {
	Login string
}

// Valid reports whether the identity names a user.
func (i Identity) Valid() bool {
	return i.Login != ""
}
