// Package access holds the read-open, write-by-author-or-admin policy.
package access

import (
	"net/http"

	"foodgram/domain"
)

// Caller is the identity attached to a request. The zero value is an
// anonymous caller.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) Authenticated() bool {
	return c.ID != ""
}

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// HasPermission is the request-level check: reads are open, everything
// else needs an authenticated caller.
func HasPermission(method string, caller Caller) bool {
	return IsSafeMethod(method) || caller.Authenticated()
}

// CanModify is the object-level check for a resource owned by ownerID.
func CanModify(caller Caller, ownerID string) bool {
	if !caller.Authenticated() {
		return false
	}
	return caller.ID == ownerID || domain.IsAdmin(caller.Role)
}
