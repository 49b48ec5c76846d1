package services

import "strings"

// Identity is the authenticated caller. Every store and service call takes it
// explicitly; nothing reads it from request context.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

func (i Identity) Valid() bool {
	return strings.TrimSpace(i.Email) != ""
}
