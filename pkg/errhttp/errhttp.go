// Package errhttp maps domain sentinel errors to HTTP status codes and the
// public message clients see. Add a case to mapError for each new domain
// sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemtracker/pkg/httpx"
	accountdomain "github.com/ghuser/itemtracker/services/account/domain"
	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
)

// Public messages written for known domain errors.
const (
	MsgMissingCredentials = "Username and password are required"
	MsgPasswordTooLong    = "Password must not exceed 72 bytes"
	MsgUserAlreadyExists  = "User already exists"
	MsgInvalidCredentials = "Invalid username or password"
	MsgItemNameRequired   = "Item name is required"
	MsgOwnerNotFound      = "Owner does not exist"
	MsgItemNotFound       = "Item not found"
)

// Writer writes error responses. In production the text of unrecognized
// errors is replaced with the generic status text.
type Writer struct {
	IsProduction bool
}

// Write maps err to a status code and writes a {"message": ...} response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
func (wr Writer) Write(w http.ResponseWriter, err error) {
	status, msg := mapError(err)
	if msg == "" {
		msg = httpx.SafeError(err, status, wr.IsProduction)
	}
	httpx.JSONError(w, status, msg)
}

// mapError returns the status for err and, for known errors, its public
// message. Unknown errors map to 500 with an empty message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, accountdomain.ErrMissingCredentials):
		return http.StatusBadRequest, MsgMissingCredentials
	case errors.Is(err, accountdomain.ErrPasswordTooLong):
		return http.StatusBadRequest, MsgPasswordTooLong
	case errors.Is(err, accountdomain.ErrUserAlreadyExists):
		return http.StatusBadRequest, MsgUserAlreadyExists
	case errors.Is(err, accountdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, itemdomain.ErrItemNameRequired):
		return http.StatusBadRequest, MsgItemNameRequired
	case errors.Is(err, itemdomain.ErrOwnerNotFound):
		return http.StatusBadRequest, MsgOwnerNotFound
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound, MsgItemNotFound
	default:
		return http.StatusInternalServerError, ""
	}
}
