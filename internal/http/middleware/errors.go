package middleware

import "errors"

var (
	errMissingToken = errors.New("Not authenticated")
	errForbidden    = errors.New("Forbidden")
)
