package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the email and password.
	ErrInvalidCredentials = errors.New("api: wrong email or password")

	// ErrAlreadyRegistered is returned by Register when the email or
	// username is taken.
	ErrAlreadyRegistered = errors.New("api: email or username already in use")

	// ErrUnauthorized matches any 401 from a protected route.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotLoggedIn is returned by calls that need a token when none is set.
	ErrNotLoggedIn = errors.New("api: not logged in")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %d %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// errorBody is the shape of backend error payloads. message may be a
// single string or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// newStatusError builds a StatusError from a response body, picking the
// first human-readable message it can find.
func newStatusError(code int, body []byte) *StatusError {
	e := &StatusError{Code: code}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	var single string
	var list []string
	switch {
	case json.Unmarshal(eb.Message, &single) == nil && single != "":
		e.Message = single
	case json.Unmarshal(eb.Message, &list) == nil && len(list) > 0:
		e.Message = list[0]
	default:
		e.Message = eb.Error
	}
	return e
}
