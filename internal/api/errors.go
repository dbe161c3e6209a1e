package api

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindRemote Kind = iota
	KindNotFound
	KindRateLimited
	KindMalformed
)

var (
	ErrNotFound    = errors.New("upstream: not found")
	ErrRateLimited = errors.New("upstream: rate limited")
	ErrRemote      = errors.New("upstream: remote error")
	ErrMalformed   = errors.New("upstream: malformed response")
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindMalformed:
		return "malformed"
	default:
		return "remote"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindMalformed:
		return ErrMalformed
	default:
		return ErrRemote
	}
}

// Error is a classified upstream failure. Body holds an excerpt of the
// response for malformed payloads and non-2xx replies.
type Error struct {
	Kind     Kind
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Endpoint, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of an upstream error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindRemote, false
}

func newError(kind Kind, endpoint string, status int, body []byte, err error) *Error {
	return &Error{
		Kind:     kind,
		Endpoint: endpoint,
		Status:   status,
		Body:     excerpt(body),
		Err:      err,
	}
}
