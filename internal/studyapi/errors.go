package studyapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthorized reports that the backend rejected the bearer token, or
// that no token was configured at all.
var ErrUnauthorized = errors.New("missing or invalid bearer token")

// ErrStatus is a non-success response from the backend.
type ErrStatus struct {
	Status int
	Detail string
}

func (e *ErrStatus) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// ErrInvalidPayload indicates the backend returned a body that does not
// conform to the expected shape. Generation payloads are relayed model
// output, so this is an expected failure mode, not a bug.
type ErrInvalidPayload struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid backend payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }

// ErrUnavailable indicates the backend could not be reached at all.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	return "backend unreachable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// UserMessage renders a request failure as one short line a screen can
// show next to the action that triggered it.
func UserMessage(err error) string {
	var unavailable *ErrUnavailable
	var invalid *ErrInvalidPayload
	var status *ErrStatus
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "not logged in (run: studybuddy auth login)"
	case errors.As(err, &unavailable):
		return "backend unreachable. Check that the server is running."
	case errors.As(err, &invalid):
		return "the model returned an unusable response. Try again."
	case errors.As(err, &status):
		if status.Detail != "" {
			return status.Detail
		}
		return fmt.Sprintf("backend answered %d", status.Status)
	}
	return err.Error()
}
