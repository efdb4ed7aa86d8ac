package repository

import "fmt"

// RemoteError is returned when the document store answers a request with an
// error status. The envelope fields are kept raw; callers decide how to
// present them.
type RemoteError struct {
	StatusCode int
	// ExcType is the server-side exception class, e.g. "NegativeStockError"
	ExcType string
	// Exception is the server-side exception line
	Exception string
	// ServerMessages is the raw "_server_messages" field: a JSON-encoded list
	// of JSON-encoded message objects
	ServerMessages string
	Body           []byte
}

func (e *RemoteError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("document store returned %d (%s)", e.StatusCode, e.ExcType)
	}
	return fmt.Sprintf("document store returned %d", e.StatusCode)
}
