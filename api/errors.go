package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failure body is kept as the message.
const maxErrorBody = 4 << 10

// Error is a non-2xx answer from the forum API. Message is the plain-text
// body the API sent, or a fallback when the body was empty.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// Detail includes endpoint and status, for logs.
func (e *Error) Detail() string {
	return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, e.Message)
}

func readError(resp *http.Response, endpoint, fallback string) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Endpoint: endpoint, Status: resp.StatusCode, Message: msg}
}
