// Package backend reports the status of remote quantum backends.
package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Status is the queue status of one backend as reported by the provider.
type Status struct {
	BackendName    string `json:"backend_name"`
	BackendVersion string `json:"backend_version"`
	StatusMsg      string `json:"status_msg"`
	PendingJobs    int    `json:"pending_jobs"`
	Operational    bool   `json:"operational"`
}

// Provider lists backends and fetches their status.
type Provider interface {
	Backends(ctx context.Context) ([]string, error)
	Status(ctx context.Context, name string) (*Status, error)
}

// APIError is returned for non-2xx provider responses.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}
