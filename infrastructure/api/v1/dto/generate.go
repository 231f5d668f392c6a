// Package dto holds the JSON request and response bodies of the HTTP API.
package dto

// GenerateRequest is the body of POST /api/v1/generate. Diff is a pointer so
// that a missing field can be told apart from an empty diff.
type GenerateRequest struct {
	Diff *string `json:"diff"`
}

// GenerateResponse carries the commit message, or on failure a
// human-readable message plus a machine-readable error code.
type GenerateResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse is returned by the root endpoint.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
