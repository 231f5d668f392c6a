// Package v1 provides the v1 HTTP routes.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helixml/kommit/application/service"
	"github.com/helixml/kommit/infrastructure/api/middleware"
	"github.com/helixml/kommit/infrastructure/api/v1/dto"
)

// MaxRequestBytes bounds the request body. Diffs beyond the trim length are
// cut by the pipeline anyway.
const MaxRequestBytes = 8 << 20

// Generator produces a commit message from a diff.
type Generator interface {
	Generate(ctx context.Context, diff string) (service.Result, error)
}

// GenerateRouter handles commit message generation requests.
type GenerateRouter struct {
	generator Generator
	logger    *slog.Logger
}

// NewGenerateRouter creates a new GenerateRouter.
func NewGenerateRouter(generator Generator, logger *slog.Logger) *GenerateRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateRouter{
		generator: generator,
		logger:    logger,
	}
}

// Routes returns the chi router for generation endpoints.
func (r *GenerateRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.Generate)
	return router
}

// Generate handles POST /api/v1/generate.
func (r *GenerateRouter) Generate(w http.ResponseWriter, req *http.Request) {
	var body dto.GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, MaxRequestBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, req, middleware.NewAPIError(http.StatusRequestEntityTooLarge, "request body too large", err), r.logger)
			return
		}
		middleware.WriteError(w, req, middleware.NewValidationError("request body must be a JSON object"), r.logger)
		return
	}
	if body.Diff == nil {
		middleware.WriteError(w, req, middleware.NewValidationError("diff field is required"), r.logger)
		return
	}

	result, err := r.generator.Generate(req.Context(), *body.Diff)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.GenerateResponse{Message: result.Message()})
}
