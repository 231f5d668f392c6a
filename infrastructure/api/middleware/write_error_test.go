package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/kommit/application/service"
	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/api/v1/dto"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   dto.GenerateResponse
	}{
		{
			name:       "payload too large",
			err:        fmt.Errorf("summarize chunk: %w", domainservice.ErrPayloadTooLarge),
			wantStatus: http.StatusBadRequest,
			wantBody:   dto.GenerateResponse{Message: service.MessagePayloadTooLarge, Error: "payload_too_large"},
		},
		{
			name:       "classified provider failure",
			err:        service.NewGenerateError(service.ClassProviderFailure, errors.New("boom")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.GenerateResponse{Message: service.MessageProviderFailure, Error: "provider_failure"},
		},
		{
			name:       "unclassified error",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.GenerateResponse{Message: service.MessageProviderFailure, Error: "provider_failure"},
		},
		{
			name:       "validation",
			err:        NewValidationError("diff field is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   dto.GenerateResponse{Message: "diff field is required", Error: CodeValidation},
		},
		{
			name:       "authentication",
			err:        NewAuthenticationError("Invalid API key"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   dto.GenerateResponse{Message: "Invalid API key", Error: CodeAuthentication},
		},
		{
			name:       "api error",
			err:        NewAPIError(http.StatusRequestEntityTooLarge, "request body too large", nil),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   dto.GenerateResponse{Message: "request body too large", Error: "request_entity_too_large"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
			w := httptest.NewRecorder()

			WriteError(w, req, tt.err, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got dto.GenerateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
