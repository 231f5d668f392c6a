package service

import (
	"errors"
	"fmt"
	"testing"

	domainservice "github.com/helixml/kommit/domain/service"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		class   FailureClass
		message string
	}{
		{
			name:    "payload too large",
			err:     fmt.Errorf("chat: %w", domainservice.ErrPayloadTooLarge),
			class:   ClassPayloadTooLarge,
			message: MessagePayloadTooLarge,
		},
		{
			name:    "generic",
			err:     errors.New("dial tcp: connection refused"),
			class:   ClassProviderFailure,
			message: MessageProviderFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Class() != tt.class {
				t.Errorf("Class() = %q, want %q", got.Class(), tt.class)
			}
			if got.Message() != tt.message {
				t.Errorf("Message() = %q, want %q", got.Message(), tt.message)
			}
			if !errors.Is(got, tt.err) {
				t.Error("cause should be reachable")
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestClassify_AlreadyClassified(t *testing.T) {
	original := NewGenerateError(ClassPayloadTooLarge, errors.New("413"))
	wrapped := fmt.Errorf("request: %w", original)

	if got := Classify(wrapped); got != original {
		t.Errorf("Classify() = %v, want the wrapped GenerateError", got)
	}
}

func TestGenerateError_Error(t *testing.T) {
	err := NewGenerateError(ClassProviderFailure, errors.New("boom"))
	if err.Error() != "provider_failure: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
