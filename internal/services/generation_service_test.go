package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	name   string
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func TestGenerateUsesPrimary(t *testing.T) {
	primary := &fakeGenerator{name: "a", answer: "hello"}
	fallback := &fakeGenerator{name: "b", answer: "other"}
	s := NewGenerationService(primary, fallback)

	text, err := s.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Zero(t, fallback.calls)
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", errors.New("dial tcp: connection refused")},
		{"5xx", &UpstreamError{Provider: "a", Status: http.StatusServiceUnavailable}},
		{"rate limited", &UpstreamError{Provider: "a", Status: http.StatusTooManyRequests}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeGenerator{name: "a", err: tt.err}
			fallback := &fakeGenerator{name: "b", answer: "rescued"}

			text, err := NewGenerationService(primary, fallback).Generate(context.Background(), "hi")
			require.NoError(t, err)
			assert.Equal(t, "rescued", text)
		})
	}
}

func TestGenerateDoesNotFallBackOnClientError(t *testing.T) {
	upErr := &UpstreamError{Provider: "a", Status: http.StatusBadRequest, Message: "bad prompt"}
	primary := &fakeGenerator{name: "a", err: upErr}
	fallback := &fakeGenerator{name: "b", answer: "rescued"}

	_, err := NewGenerationService(primary, fallback).Generate(context.Background(), "hi")
	var got *UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Zero(t, fallback.calls)
}

func TestGenerateReturnsPrimaryErrorWhenBothFail(t *testing.T) {
	primaryErr := &UpstreamError{Provider: "a", Status: http.StatusBadGateway}
	primary := &fakeGenerator{name: "a", err: primaryErr}
	fallback := &fakeGenerator{name: "b", err: errors.New("also down")}

	_, err := NewGenerationService(primary, fallback).Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, primaryErr)
}

func TestGenerateNotConfigured(t *testing.T) {
	s := NewGenerationService(nil, nil)
	assert.False(t, s.Configured())
	_, err := s.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrGenerationNotConfigured)
}

func TestTransportErrorMarksDecodeFailures(t *testing.T) {
	var v map[string]any
	decodeErr := json.Unmarshal([]byte("<html>"), &v)
	require.Error(t, decodeErr)

	err := transportError("gemini", decodeErr)
	assert.ErrorIs(t, err, ErrInvalidUpstreamResponse)

	err = transportError("gemini", errors.New("connection reset"))
	assert.NotErrorIs(t, err, ErrInvalidUpstreamResponse)
	assert.True(t, retryable(err))
}
