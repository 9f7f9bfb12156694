package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks queries rejected before the pipeline runs. This is
// the only error class that reaches callers of the pipeline; every other
// failure degrades into a fallback RecommendationResponse.
var ErrInvalidInput = errors.New("invalid input")

// EmbeddingUnavailableError is returned by the embedder after its retry
// budget is exhausted.
type EmbeddingUnavailableError struct {
	Err error
}

func (e *EmbeddingUnavailableError) Error() string {
	return fmt.Sprintf("embedding service unavailable: %v", e.Err)
}

func (e *EmbeddingUnavailableError) Unwrap() error { return e.Err }

// GenerationUnavailableError is returned by the generator client after its
// retry budget is exhausted.
type GenerationUnavailableError struct {
	Err error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("generation service unavailable: %v", e.Err)
}

func (e *GenerationUnavailableError) Unwrap() error { return e.Err }

// GenerationTimeoutError is returned when the generation service exceeds
// its deadline.
type GenerationTimeoutError struct {
	Err error
}

func (e *GenerationTimeoutError) Error() string {
	return fmt.Sprintf("generation service timed out: %v", e.Err)
}

func (e *GenerationTimeoutError) Unwrap() error { return e.Err }
