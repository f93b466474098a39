package translate

import (
	"context"
	"errors"
)

// Request carries one page of extracted text to a translation provider.
type Request struct {
	JobID      string
	Page       int
	Text       string
	SourceLang string
	TargetLang string
	Model      string
}

type Response struct {
	Text      string
	TokensIn  int
	TokensOut int
}

// Client interface for providers like OpenAI, Anthropic.
type Client interface {
	Name() string
	Do(ctx context.Context, req Request) (Response, error)
}

var ErrRateLimited = errors.New("rate_limited")
