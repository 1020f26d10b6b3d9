// Package llm streams completions from the model provider.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
	"github.com/openai/openai-go/v3/shared"
)

var (
	// ErrModel covers provider-side stream failures; a generation that hits
	// it commits nothing and is safe to retry.
	ErrModel = errors.New("model stream failure")

	// ErrAPIKeyNotSet means no API key was configured for the model provider.
	ErrAPIKeyNotSet = errors.New("model API key not set: set OPENAI_API_KEY or llm.api_key")
)

// Stream yields text fragments until the model finishes or fails. Mirrors
// the provider SDK's stream so fakes are trivial in tests.
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Streamer is the model capability consumed by the enrichment coordinator.
type Streamer interface {
	StreamCompletion(ctx context.Context, prompt string) (Stream, error)
}

// Client implements Streamer on the OpenAI API.
type Client struct {
	client openai.Client
	model  string
}

func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// StreamCompletion starts a streaming chat completion for prompt.
func (c *Client) StreamCompletion(ctx context.Context, prompt string) (Stream, error) {
	inner := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err := inner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	return &chunkStream{inner: inner}, nil
}

// chunkStream adapts the SDK's chunk stream to plain text fragments,
// skipping empty deltas.
type chunkStream struct {
	inner   *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

func (s *chunkStream) Next() bool {
	for s.inner.Next() {
		chunk := s.inner.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			s.current = delta
			return true
		}
	}
	return false
}

func (s *chunkStream) Current() string {
	return s.current
}

func (s *chunkStream) Err() error {
	if err := s.inner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrModel, err)
	}
	return nil
}

func (s *chunkStream) Close() error {
	return s.inner.Close()
}

// Complete drains a stream into one string. Used where streaming delivery
// does not matter, like tag derivation.
func Complete(ctx context.Context, streamer Streamer, prompt string) (string, error) {
	stream, err := streamer.StreamCompletion(ctx, prompt)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var out []byte
	for stream.Next() {
		out = append(out, stream.Current()...)
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return string(out), nil
}
