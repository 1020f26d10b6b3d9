package llm

import (
	"context"
	"errors"
	"testing"
)

type scriptedStream struct {
	fragments []string
	failWith  error
	pos       int
	err       error
}

func (s *scriptedStream) Next() bool {
	if s.pos >= len(s.fragments) {
		s.err = s.failWith
		return false
	}
	s.pos++
	return true
}

func (s *scriptedStream) Current() string { return s.fragments[s.pos-1] }
func (s *scriptedStream) Err() error      { return s.err }
func (s *scriptedStream) Close() error    { return nil }

type scriptedStreamer struct {
	stream *scriptedStream
}

func (f *scriptedStreamer) StreamCompletion(ctx context.Context, prompt string) (Stream, error) {
	return f.stream, nil
}

func TestComplete(t *testing.T) {
	streamer := &scriptedStreamer{stream: &scriptedStream{
		fragments: []string{"hello ", "world"},
	}}

	got, err := Complete(context.Background(), streamer, "prompt")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Complete() = %q, want %q", got, "hello world")
	}
}

func TestComplete_StreamError(t *testing.T) {
	wantErr := errors.New("stream broke")
	streamer := &scriptedStreamer{stream: &scriptedStream{
		fragments: []string{"partial"},
		failWith:  wantErr,
	}}

	if _, err := Complete(context.Background(), streamer, "prompt"); !errors.Is(err, wantErr) {
		t.Errorf("Complete() error = %v, want %v", err, wantErr)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); !errors.Is(err, ErrAPIKeyNotSet) {
		t.Errorf("NewClient() error = %v, want ErrAPIKeyNotSet", err)
	}
	if _, err := NewClient("sk-test", "gpt-4o-mini"); err != nil {
		t.Errorf("NewClient() with key failed: %v", err)
	}
}
