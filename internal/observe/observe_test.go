package observe

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, true)

	if obs == nil {
		t.Fatal("expected non-nil Observer")
	}
	if obs.log == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewWithOptions_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewWithOptions(buf, Options{Verbose: true, JSON: true})

	obs.Log().Info().Str("unit", "unit1").Msg("word added")

	output := buf.String()
	if !strings.Contains(output, "word added") {
		t.Errorf("expected output to contain 'word added', got %q", output)
	}
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("expected JSON output, got %q", output)
	}
}

func TestNewWithOptions_QuietSuppressesInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewWithOptions(buf, Options{})

	obs.Log().Info().Msg("hidden")
	obs.Log().Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info should be suppressed when not verbose, got %q", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("expected warning in output, got %q", output)
	}
}

func TestDiscard(t *testing.T) {
	obs := Discard()
	// Should not panic
	obs.Log().Error().Msg("dropped")
}

func TestObserver_StartSpan(t *testing.T) {
	obs := New(&bytes.Buffer{}, true)

	spanCtx, span := obs.StartSpan(context.Background(), "vocab.save")
	if spanCtx == nil {
		t.Fatal("expected non-nil context from StartSpan")
	}
	if span == nil {
		t.Fatal("expected non-nil span from StartSpan")
	}
	span.End()
}

func TestObserver_Close(t *testing.T) {
	obs := New(&bytes.Buffer{}, true)

	if err := obs.Close(); err != nil {
		t.Errorf("expected nil error from Close, got %v", err)
	}
}

func TestObserver_LogWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, true)

	obs.Log().Warn().
		Str("unit", "legacy").
		Int("skipped", 2).
		Msg("legacy unit converted")

	output := buf.String()
	if !strings.Contains(output, "legacy unit converted") {
		t.Errorf("expected output to contain 'legacy unit converted', got %q", output)
	}
}
