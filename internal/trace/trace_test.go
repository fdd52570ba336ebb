package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"step", LevelStep},
		{"DEBUG", LevelDebug},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseLevel(%q) = %v, %v", c.in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStep)

	tr.Eventf(LevelStep, "dispatch s%d", 1)
	tr.Eventf(LevelDebug, "must not appear")

	out := buf.String()
	if !strings.Contains(out, "dispatch s1") {
		t.Fatalf("step event missing: %q", out)
	}
	if strings.Contains(out, "must not appear") {
		t.Fatalf("debug event leaked at step level: %q", out)
	}
	if !tr.Enabled() || tr.Level() != LevelStep {
		t.Fatalf("tracer state inconsistent")
	}
}

func TestNopTracer(t *testing.T) {
	if Nop.Enabled() || Nop.Level() != LevelOff {
		t.Fatalf("nop tracer must report disabled")
	}
	Nop.Eventf(LevelDebug, "ignored")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug)

	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer lost in context")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must default to Nop")
	}
	if FromContext(WithTracer(context.Background(), nil)) != Nop {
		t.Fatalf("nil tracer must normalize to Nop")
	}
}
