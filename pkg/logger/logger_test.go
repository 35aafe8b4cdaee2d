package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestFromContextAddsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", "json", &buf)
	defer Init("info", "json")

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, UniverseIDKey, "u-42")
	Info(ctx, "hello", "extra", 1)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("request_id = %v", line["request_id"])
	}
	if line["universe_id"] != "u-42" {
		t.Fatalf("universe_id = %v", line["universe_id"])
	}
	if _, ok := line["user_id"]; ok {
		t.Fatalf("unexpected user_id in %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "WARNING": "WARN", "error": "ERROR", "bogus": "INFO"}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
