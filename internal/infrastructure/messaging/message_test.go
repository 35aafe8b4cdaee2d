package messaging

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{10, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := cfg.CalculateBackoff(tt.retry); got != tt.want {
			t.Fatalf("CalculateBackoff(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

func TestMessageMetadataAndPayload(t *testing.T) {
	msg, err := NewMessage("m1", TypeUniverseSaved, "user-1", "uni-1", map[string]int{"beats": 3})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	msg.SetMetadata("request_id", "req-1")
	msg.SetMetadata("empty", "")

	if msg.GetMetadata("request_id") != "req-1" {
		t.Fatalf("metadata not stored")
	}
	if _, ok := msg.Metadata["empty"]; ok {
		t.Fatalf("empty metadata values should be skipped")
	}

	var payload map[string]int
	if err := msg.UnmarshalPayload(&payload); err != nil || payload["beats"] != 3 {
		t.Fatalf("payload = %v, err = %v", payload, err)
	}
}

func TestDecodeRejectsMalformedEntries(t *testing.T) {
	if _, ok := decode(redis.XMessage{ID: "1-0", Values: map[string]interface{}{"other": "x"}}); ok {
		t.Fatalf("entry without data should be rejected")
	}
	if _, ok := decode(redis.XMessage{ID: "1-0", Values: map[string]interface{}{"data": "{not json"}}); ok {
		t.Fatalf("invalid json should be rejected")
	}
	msg, ok := decode(redis.XMessage{ID: "1-0", Values: map[string]interface{}{"data": `{"id":"m1","type":"universe_saved"}`}})
	if !ok || msg.ID != "m1" || msg.Type != TypeUniverseSaved {
		t.Fatalf("decode = %+v, %v", msg, ok)
	}
	if DefaultAuditStream.DLQStream() != "dlq:stream:universe:audit" {
		t.Fatalf("unexpected DLQ stream name")
	}
}
