package wireobj_test

import (
	"context"
	"strings"
	"testing"
	"time"

	w "github.com/reoring/wireobj"
)

func TestEncode_TimestampsBecomeEpochSeconds(t *testing.T) {
	msg, err := messageDesc.Decode(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out := msg.Encode(true)
	if out["date"] != int64(1735689600) {
		t.Fatalf("expected epoch seconds, got %#v", out["date"])
	}
}

func TestEncode_DurationSeconds(t *testing.T) {
	exact, err := w.New(voiceDesc).
		Set("file_id", "v1").
		Set("duration", 3*time.Second).
		Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	if got := exact.Encode(true)["duration"]; got != int64(3) {
		t.Fatalf("exact duration must encode as integer seconds, got %#v", got)
	}

	frac, err := w.New(voiceDesc).
		Set("file_id", "v2").
		Set("duration", 3500*time.Millisecond).
		Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	if got := frac.Encode(true)["duration"]; got != 3.5 {
		t.Fatalf("fractional duration must encode as float seconds, got %#v", got)
	}
}

func TestEncode_EmptySequenceOmitted(t *testing.T) {
	c, err := w.New(chatDesc).
		Set("id", 7).
		Set("type", chatPrivate).
		Set("active_usernames", []string{}).
		Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	if _, ok := c.Encode(true)["active_usernames"]; ok {
		t.Fatalf("empty sequence must be omitted")
	}
}

func TestEncode_NonRecursiveLeavesEntities(t *testing.T) {
	msg, err := messageDesc.Decode(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out := msg.Encode(false)
	if _, ok := out["chat"].(*w.Entity); !ok {
		t.Fatalf("non-recursive encode must keep nested entities, got %#v", out["chat"])
	}
	out = msg.Encode(true)
	if _, ok := out["chat"].(map[string]any); !ok {
		t.Fatalf("recursive encode must expand nested entities, got %#v", out["chat"])
	}
}

func TestEncode_DeclarationOrderKeysPresent(t *testing.T) {
	msg, err := messageDesc.Decode(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out := msg.Encode(true)
	for _, k := range []string{"message_id", "chat", "from", "date", "text"} {
		if _, ok := out[k]; !ok {
			t.Fatalf("missing wire key %q: %#v", k, out)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	u, err := userDesc.Decode(context.Background(), map[string]any{"id": 1, "first_name": "Ada"})
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	b, err := u.EncodeJSON(true)
	if err != nil {
		t.Fatalf("encode json err: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"first_name":"Ada"`) || !strings.Contains(s, `"id":1`) {
		t.Fatalf("unexpected json: %s", s)
	}
}

func TestEncode_FileFieldsNeverSerialized(t *testing.T) {
	v, err := w.New(inputVideoDesc).
		Set("type", "video").
		Set("media", w.FileFromBytes("a.mp4", []byte{1, 2})).
		Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	if _, ok := v.Encode(true)["media"]; ok {
		t.Fatalf("file handles must not appear in plain Encode output")
	}
}
