package wireobj_test

import (
	"context"
	"testing"

	w "github.com/reoring/wireobj"
)

func TestVariant_DispatchKnownTags(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		payload  map[string]any
		wantType string
	}{
		{map[string]any{"type": "emoji", "emoji": "👍"}, "reaction_type_emoji"},
		{map[string]any{"type": "custom_emoji", "custom_emoji_id": "c1"}, "reaction_type_custom_emoji"},
		{map[string]any{"type": "paid"}, "reaction_type_paid"},
	}
	for _, tc := range cases {
		e, err := reactionDesc.Decode(ctx, tc.payload)
		if err != nil {
			t.Fatalf("decode %v err: %v", tc.payload, err)
		}
		if e.TypeName() != tc.wantType {
			t.Fatalf("tag %v dispatched to %s, want %s", tc.payload["type"], e.TypeName(), tc.wantType)
		}
		if e.TagValue() != tc.payload["type"] {
			t.Fatalf("tag not preserved: %q", e.TagValue())
		}
	}
}

func TestVariant_UnknownTagYieldsBase(t *testing.T) {
	e, err := reactionDesc.Decode(context.Background(), map[string]any{
		"type": "not_yet_invented",
		"x":    1,
	})
	if err != nil {
		t.Fatalf("unknown tag must never raise: %v", err)
	}
	if e.TypeName() != "reaction_type" {
		t.Fatalf("unknown tag must construct the abstract base, got %s", e.TypeName())
	}
	if e.TagValue() != "not_yet_invented" {
		t.Fatalf("literal tag must be preserved, got %q", e.TagValue())
	}
	if v, ok := e.Extra("x"); !ok || v != 1 {
		t.Fatalf("payload fields must be captured in extras: %#v", e.Extras())
	}
}

func TestVariant_MissingTagYieldsBase(t *testing.T) {
	e, err := reactionDesc.Decode(context.Background(), map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("missing tag must never raise: %v", err)
	}
	if e.TypeName() != "reaction_type" || e.TagValue() != "" {
		t.Fatalf("unexpected entity: %s %q", e.TypeName(), e.TagValue())
	}
}

func TestVariant_SubtypePinning(t *testing.T) {
	// decoding through the concrete subtype ignores a foreign tag
	e, err := reactionEmoji.Decode(context.Background(), map[string]any{
		"type":  "paid",
		"emoji": "🔥",
	})
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if e.TypeName() != "reaction_type_emoji" {
		t.Fatalf("concrete decode must never re-dispatch, got %s", e.TypeName())
	}
	if e.TagValue() != "emoji" {
		t.Fatalf("concrete decode must pin its own tag, got %q", e.TagValue())
	}
	if _, ok := e.Extra("type"); ok {
		t.Fatalf("the foreign tag must not leak into extras")
	}
}

func TestVariant_ConcreteBuilderPinsTag(t *testing.T) {
	e, err := w.New(reactionCustom).Set("custom_emoji_id", "c9").Build()
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	if e.TagValue() != "custom_emoji" {
		t.Fatalf("builder must pin the variant tag, got %q", e.TagValue())
	}
}

func TestVariant_ConcreteExtrasRule(t *testing.T) {
	// concrete subtypes route their own unknown fields into extras too
	e, err := reactionDesc.Decode(context.Background(), map[string]any{
		"type":   "emoji",
		"emoji":  "👍",
		"future": true,
	})
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if v, ok := e.Extra("future"); !ok || v != true {
		t.Fatalf("extras rule must hold on concrete subtypes: %#v", e.Extras())
	}
}

func TestVariant_RoundTripThroughBase(t *testing.T) {
	ctx := context.Background()
	e, err := reactionDesc.Decode(ctx, map[string]any{"type": "emoji", "emoji": "👍"})
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	again, err := reactionDesc.Decode(ctx, e.Encode(true))
	if err != nil {
		t.Fatalf("re-decode err: %v", err)
	}
	if !e.Equal(again) {
		t.Fatalf("variant round-trip not equal")
	}
}
