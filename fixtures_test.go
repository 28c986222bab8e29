package wireobj_test

import (
	w "github.com/reoring/wireobj"
)

// chatType is a string enum the way client code declares them.
type chatType string

func (c chatType) WireValue() any { return string(c) }

const (
	chatPrivate chatType = "private"
	chatGroup   chatType = "group"
)

var userDesc = w.NewDescriptor("user").
	Field("id", w.KindInt).Required().Identity().
	Field("is_bot", w.KindBool).
	Field("first_name", w.KindString).Required().
	Field("username", w.KindString).
	Field("language_code", w.KindString).
	MustBuild()

var chatDesc = w.NewDescriptor("chat").
	Field("id", w.KindInt).Required().Identity().
	Field("type", w.KindString).Required().
	Field("title", w.KindString).
	Field("active_usernames", w.KindArray).Elem(w.KindString).
	MustBuild()

var photoSizeDesc = w.NewDescriptor("photo_size").
	Field("file_id", w.KindString).Required().Identity().
	Field("width", w.KindInt).Required().
	Field("height", w.KindInt).Required().
	MustBuild()

var voiceDesc = w.NewDescriptor("voice").
	Field("file_id", w.KindString).Required().Identity().
	Field("duration", w.KindDuration).Required().
	Field("mime_type", w.KindString).
	MustBuild()

var messageDesc = w.NewDescriptor("message").
	Field("message_id", w.KindInt).Required().Identity().
	Field("chat", w.KindObject).Of(chatDesc).Required().Identity().
	Field("from_user", w.KindObject).Wire("from").Of(userDesc).
	Field("date", w.KindTime).
	Field("text", w.KindString).
	Field("photo", w.KindArray).Of(photoSizeDesc).
	Field("voice", w.KindObject).Of(voiceDesc).
	MustBuild()

// reaction family: the classic tagged union with one concrete type per tag.
var (
	reactionVariant = w.NewVariant("reaction_type", "type")

	reactionEmoji = reactionVariant.Variant("emoji", "reaction_type_emoji").
			Field("emoji", w.KindString).Required().Identity().
			MustBuild()

	reactionCustom = reactionVariant.Variant("custom_emoji", "reaction_type_custom_emoji").
			Field("custom_emoji_id", w.KindString).Required().Identity().
			MustBuild()

	reactionPaid = reactionVariant.Variant("paid", "reaction_type_paid").
			MustBuild()

	reactionDesc = reactionVariant.MustBuild()
)

// inputVideoDesc is a composite "media with optional thumbnail" description
// used by the parameter encoder tests.
var inputVideoDesc = w.NewDescriptor("input_media_video").
	Field("type", w.KindString).Required().
	Field("media", w.KindFile).Required().
	Field("thumbnail", w.KindFile).
	Field("caption", w.KindString).
	Field("duration", w.KindDuration).
	MustBuild()

func samplePayload() map[string]any {
	return map[string]any{
		"message_id": 42,
		"chat":       map[string]any{"id": 7, "type": "private"},
		"from":       map[string]any{"id": 3, "first_name": "Ada", "is_bot": false},
		"date":       1735689600,
		"text":       "hello",
	}
}
