package wireobj

import (
	"context"
	"strconv"
	"time"

	j "github.com/goccy/go-json"

	"github.com/reoring/wireobj/codec"
	"github.com/reoring/wireobj/i18n"
)

// Decode constructs an entity from one wire payload. The payload is never
// mutated. Declared fields populate typed attributes; every other key is
// preserved in extras; null field values count as absent. Missing required
// fields are fatal. Decoding through a variant family's abstract base
// dispatches on the discriminator; an unregistered tag yields the base with
// the literal tag preserved.
func (d *Descriptor) Decode(ctx context.Context, payload map[string]any) (*Entity, error) {
	return d.decode(payload, true)
}

// DecodeMany maps Decode over the entries, dropping null entries and
// preserving order. The result is non-nil even for empty input.
func (d *Descriptor) DecodeMany(ctx context.Context, payloads []any) ([]*Entity, error) {
	out := make([]*Entity, 0, len(payloads))
	var iss Issues
	for i, p := range payloads {
		if p == nil {
			continue
		}
		m, ok := p.(map[string]any)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: "/" + strconv.Itoa(i), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected object"})
			continue
		}
		e, err := d.decode(m, true)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
			continue
		}
		out = append(out, e)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// DecodeFrom decodes one entity payload from a Source.
func (d *Descriptor) DecodeFrom(ctx context.Context, src Source) (*Entity, error) {
	v, err := src.Decode()
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil))
	}
	return d.Decode(ctx, m)
}

// DecodeManyFrom decodes an array of entity payloads from a Source.
func (d *Descriptor) DecodeManyFrom(ctx context.Context, src Source) ([]*Entity, error) {
	v, err := src.Decode()
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	list, ok := v.([]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil))
	}
	return d.DecodeMany(ctx, list)
}

func (d *Descriptor) decode(payload map[string]any, dispatch bool) (*Entity, error) {
	if payload == nil {
		return nil, singleIssue(CodeInvalidType, i18n.T(CodeInvalidType, nil))
	}
	if dispatch && d.variants != nil {
		tag, _ := payload[d.discriminator].(string)
		if c, ok := d.variants[tag]; ok && c != nil {
			// concrete subtypes never re-dispatch
			return c.decode(payload, false)
		}
		// unknown tag: fall through and construct the abstract base, keeping
		// the literal tag in the discriminator field.
	}
	src := make(map[string]any, len(payload))
	for k, v := range payload {
		src[k] = v
	}
	fields := make(map[string]any, len(d.fields))
	var iss Issues
	for _, f := range d.fields {
		val, exists := src[f.Wire]
		if exists {
			delete(src, f.Wire)
		}
		if !exists || val == nil {
			if f.Required {
				iss = AppendIssues(iss, Issue{Path: "/" + f.Wire, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "required property missing"})
			}
			continue
		}
		v, err := coerceField(f, val)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+f.Wire, err)...)
			continue
		}
		fields[f.Name] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	// whatever the payload carried beyond the declared schema survives in
	// extras, keyed as received.
	extras := make(map[string]any, len(src))
	for k, v := range src {
		extras[k] = v
	}
	if d.tag != "" {
		// pinning: a concrete subtype ignores mismatching tag values
		fields[d.discriminator] = d.tag
	}
	return &Entity{desc: d, fields: fields, extras: extras}, nil
}

// coerceField converts one field value to its in-memory form. It accepts
// both wire-shaped values (json.Number, map[string]any, []any) and native Go
// values staged through the entity builder.
func coerceField(f Field, v any) (any, error) {
	switch f.Kind {
	case KindAny:
		return v, nil
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		if wv, ok := v.(WireValuer); ok {
			if s, ok := wv.WireValue().(string); ok {
				return s, nil
			}
		}
		return nil, typeIssue("string")
	case KindInt:
		if n, ok := asInt64(v); ok {
			return n, nil
		}
		return nil, typeIssue("integer")
	case KindFloat:
		if n, ok := asFloat64(v); ok {
			return n, nil
		}
		return nil, typeIssue("number")
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, typeIssue("boolean")
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		if n, ok := asInt64(v); ok {
			return codec.EpochToTime(n), nil
		}
		return nil, typeIssue("epoch seconds")
	case KindDuration:
		if d, ok := v.(time.Duration); ok {
			return d, nil
		}
		if n, ok := asFloat64(v); ok {
			return codec.SecondsToDuration(n), nil
		}
		return nil, typeIssue("seconds")
	case KindObject:
		switch t := v.(type) {
		case *Entity:
			return t, nil
		case map[string]any:
			return f.Desc.decode(t, true)
		}
		return nil, typeIssue("object")
	case KindArray:
		return coerceArray(f, v)
	case KindFile:
		switch t := v.(type) {
		case *InputFile:
			return t, nil
		case string:
			// already-uploaded identifier or attach URI, passed through
			return t, nil
		}
		return nil, typeIssue("input file")
	}
	return nil, typeIssue("declared kind")
}

func coerceArray(f Field, v any) (any, error) {
	items, err := anySlice(v)
	if err != nil {
		return nil, err
	}
	if f.Elem == KindObject {
		out := make([]*Entity, 0, len(items))
		var iss Issues
		for i, it := range items {
			if it == nil {
				continue
			}
			elem := Field{Kind: KindObject, Desc: f.Desc}
			ev, err := coerceField(elem, it)
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
				continue
			}
			out = append(out, ev.(*Entity))
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}
	out := make([]any, 0, len(items))
	var iss Issues
	for i, it := range items {
		if it == nil {
			continue
		}
		ev, err := coerceField(Field{Kind: f.Elem}, it)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func anySlice(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []*Entity:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []int:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []int64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []float64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	}
	return nil, typeIssue("array")
}

func typeIssue(expected string) Issues {
	return Issues{Issue{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected " + expected}}
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case j.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return 0, false
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case j.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
		return 0, false
	}
	return 0, false
}
