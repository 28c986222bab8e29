package wireobj

import (
	"time"

	j "github.com/goccy/go-json"

	"github.com/reoring/wireobj/codec"
)

// Encode produces the wire JSON structure for the entity. Fields are emitted
// in declaration order under their wire keys; timestamps become integer epoch
// seconds; durations become seconds (integer when exact); empty sequences are
// omitted; file-valued fields are skipped entirely (they only surface through
// the request parameter encoder). Extras are merged into the top level so
// that Decode(Encode(x)) is lossless up to key ordering. When recursive is
// false, nested entities are left as *Entity values.
func (e *Entity) Encode(recursive bool) map[string]any {
	out := make(map[string]any, len(e.fields)+len(e.extras))
	for k, v := range e.extras {
		out[k] = v
	}
	for _, f := range e.desc.fields {
		v, ok := e.fields[f.Name]
		if !ok {
			continue
		}
		wv, keep := encodeFieldValue(f, v, recursive)
		if !keep {
			continue
		}
		out[f.Wire] = wv
	}
	return out
}

// EncodeJSON renders Encode(recursive) as JSON bytes.
func (e *Entity) EncodeJSON(recursive bool) ([]byte, error) {
	b, err := j.Marshal(e.Encode(recursive))
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return b, nil
}

func encodeFieldValue(f Field, v any, recursive bool) (any, bool) {
	switch f.Kind {
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return codec.TimeToEpoch(t), true
		}
	case KindDuration:
		if d, ok := v.(time.Duration); ok {
			return codec.DurationToSeconds(d), true
		}
	case KindObject:
		if nested, ok := v.(*Entity); ok {
			if recursive {
				return nested.Encode(true), true
			}
			return nested, true
		}
	case KindArray:
		return encodeArrayValue(v, recursive)
	case KindFile:
		if s, ok := v.(string); ok {
			// file identifiers and attach URIs are plain strings on the wire
			return s, true
		}
		return nil, false
	}
	return normalizeScalar(v), true
}

func encodeArrayValue(v any, recursive bool) (any, bool) {
	switch t := v.(type) {
	case []*Entity:
		if len(t) == 0 {
			return nil, false
		}
		if !recursive {
			return t, true
		}
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, e.Encode(true))
		}
		return out, true
	case []any:
		if len(t) == 0 {
			return nil, false
		}
		out := make([]any, 0, len(t))
		for _, it := range t {
			out = append(out, normalizeScalar(it))
		}
		return out, true
	}
	return v, true
}

// normalizeScalar maps in-memory scalars to their wire form.
func normalizeScalar(v any) any {
	switch t := v.(type) {
	case time.Time:
		return codec.TimeToEpoch(t)
	case time.Duration:
		return codec.DurationToSeconds(t)
	case WireValuer:
		return t.WireValue()
	}
	return v
}
