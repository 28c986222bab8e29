package wireobj

import (
	"io"

	j "github.com/goccy/go-json"
)

// RequestParameter is one named request argument flattened to a JSON value
// plus the input files collected while encoding it.
type RequestParameter struct {
	Name  string
	Value any // wire-normalized JSON value, or nil
	Files []*InputFile
}

// Part is one multipart/form-data part: filename, content, and content type.
// Data carries eagerly read content; Reader is set instead for lazy files.
type Part struct {
	Filename string
	Data     []byte
	Reader   io.Reader
	MIME     string
}

// EncodeParameter flattens one named argument. Scalars are normalized to
// their wire form; a bare tokened file becomes its attach URI; a bare
// tokenless file becomes the parameter's entire value (nil JSON value, one
// file); entities are encoded with embedded file fields replaced by attach
// URIs; sequences encode element-wise, omitting elements whose whole value
// was consumed as a file while still collecting their files.
func EncodeParameter(name string, value any) RequestParameter {
	v, files, _ := encodeParamValue(value)
	return RequestParameter{Name: name, Value: v, Files: files}
}

// JSONText returns the JSON-rendered parameter value. The bool is false
// exactly when there is nothing to put in the JSON body (the parameter
// degenerated to a single tokenless file, or the value was nil). String
// values are returned raw, not JSON-escaped.
func (p RequestParameter) JSONText() (string, bool) {
	if p.Value == nil {
		return "", false
	}
	if s, ok := p.Value.(string); ok {
		return s, true
	}
	b, err := j.Marshal(p.Value)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// MultipartParts returns one part per collected file, keyed by the file's
// token, or by the parameter name for a tokenless file sent as the whole
// value.
func (p RequestParameter) MultipartParts() map[string]Part {
	if len(p.Files) == 0 {
		return nil
	}
	out := make(map[string]Part, len(p.Files))
	for _, f := range p.Files {
		key := f.Token()
		if key == "" {
			key = p.Name
		}
		out[key] = Part{Filename: f.Filename(), Data: f.Data(), Reader: f.Reader(), MIME: f.MIME()}
	}
	return out
}

// encodeParamValue returns the JSON value, the collected files, and whether
// the whole value was consumed as a file-only payload.
func encodeParamValue(v any) (any, []*InputFile, bool) {
	switch t := v.(type) {
	case nil:
		return nil, nil, false
	case *InputFile:
		if uri := t.AttachURI(); uri != "" {
			return uri, []*InputFile{t}, false
		}
		// transmit the file as the parameter's entire value
		return nil, []*InputFile{t}, true
	case *Entity:
		return encodeEntityParam(t)
	}
	if items, ok := paramSlice(v); ok {
		out := make([]any, 0, len(items))
		var files []*InputFile
		for _, it := range items {
			ev, fs, consumed := encodeParamValue(it)
			files = append(files, fs...)
			if consumed {
				continue
			}
			out = append(out, ev)
		}
		return out, files, false
	}
	return normalizeScalar(v), nil, false
}

// encodeEntityParam encodes a composite entity, rewriting embedded file
// fields to their attach URIs (or dropping them when no URI exists) and
// collecting every file found.
func encodeEntityParam(e *Entity) (any, []*InputFile, bool) {
	obj := e.Encode(true)
	var files []*InputFile
	for _, f := range e.desc.fields {
		if f.Kind != KindFile {
			continue
		}
		file, ok := e.File(f.Name)
		if !ok {
			continue
		}
		files = append(files, file)
		if uri := file.AttachURI(); uri != "" {
			obj[f.Wire] = uri
		}
	}
	return obj, files, false
}

func paramSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []*Entity:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []*InputFile:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []int64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []bool:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}
