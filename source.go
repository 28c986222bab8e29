package wireobj

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source abstracts over polymorphic payload inputs. A Source yields one
// decoded value (object or array) ready for entity decoding. Numbers are
// preserved as json.Number to avoid precision loss on 64-bit identifiers.
type Source interface {
	Decode() (any, error)
	Name() string
}

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

type jsonSource struct{ r io.Reader }

func (s jsonSource) Decode() (any, error) {
	dec := j.NewDecoder(s.r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (jsonSource) Name() string { return "go-json" }

// YAMLBytes wraps a byte slice as a YAML Source. YAML maps are normalized to
// JSON-shaped map[string]any values; non-string keys are dropped.
func YAMLBytes(b []byte) Source { return yamlSource{r: bytes.NewReader(b)} }

// YAMLReader wraps an io.Reader as a YAML Source.
func YAMLReader(r io.Reader) Source { return yamlSource{r: r} }

type yamlSource struct{ r io.Reader }

func (s yamlSource) Decode() (any, error) {
	dec := yaml.NewDecoder(s.r)
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return yamlNormalizeValue(v), nil
}

func (yamlSource) Name() string { return "yaml" }

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
