package wireobj

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/reoring/wireobj/codec"
	"github.com/reoring/wireobj/i18n"
)

// Entity is an immutable value object mirroring one wire JSON object type.
// Declared fields are typed per the Descriptor; everything else the wire
// carried lives in the extras side-channel, keyed by wire key, and survives
// re-encoding verbatim. Entities are safe to share across goroutines.
type Entity struct {
	desc   *Descriptor
	fields map[string]any // keyed by attribute name
	extras map[string]any // keyed by wire key
	bound  any            // client handle; excluded from equality and encoding
}

// Descriptor returns the schema this entity was constructed against.
func (e *Entity) Descriptor() *Descriptor { return e.desc }

// TypeName returns the descriptor's type name.
func (e *Entity) TypeName() string { return e.desc.name }

// TagValue returns the discriminator value for variant family members. For a
// payload with an unregistered tag this is the literal tag string preserved
// on the abstract base.
func (e *Entity) TagValue() string {
	if e.desc.discriminator == "" {
		return ""
	}
	s, _ := e.fields[e.desc.discriminator].(string)
	return s
}

// Get returns the raw value of a declared field.
func (e *Entity) Get(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Require returns the value of name, failing with a missing_capability error
// when the entity's type does not declare the field at all. Declared-but-unset
// fields return (nil, false-like) without error.
func (e *Entity) Require(name string) (any, error) {
	if _, ok := e.desc.byName[name]; !ok {
		return nil, Issues{Issue{
			Path: "/" + name, Code: CodeMissingCapability,
			Message: i18n.T(CodeMissingCapability, nil),
			Hint:    "type " + e.desc.name + " does not declare " + name,
		}}
	}
	return e.fields[name], nil
}

// String returns a KindString field value.
func (e *Entity) String(name string) (string, bool) {
	v, ok := e.fields[name].(string)
	return v, ok
}

// Int64 returns a KindInt field value.
func (e *Entity) Int64(name string) (int64, bool) {
	v, ok := e.fields[name].(int64)
	return v, ok
}

// Float64 returns a KindFloat field value.
func (e *Entity) Float64(name string) (float64, bool) {
	v, ok := e.fields[name].(float64)
	return v, ok
}

// Bool returns a KindBool field value.
func (e *Entity) Bool(name string) (bool, bool) {
	v, ok := e.fields[name].(bool)
	return v, ok
}

// Time returns a KindTime field value.
func (e *Entity) Time(name string) (time.Time, bool) {
	v, ok := e.fields[name].(time.Time)
	return v, ok
}

// Duration returns a KindDuration field value.
func (e *Entity) Duration(name string) (time.Duration, bool) {
	v, ok := e.fields[name].(time.Duration)
	return v, ok
}

// EntityField returns a nested KindObject field value.
func (e *Entity) EntityField(name string) (*Entity, bool) {
	v, ok := e.fields[name].(*Entity)
	return v, ok
}

// Entities returns a KindArray-of-entities field value.
func (e *Entity) Entities(name string) ([]*Entity, bool) {
	v, ok := e.fields[name].([]*Entity)
	return v, ok
}

// File returns a KindFile field value.
func (e *Entity) File(name string) (*InputFile, bool) {
	v, ok := e.fields[name].(*InputFile)
	return v, ok
}

// Extra returns one extras entry by wire key.
func (e *Entity) Extra(key string) (any, bool) {
	v, ok := e.extras[key]
	return v, ok
}

// Extras returns a copy of the extras side-channel.
func (e *Entity) Extras() map[string]any {
	out := make(map[string]any, len(e.extras))
	for k, v := range e.extras {
		out[k] = v
	}
	return out
}

// Bind attaches a non-serializable association (typically the API client
// that produced this entity). The association is excluded from equality,
// hashing, and encoding; Clone shares it rather than duplicating it.
func (e *Entity) Bind(v any) { e.bound = v }

// Bound returns the attached association, if any.
func (e *Entity) Bound() any { return e.bound }

// Clone returns a copy with independent field/extras maps. The bound
// association is shared between the original and the copy.
func (e *Entity) Clone() *Entity {
	fields := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		fields[k] = v
	}
	extras := make(map[string]any, len(e.extras))
	for k, v := range e.extras {
		extras[k] = v
	}
	return &Entity{desc: e.desc, fields: fields, extras: extras, bound: e.bound}
}

// Identity returns the identity-attribute tuple in declaration order. Absent
// identity fields contribute nil.
func (e *Entity) Identity() []any {
	out := make([]any, 0, len(e.desc.identity))
	for _, name := range e.desc.identity {
		out = append(out, e.fields[name])
	}
	return out
}

var warnedNoIdentity sync.Map // type name -> struct{}

// Equal reports whether two entities of the same concrete type have equal
// identity tuples. Cross-type comparison is never equal. A type without
// identity attributes falls back to reference identity (with a one-time
// diagnostic per type) so that speculative equality from generic collection
// code never fails.
func (e *Entity) Equal(o *Entity) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.desc != o.desc {
		return false
	}
	if len(e.desc.identity) == 0 {
		if _, dup := warnedNoIdentity.LoadOrStore(e.desc.name, struct{}{}); !dup {
			slog.Warn("wireobj: type has no identity attributes; comparing by reference", "type", e.desc.name)
		}
		return e == o
	}
	for _, name := range e.desc.identity {
		if !identityValueEqual(e.fields[name], o.fields[name]) {
			return false
		}
	}
	return true
}

func identityValueEqual(a, b any) bool {
	switch av := a.(type) {
	case *Entity:
		bv, ok := b.(*Entity)
		return ok && av.Equal(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Hash combines the concrete type with the identity tuple. Entities that
// compare Equal hash identically.
func (e *Entity) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(e.desc.name))
	for _, name := range e.desc.identity {
		h.Write([]byte{0})
		hashValue(h, e.fields[name])
	}
	return h.Sum64()
}

func hashValue(h io.Writer, v any) {
	switch t := v.(type) {
	case nil:
		h.Write([]byte("~"))
	case *Entity:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], t.Hash())
		h.Write(buf[:])
	case time.Time:
		fmt.Fprintf(h, "%d", codec.TimeToEpoch(t))
	default:
		fmt.Fprintf(h, "%v", t)
	}
}

// ---- construction ----

// EntityBuilder is the mutable staging phase of entity construction. Build
// validates required fields, coerces values to their declared kinds, and
// finalizes into an immutable Entity. Values may be given under attribute
// names or wire aliases; names the descriptor does not declare are routed to
// extras.
type EntityBuilder struct {
	desc   *Descriptor
	fields map[string]any
	extras map[string]any
	issues Issues
	done   bool
}

// New starts building an entity of the given type.
func New(desc *Descriptor) *EntityBuilder {
	return &EntityBuilder{desc: desc, fields: map[string]any{}, extras: map[string]any{}}
}

// Set stages a field value. nil values are ignored (absent field).
func (b *EntityBuilder) Set(name string, value any) *EntityBuilder {
	if b.done {
		panic("wireobj: entity builder already finalized")
	}
	if value == nil {
		return b
	}
	idx, ok := b.desc.byName[name]
	if !ok {
		idx, ok = b.desc.byWire[name]
	}
	if !ok {
		b.extras[name] = value
		return b
	}
	f := b.desc.fields[idx]
	v, err := coerceField(f, value)
	if err != nil {
		b.issues = AppendIssues(b.issues, rebaseIssues("/"+f.Name, err)...)
		return b
	}
	b.fields[f.Name] = v
	return b
}

// Extra stages an extras entry under its wire key.
func (b *EntityBuilder) Extra(key string, value any) *EntityBuilder {
	if b.done {
		panic("wireobj: entity builder already finalized")
	}
	b.extras[key] = value
	return b
}

// Build finalizes the staged values into an immutable Entity. Missing
// required fields are fatal.
func (b *EntityBuilder) Build() (*Entity, error) {
	if b.done {
		panic("wireobj: entity builder already finalized")
	}
	iss := b.issues
	for _, f := range b.desc.fields {
		if !f.Required {
			continue
		}
		if _, ok := b.fields[f.Name]; !ok {
			iss = AppendIssues(iss, Issue{Path: "/" + f.Wire, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "required property missing"})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	// concrete variants always carry their own tag
	if b.desc.tag != "" {
		b.fields[b.desc.discriminator] = b.desc.tag
	}
	b.done = true
	return &Entity{desc: b.desc, fields: b.fields, extras: b.extras}, nil
}

// MustBuild is like Build but panics on error.
func (b *EntityBuilder) MustBuild() *Entity {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}
