package wireobj

import (
	"context"

	"github.com/reoring/wireobj/i18n"
)

// Field is one declared attribute of an entity type. Wire is the key read
// from and written to JSON; it defaults to Name and differs only for aliased
// fields (the classic case being attribute "from_user" carried on the wire as
// "from").
type Field struct {
	Name     string
	Wire     string
	Kind     Kind
	Elem     Kind        // element kind for KindArray
	Desc     *Descriptor // nested entity type for KindObject, or entity elements of KindArray
	Required bool
	Identity bool
}

// Descriptor is the closed, statically declared schema of one entity type:
// an ordered field list with required/identity marking, plus variant family
// wiring when the type participates in a tagged union. Descriptors are built
// once through NewDescriptor/NewVariant and never mutated afterwards.
type Descriptor struct {
	name          string
	fields        []Field
	byName        map[string]int
	byWire        map[string]int
	identity      []string
	discriminator string // tag field name; "" outside variant families
	tag           string // pinned tag for concrete variants; "" on the abstract base
	variants      map[string]*Descriptor
}

// PayloadDecoder is the explicit decoding capability implemented by
// Descriptor: single-payload and batch decoding. Components that post-process
// payloads before entity construction (decryption, unwrapping) accept this
// interface rather than duck-typing on concrete descriptors.
type PayloadDecoder interface {
	Decode(ctx context.Context, payload map[string]any) (*Entity, error)
	DecodeMany(ctx context.Context, payloads []any) ([]*Entity, error)
}

var _ PayloadDecoder = (*Descriptor)(nil)

// Name returns the type name the descriptor was declared with.
func (d *Descriptor) Name() string { return d.name }

// Fields returns the declared fields in declaration order.
func (d *Descriptor) Fields() []Field { return append([]Field(nil), d.fields...) }

// FieldByName looks a field up by attribute name.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// FieldByWire looks a field up by wire key.
func (d *Descriptor) FieldByWire(key string) (Field, bool) {
	i, ok := d.byWire[key]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// Discriminator returns the tag field name, or "" when the type is not part
// of a variant family.
func (d *Descriptor) Discriminator() string { return d.discriminator }

// Tag returns the pinned discriminator value of a concrete variant, or ""
// for the abstract base and for plain types.
func (d *Descriptor) Tag() string { return d.tag }

// ---- builder ----

// DescriptorBuilder is the mutable staging form of a Descriptor. It is
// finalized by Build/MustBuild; the resulting Descriptor is immutable.
type DescriptorBuilder struct {
	name     string
	fields   []Field
	built    bool
	issues   Issues
	disc     string // injected by VariantBuilder
	tag      string
	variants map[string]*Descriptor
	family   *VariantBuilder // set on concrete variant builders
}

type fieldStep struct {
	b   *DescriptorBuilder
	idx int
}

// NewDescriptor creates a descriptor builder for the named entity type.
func NewDescriptor(name string) *DescriptorBuilder {
	return &DescriptorBuilder{name: name}
}

// Field declares an attribute with the given kind. Declaration order is the
// encode order.
func (b *DescriptorBuilder) Field(name string, k Kind) *fieldStep {
	if b.built {
		panic("wireobj: descriptor builder already finalized")
	}
	b.fields = append(b.fields, Field{Name: name, Wire: name, Kind: k})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

// Required marks the field as mandatory on decode.
func (f *fieldStep) Required() *fieldStep {
	f.b.fields[f.idx].Required = true
	return f
}

// Identity includes the field in the identity-attribute tuple used for
// equality and hashing.
func (f *fieldStep) Identity() *fieldStep {
	f.b.fields[f.idx].Identity = true
	return f
}

// Wire sets the wire key when it differs from the attribute name.
func (f *fieldStep) Wire(key string) *fieldStep {
	f.b.fields[f.idx].Wire = key
	return f
}

// Of sets the nested entity descriptor for KindObject fields and for
// KindArray fields holding entities.
func (f *fieldStep) Of(d *Descriptor) *fieldStep {
	f.b.fields[f.idx].Desc = d
	if f.b.fields[f.idx].Kind == KindArray {
		f.b.fields[f.idx].Elem = KindObject
	}
	return f
}

// Elem sets the element kind for KindArray fields of scalars.
func (f *fieldStep) Elem(k Kind) *fieldStep {
	f.b.fields[f.idx].Elem = k
	return f
}

func (f *fieldStep) Field(name string, k Kind) *fieldStep { return f.b.Field(name, k) }
func (f *fieldStep) Build() (*Descriptor, error)          { return f.b.Build() }
func (f *fieldStep) MustBuild() *Descriptor               { return f.b.MustBuild() }

// Build validates the staged fields and returns the immutable Descriptor.
func (b *DescriptorBuilder) Build() (*Descriptor, error) {
	if b.built {
		panic("wireobj: descriptor builder already finalized")
	}
	var iss Issues
	iss = append(iss, b.issues...)
	byName := make(map[string]int, len(b.fields))
	byWire := make(map[string]int, len(b.fields))
	var identity []string
	for i, f := range b.fields {
		if f.Name == "" {
			iss = AppendIssues(iss, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "field name must not be empty"})
			continue
		}
		if _, dup := byName[f.Name]; dup {
			iss = AppendIssues(iss, Issue{Path: "/" + f.Name, Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "duplicate field name"})
			continue
		}
		if (f.Kind == KindObject || (f.Kind == KindArray && f.Elem == KindObject)) && f.Desc == nil {
			iss = AppendIssues(iss, Issue{Path: "/" + f.Name, Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "object field needs Of(descriptor)"})
			continue
		}
		byName[f.Name] = i
		byWire[f.Wire] = i
		if f.Identity {
			identity = append(identity, f.Name)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	b.built = true
	d := &Descriptor{
		name:          b.name,
		fields:        b.fields,
		byName:        byName,
		byWire:        byWire,
		identity:      identity,
		discriminator: b.disc,
		tag:           b.tag,
		variants:      b.variants,
	}
	if b.family != nil {
		b.family.variants[b.tag] = d
	}
	return d, nil
}

// MustBuild is like Build but panics on error.
func (b *DescriptorBuilder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// ---- variant families ----

// VariantBuilder stages a tagged-union family: an abstract base descriptor
// plus a closed {tag -> concrete descriptor} registry.
type VariantBuilder struct {
	name     string
	disc     string
	base     *DescriptorBuilder
	variants map[string]*Descriptor
}

// NewVariant creates a variant family named name whose payloads carry their
// tag in the discriminator field.
func NewVariant(name, discriminator string) *VariantBuilder {
	base := NewDescriptor(name)
	base.Field(discriminator, KindString).Identity()
	base.disc = discriminator
	return &VariantBuilder{name: name, disc: discriminator, base: base, variants: map[string]*Descriptor{}}
}

// Field declares a shared field on the abstract base (rare; most families
// keep all payload fields on the concrete variants).
func (v *VariantBuilder) Field(name string, k Kind) *fieldStep {
	return v.base.Field(name, k)
}

// Variant starts the concrete subtype for tag under the given type name. The
// discriminator field is injected as the first field and included in the
// identity tuple; decoding through the concrete descriptor pins the tag
// regardless of the payload value. Building the returned builder registers
// the subtype in the family's registry.
func (v *VariantBuilder) Variant(tag, name string) *DescriptorBuilder {
	if tag == "" {
		panic("wireobj: variant tag must not be empty")
	}
	if _, dup := v.variants[tag]; dup {
		panic("wireobj: duplicate variant tag " + tag)
	}
	v.variants[tag] = nil // reserve the tag until the concrete builder finalizes
	cb := NewDescriptor(name)
	cb.disc = v.disc
	cb.tag = tag
	cb.family = v
	cb.Field(v.disc, KindString).Identity()
	return cb
}

// MustBuild returns the abstract base descriptor carrying the closed variant
// registry. Decoding through it dispatches on the tag; an unregistered tag
// yields the base itself with the literal tag preserved.
func (v *VariantBuilder) MustBuild() *Descriptor {
	v.base.variants = v.variants
	return v.base.MustBuild()
}
