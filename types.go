package wireobj

// Kind dictates how a declared field value is coerced from the wire and
// rendered back to it.
type Kind int

const (
	KindAny      Kind = iota // Stored and emitted verbatim.
	KindString               // JSON string.
	KindInt                  // JSON integer, stored as int64.
	KindFloat                // JSON number, stored as float64.
	KindBool                 // JSON boolean.
	KindTime                 // Integer epoch seconds on the wire, time.Time in memory.
	KindDuration             // Seconds on the wire (integer when exact), time.Duration in memory.
	KindObject               // Nested entity described by Field.Desc.
	KindArray                // Sequence of Field.Elem (or Field.Desc for entity elements).
	KindFile                 // Pending binary upload; never serialized by Encode.
)

// WireValuer lets string-enum types expose the scalar written to the wire.
// The parameter encoder and the entity builder normalize implementations to
// their WireValue before encoding.
type WireValuer interface {
	WireValue() any
}
