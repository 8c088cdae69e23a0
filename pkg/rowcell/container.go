package rowcell

import (
	"io"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// FieldContainer is the row value carried through the reflection layer: an
// ordered, fixed-size set of field slots addressed by position.
//
// Containers are not safe for concurrent use.
type FieldContainer interface {
	NumFields() int
	// Value returns the slot at position i, or nil for a null field.
	Value(i int) any
	// SetValue stores v at position i using the container's own conversion rules.
	SetValue(i int, v any) error
	// SetDatum stores a value that is already a Cell, a nested FieldContainer
	// or nil, without any conversion.
	SetDatum(i int, v any) error
	// Values returns the slots in field order.
	Values() []any

	// The container format is in-memory only; both always fail.
	io.WriterTo
	io.ReaderFrom
}

var (
	_ FieldContainer = (*ReadContainer)(nil)
	_ FieldContainer = (*WriteContainer)(nil)
)

// IsDatum reports whether v can be stored with SetDatum.
func IsDatum(v any) bool {
	switch v.(type) {
	case nil, Cell, FieldContainer:
		return true
	default:
		return false
	}
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return rowerrors.Newf(rowerrors.ErrorTypeValidation, "field index %d out of range [0,%d)", i, n)
	}
	return nil
}

func notDatum(i int, v any) error {
	return rowerrors.Newf(rowerrors.ErrorTypeTypeMismatch, "value of type %T is not a cell or field container", v).
		WithDetail("position", i)
}

func unsupportedOperation(op string) error {
	return rowerrors.New(rowerrors.ErrorTypeUnsupportedOperation, op+" is not supported for row containers").
		WithDetail("operation", op)
}

// WriteContainer is the write-mode container. Slots hold values supplied by
// the host engine as-is; there is no setter table and no null tracking beyond nil.
type WriteContainer struct {
	values []any
}

// NewWriteContainer returns a container with n empty slots.
func NewWriteContainer(n int) *WriteContainer {
	return &WriteContainer{values: make([]any, n)}
}

func (c *WriteContainer) NumFields() int {
	return len(c.values)
}

// Value returns slot i, or nil when i is out of range.
func (c *WriteContainer) Value(i int) any {
	if i < 0 || i >= len(c.values) {
		return nil
	}
	return c.values[i]
}

// SetValue stores an opaque value; nothing about v is checked.
func (c *WriteContainer) SetValue(i int, v any) error {
	if err := checkIndex(i, len(c.values)); err != nil {
		return err
	}
	c.values[i] = v
	return nil
}

func (c *WriteContainer) SetDatum(i int, v any) error {
	if !IsDatum(v) {
		return notDatum(i, v)
	}
	return c.SetValue(i, v)
}

// SetValues replaces every slot at once. The container keeps vs; callers must
// not modify it afterwards.
func (c *WriteContainer) SetValues(vs []any) error {
	if len(vs) != len(c.values) {
		return rowerrors.Newf(rowerrors.ErrorTypeValidation, "expected %d values, got %d", len(c.values), len(vs))
	}
	c.values = vs
	return nil
}

// Values returns the backing slice.
func (c *WriteContainer) Values() []any {
	return c.values
}

func (c *WriteContainer) WriteTo(io.Writer) (int64, error) {
	return 0, unsupportedOperation("write")
}

func (c *WriteContainer) ReadFrom(io.Reader) (int64, error) {
	return 0, unsupportedOperation("readFields")
}

// Equal always reports true: containers carry no equality semantics.
func (c *WriteContainer) Equal(FieldContainer) bool { return true }

// Compare always returns 0: containers carry no ordering.
func (c *WriteContainer) Compare(FieldContainer) int { return 0 }
