package rowcell

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

// ReadContainer is the read-mode container. It owns one pre-allocated cell per
// field and is reused across rows: Populate mutates the cells in place.
type ReadContainer struct {
	names   []string
	cells   []Cell
	nulls   []bool
	setters []setter
}

// NewReadContainer builds a container shaped like desc. Every field must be a
// supported scalar; nested records are rejected.
func NewReadContainer(desc *types.RecordDescriptor) (*ReadContainer, error) {
	names := make([]string, desc.NumFields())
	for i := range names {
		names[i] = desc.Field(i).Name
	}
	return newReadContainer(names, desc.FieldTypes())
}

// NewReadContainerFromTypes builds a container from a flat list of field types.
func NewReadContainerFromTypes(fieldTypes []types.TypeInfo) (*ReadContainer, error) {
	return newReadContainer(nil, fieldTypes)
}

// NewReadContainerFromArrow builds a container for the top-level columns of schema.
func NewReadContainerFromArrow(schema *arrow.Schema) (*ReadContainer, error) {
	fields := schema.Fields()
	names := make([]string, len(fields))
	fieldTypes := make([]types.TypeInfo, len(fields))
	for i, f := range fields {
		et, err := types.ElementTypeFromArrow(f.Type.ID())
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeUnsupportedType, "unsupported field "+f.Name).
				WithDetail("position", i)
		}
		names[i] = f.Name
		fieldTypes[i] = types.Primitive(et)
	}
	return newReadContainer(names, fieldTypes)
}

func newReadContainer(names []string, fieldTypes []types.TypeInfo) (*ReadContainer, error) {
	c := &ReadContainer{
		names:   names,
		cells:   make([]Cell, len(fieldTypes)),
		nulls:   make([]bool, len(fieldTypes)),
		setters: make([]setter, len(fieldTypes)),
	}
	for i, t := range fieldTypes {
		if t.Category != types.CategoryPrimitive {
			return nil, unsupportedType(t.String()).WithDetail("position", i)
		}
		cell, set, err := classify(t.Element)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeUnsupportedType, "cannot build cell for "+c.fieldName(i)).
				WithDetail("position", i)
		}
		c.cells[i] = cell
		c.setters[i] = set
	}
	return c, nil
}

func (c *ReadContainer) fieldName(i int) string {
	if i < len(c.names) {
		return c.names[i]
	}
	return stringpool.Sprintf("_col%d", i)
}

func (c *ReadContainer) NumFields() int {
	return len(c.cells)
}

// Populate copies row of cols into the cells, in ascending field order. A null
// column value marks the field null and leaves its cell untouched. The cells are
// only mutated once every accessor has been checked against the row index.
func (c *ReadContainer) Populate(cols []ColumnAccessor, row int) error {
	if len(cols) != len(c.cells) {
		return rowerrors.Newf(rowerrors.ErrorTypeValidation, "expected %d column accessors, got %d", len(c.cells), len(cols))
	}
	for i, col := range cols {
		if row < 0 || row >= col.Len() {
			return rowerrors.Newf(rowerrors.ErrorTypeValidation, "row %d out of range for column %s", row, c.fieldName(i)).
				WithDetail("length", col.Len())
		}
	}

	for i, col := range cols {
		if col.IsNull(row) {
			c.nulls[i] = true
			continue
		}
		if err := c.setters[i](c.cells[i], col.ObjectAt(row)); err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeTypeMismatch, "failed to populate field "+c.fieldName(i)).
				WithDetail("position", i).
				WithDetail("row", row)
		}
		c.nulls[i] = false
	}
	return nil
}

// Value returns the cell at i, or nil when the field is null or i is out of
// range.
func (c *ReadContainer) Value(i int) any {
	if i < 0 || i >= len(c.cells) || c.nulls[i] {
		return nil
	}
	return c.cells[i]
}

// Cell returns the cell at i whether or not the field is null.
func (c *ReadContainer) Cell(i int) Cell {
	return c.cells[i]
}

func (c *ReadContainer) IsNull(i int) bool {
	return c.nulls[i]
}

// SetValue converts v through the field's setter. A nil v marks the field null.
func (c *ReadContainer) SetValue(i int, v any) error {
	if err := checkIndex(i, len(c.cells)); err != nil {
		return err
	}
	if v == nil {
		c.nulls[i] = true
		return nil
	}
	if err := c.setters[i](c.cells[i], v); err != nil {
		return err
	}
	c.nulls[i] = false
	return nil
}

// SetDatum copies the value of v, which must have the slot's kind, into the
// container's own cell at i. The container never keeps v; nil marks the field
// null.
func (c *ReadContainer) SetDatum(i int, v any) error {
	if err := checkIndex(i, len(c.cells)); err != nil {
		return err
	}
	if v == nil {
		c.nulls[i] = true
		return nil
	}
	cell, ok := v.(Cell)
	if !ok {
		return notDatum(i, v)
	}
	if cell.Kind() != c.cells[i].Kind() {
		return rowerrors.Newf(rowerrors.ErrorTypeTypeMismatch, "cannot store %s cell in %s field", cell.Kind(), c.cells[i].Kind()).
			WithDetail("position", i)
	}
	if err := assign(c.cells[i], cell); err != nil {
		return err.WithDetail("position", i)
	}
	c.nulls[i] = false
	return nil
}

// Values returns a fresh slice of Value(i) for every field.
func (c *ReadContainer) Values() []any {
	out := make([]any, len(c.cells))
	for i := range c.cells {
		out[i] = c.Value(i)
	}
	return out
}

func (c *ReadContainer) WriteTo(io.Writer) (int64, error) {
	return 0, unsupportedOperation("write")
}

func (c *ReadContainer) ReadFrom(io.Reader) (int64, error) {
	return 0, unsupportedOperation("readFields")
}

// Equal always reports true: containers carry no equality semantics.
func (c *ReadContainer) Equal(FieldContainer) bool { return true }

// Compare always returns 0: containers carry no ordering.
func (c *ReadContainer) Compare(FieldContainer) int { return 0 }
