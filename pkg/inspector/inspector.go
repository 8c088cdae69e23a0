// Package inspector exposes record descriptors to a host query engine as a
// catalog of named fields with per-field type inspectors. Inspectors are
// built once and never change shape afterwards.
package inspector

import (
	"github.com/ajitpratap0/rowbridge/pkg/rowcell"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

// Inspector describes how the host engine should interpret one value.
type Inspector interface {
	Category() types.Category
	TypeName() string
	String() string
}

// PrimitiveInspector describes a scalar cell kind.
type PrimitiveInspector struct {
	kind rowcell.Kind
}

func (p *PrimitiveInspector) Category() types.Category { return types.CategoryPrimitive }
func (p *PrimitiveInspector) TypeName() string { return p.kind.String() }
func (p *PrimitiveInspector) String() string { return p.kind.String() }

// Kind returns the cell kind the inspector reads.
func (p *PrimitiveInspector) Kind() rowcell.Kind { return p.kind }

var primitives = map[rowcell.Kind]*PrimitiveInspector{
	rowcell.KindBoolean: {kind: rowcell.KindBoolean},
	rowcell.KindByte:    {kind: rowcell.KindByte},
	rowcell.KindShort:   {kind: rowcell.KindShort},
	rowcell.KindInt:     {kind: rowcell.KindInt},
	rowcell.KindLong:    {kind: rowcell.KindLong},
	rowcell.KindFloat:   {kind: rowcell.KindFloat},
	rowcell.KindDouble:  {kind: rowcell.KindDouble},
	rowcell.KindText:    {kind: rowcell.KindText},
}

// ForElement returns the shared inspector for et. Element types that share a
// cell kind share an inspector.
func ForElement(et types.ElementType) (*PrimitiveInspector, error) {
	k, err := rowcell.KindOf(et)
	if err != nil {
		return nil, err
	}
	return primitives[k], nil
}

// New returns the inspector for t, recursing into nested records.
func New(t types.TypeInfo) (Inspector, error) {
	switch t.Category {
	case types.CategoryPrimitive:
		return ForElement(t.Element)
	case types.CategoryStruct:
		if t.Struct == nil {
			return nil, rowerrors.New(rowerrors.ErrorTypeValidation, "struct type without descriptor")
		}
		return NewStructInspector(t.Struct)
	default:
		return nil, rowerrors.Newf(rowerrors.ErrorTypeUnsupportedType, "unsupported type: %s", t.Category)
	}
}

// StructField is one entry of a struct inspector's field catalog.
type StructField struct {
	Name      string
	Inspector Inspector
	ID        int
	// Type is the declared type; binary and string fields share an inspector
	// but not a type.
	Type types.TypeInfo
}

func (f *StructField) FieldName() string { return f.Name }
func (f *StructField) FieldInspector() Inspector { return f.Inspector }
func (f *StructField) FieldID() int { return f.ID }

// FieldComment is always empty; descriptors carry no comments.
func (f *StructField) FieldComment() string { return "" }

func (f *StructField) String() string {
	return stringpool.Sprintf("%d:%s", f.ID, f.Name)
}

// StructInspector describes a record: its ordered fields and how to read and
// write them on a FieldContainer.
type StructInspector struct {
	desc   *types.RecordDescriptor
	fields []*StructField
}

// NewStructInspector builds the field catalog for desc. Child inspectors are
// built before the parent; any unsupported element fails the whole build.
func NewStructInspector(desc *types.RecordDescriptor) (*StructInspector, error) {
	fields := make([]*StructField, desc.NumFields())
	for i := range fields {
		fd := desc.Field(i)
		child, err := New(fd.Type)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeUnsupportedType, "cannot inspect field "+fd.Name).
				WithDetail("position", i)
		}
		fields[i] = &StructField{Name: fd.Name, Inspector: child, ID: i, Type: fd.Type}
	}
	return &StructInspector{desc: desc, fields: fields}, nil
}

func (s *StructInspector) Category() types.Category { return types.CategoryStruct }

// TypeName returns the record's type string, e.g. struct<a:int,b:string>.
func (s *StructInspector) TypeName() string { return s.desc.String() }

// Descriptor returns the descriptor the inspector was built from.
func (s *StructInspector) Descriptor() *types.RecordDescriptor { return s.desc }

// String renders the child inspectors, e.g. struct<int,struct<string>>.
func (s *StructInspector) String() string {
	return "struct<" + stringpool.Join(len(s.fields), ",", func(i int) string {
		return s.fields[i].Inspector.String()
	}) + ">"
}

// Create returns an empty write-mode container with one slot per field.
func (s *StructInspector) Create() rowcell.FieldContainer {
	return rowcell.NewWriteContainer(len(s.fields))
}

// Fields returns the catalog in declared order. The slice must not be modified.
func (s *StructInspector) Fields() []*StructField {
	return s.fields
}

// FieldByName looks a field up ignoring case.
func (s *StructInspector) FieldByName(name string) (*StructField, bool) {
	i, ok := s.desc.FieldIndex(name)
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// FieldValue returns the slot of f in data. A nil container, or a field that
// is not part of this catalog, yields nil.
func (s *StructInspector) FieldValue(data rowcell.FieldContainer, f *StructField) any {
	if data == nil || !s.owns(f) {
		return nil
	}
	return data.Value(f.ID)
}

// SetFieldValue stores v in the slot of f without conversion and returns data.
func (s *StructInspector) SetFieldValue(data rowcell.FieldContainer, f *StructField, v any) (rowcell.FieldContainer, error) {
	if data == nil {
		return nil, rowerrors.New(rowerrors.ErrorTypeValidation, "cannot set field of a nil container")
	}
	if !s.owns(f) {
		return data, rowerrors.New(rowerrors.ErrorTypeValidation, "field does not belong to "+s.TypeName()).
			WithDetail("field", fieldLabel(f))
	}
	if err := data.SetDatum(f.ID, v); err != nil {
		return data, rowerrors.Wrap(err, rowerrors.ErrorTypeTypeMismatch, "cannot set field "+f.Name)
	}
	return data, nil
}

// owns reports whether f addresses a slot of this catalog.
func (s *StructInspector) owns(f *StructField) bool {
	return f != nil && f.ID >= 0 && f.ID < len(s.fields)
}

func fieldLabel(f *StructField) string {
	if f == nil {
		return "<nil>"
	}
	return f.String()
}

// FieldValues returns every slot of data in field order, or nil for a nil container.
func (s *StructInspector) FieldValues(data rowcell.FieldContainer) []any {
	if data == nil {
		return nil
	}
	return data.Values()
}
