// Package types describes the shapes the row adapter understands: the fixed set
// of scalar element types and the ordered, possibly nested, record descriptors
// built from them.
package types

import (
	"strings"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
)

// ElementType is the tag of a scalar column element.
type ElementType int

const (
	// ElementTypeUnknown is the zero value and is never supported
	ElementTypeUnknown ElementType = iota
	ElementTypeBoolean
	ElementTypeInt8
	ElementTypeInt16
	ElementTypeInt32
	ElementTypeUInt32
	ElementTypeInt64
	ElementTypeUInt64
	ElementTypeFloat32
	ElementTypeFloat64
	ElementTypeVarString
	ElementTypeLargeVarString
	ElementTypeVarBinary
	ElementTypeLargeVarBinary
)

var elementNames = [...]string{
	ElementTypeUnknown:        "unknown",
	ElementTypeBoolean:        "boolean",
	ElementTypeInt8:           "int8",
	ElementTypeInt16:          "int16",
	ElementTypeInt32:          "int32",
	ElementTypeUInt32:         "uint32",
	ElementTypeInt64:          "int64",
	ElementTypeUInt64:         "uint64",
	ElementTypeFloat32:        "float32",
	ElementTypeFloat64:        "float64",
	ElementTypeVarString:      "varchar",
	ElementTypeLargeVarString: "large_varchar",
	ElementTypeVarBinary:      "varbinary",
	ElementTypeLargeVarBinary: "large_varbinary",
}

// ElementTypes lists every supported element type in declaration order.
func ElementTypes() []ElementType {
	return []ElementType{
		ElementTypeBoolean,
		ElementTypeInt8,
		ElementTypeInt16,
		ElementTypeInt32,
		ElementTypeUInt32,
		ElementTypeInt64,
		ElementTypeUInt64,
		ElementTypeFloat32,
		ElementTypeFloat64,
		ElementTypeVarString,
		ElementTypeLargeVarString,
		ElementTypeVarBinary,
		ElementTypeLargeVarBinary,
	}
}

// String returns the canonical name of the element type.
func (et ElementType) String() string {
	if et < 0 || int(et) >= len(elementNames) {
		return stringpool.Sprintf("ElementType(%d)", int(et))
	}
	return elementNames[et]
}

// Valid reports whether et is one of the supported element types.
func (et ElementType) Valid() bool {
	return et > ElementTypeUnknown && et <= ElementTypeLargeVarBinary
}

// IsBinary reports whether et holds raw bytes rather than text.
func (et ElementType) IsBinary() bool {
	return et == ElementTypeVarBinary || et == ElementTypeLargeVarBinary
}

// HiveName returns the host engine's name for et. Unsigned and large variants
// share the name of their signed or short counterpart.
func (et ElementType) HiveName() string {
	switch et {
	case ElementTypeBoolean:
		return "boolean"
	case ElementTypeInt8:
		return "tinyint"
	case ElementTypeInt16:
		return "smallint"
	case ElementTypeInt32, ElementTypeUInt32:
		return "int"
	case ElementTypeInt64, ElementTypeUInt64:
		return "bigint"
	case ElementTypeFloat32:
		return "float"
	case ElementTypeFloat64:
		return "double"
	case ElementTypeVarString, ElementTypeLargeVarString:
		return "string"
	case ElementTypeVarBinary, ElementTypeLargeVarBinary:
		return "binary"
	default:
		return et.String()
	}
}

// Category separates scalar types from nested records.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryStruct
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "PRIMITIVE"
	case CategoryStruct:
		return "STRUCT"
	default:
		return stringpool.Sprintf("Category(%d)", int(c))
	}
}

// TypeInfo is the type of a single field: either a scalar element or a nested record.
type TypeInfo struct {
	Category Category
	Element  ElementType
	Struct   *RecordDescriptor
}

// Primitive returns the TypeInfo of a scalar element.
func Primitive(et ElementType) TypeInfo {
	return TypeInfo{Category: CategoryPrimitive, Element: et}
}

// StructOf returns the TypeInfo of a nested record.
func StructOf(rd *RecordDescriptor) TypeInfo {
	return TypeInfo{Category: CategoryStruct, Struct: rd}
}

// String renders the type in host engine syntax, e.g. struct<a:int,b:string>.
func (t TypeInfo) String() string {
	if t.Category == CategoryStruct {
		if t.Struct == nil {
			return "struct<>"
		}
		return t.Struct.String()
	}
	return t.Element.HiveName()
}

// FieldDescriptor is one named, positioned field of a record. Fields are
// nullable unless NotNull is set.
type FieldDescriptor struct {
	Name     string
	Position int
	Type     TypeInfo
	NotNull  bool
}

// NewField returns a descriptor for a field; its position is assigned by
// NewRecordDescriptor.
func NewField(name string, t TypeInfo) FieldDescriptor {
	return FieldDescriptor{Name: name, Type: t}
}

// RecordDescriptor is an ordered sequence of fields. The order is fixed at
// construction and determines container slot layout.
type RecordDescriptor struct {
	fields []FieldDescriptor
}

// NewRecordDescriptor assigns positions in argument order. Field names must be
// non-empty and unique under case folding.
func NewRecordDescriptor(fields ...FieldDescriptor) (*RecordDescriptor, error) {
	seen := make(map[string]int, len(fields))
	rd := &RecordDescriptor{fields: make([]FieldDescriptor, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			return nil, rowerrors.Newf(rowerrors.ErrorTypeValidation, "field %d has an empty name", i)
		}
		key := strings.ToLower(f.Name)
		if prev, ok := seen[key]; ok {
			return nil, rowerrors.Newf(rowerrors.ErrorTypeValidation, "duplicate field name %q", f.Name).
				WithDetail("first_position", prev).
				WithDetail("position", i)
		}
		seen[key] = i
		f.Position = i
		rd.fields[i] = f
	}
	return rd, nil
}

// NumFields returns the number of fields.
func (rd *RecordDescriptor) NumFields() int {
	return len(rd.fields)
}

// Field returns the field at position i.
func (rd *RecordDescriptor) Field(i int) FieldDescriptor {
	return rd.fields[i]
}

// Fields returns a copy of the fields in declared order.
func (rd *RecordDescriptor) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(rd.fields))
	copy(out, rd.fields)
	return out
}

// FieldTypes returns the type of each field in declared order.
func (rd *RecordDescriptor) FieldTypes() []TypeInfo {
	out := make([]TypeInfo, len(rd.fields))
	for i, f := range rd.fields {
		out[i] = f.Type
	}
	return out
}

// FieldIndex finds a field by case-insensitive name.
func (rd *RecordDescriptor) FieldIndex(name string) (int, bool) {
	for i, f := range rd.fields {
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return -1, false
}

func (rd *RecordDescriptor) String() string {
	return "struct<" + stringpool.Join(len(rd.fields), ",", func(i int) string {
		return rd.fields[i].Name + ":" + rd.fields[i].Type.String()
	}) + ">"
}
