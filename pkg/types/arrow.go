package types

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// ElementTypeFromArrow maps an Arrow type ID to its element type.
func ElementTypeFromArrow(id arrow.Type) (ElementType, error) {
	switch id {
	case arrow.BOOL:
		return ElementTypeBoolean, nil
	case arrow.INT8:
		return ElementTypeInt8, nil
	case arrow.INT16:
		return ElementTypeInt16, nil
	case arrow.INT32:
		return ElementTypeInt32, nil
	case arrow.UINT32:
		return ElementTypeUInt32, nil
	case arrow.INT64:
		return ElementTypeInt64, nil
	case arrow.UINT64:
		return ElementTypeUInt64, nil
	case arrow.FLOAT32:
		return ElementTypeFloat32, nil
	case arrow.FLOAT64:
		return ElementTypeFloat64, nil
	case arrow.STRING:
		return ElementTypeVarString, nil
	case arrow.LARGE_STRING:
		return ElementTypeLargeVarString, nil
	case arrow.BINARY:
		return ElementTypeVarBinary, nil
	case arrow.LARGE_BINARY:
		return ElementTypeLargeVarBinary, nil
	default:
		return ElementTypeUnknown, rowerrors.Newf(rowerrors.ErrorTypeUnsupportedType, "unsupported type: %s", id)
	}
}

// FromArrowType converts an Arrow data type, recursing into struct children.
func FromArrowType(dt arrow.DataType) (TypeInfo, error) {
	if st, ok := dt.(*arrow.StructType); ok {
		rd, err := fromArrowFields(st.Fields())
		if err != nil {
			return TypeInfo{}, err
		}
		return StructOf(rd), nil
	}
	et, err := ElementTypeFromArrow(dt.ID())
	if err != nil {
		return TypeInfo{}, err
	}
	return Primitive(et), nil
}

// FromArrowSchema converts the top-level fields of an Arrow schema.
func FromArrowSchema(schema *arrow.Schema) (*RecordDescriptor, error) {
	return fromArrowFields(schema.Fields())
}

func fromArrowFields(fields []arrow.Field) (*RecordDescriptor, error) {
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		t, err := FromArrowType(f.Type)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeUnsupportedType, "unsupported field "+f.Name).
				WithDetail("position", i)
		}
		out[i] = NewField(f.Name, t)
		out[i].NotNull = !f.Nullable
	}
	return NewRecordDescriptor(out...)
}

// ToArrowType is the inverse of FromArrowType. Nested fields keep the
// nullability recorded on their descriptors.
func ToArrowType(t TypeInfo) (arrow.DataType, error) {
	if t.Category == CategoryStruct {
		if t.Struct == nil {
			return arrow.StructOf(), nil
		}
		fields, err := toArrowFields(t.Struct)
		if err != nil {
			return nil, err
		}
		return arrow.StructOf(fields...), nil
	}
	switch t.Element {
	case ElementTypeBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case ElementTypeInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case ElementTypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case ElementTypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case ElementTypeUInt32:
		return arrow.PrimitiveTypes.Uint32, nil
	case ElementTypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case ElementTypeUInt64:
		return arrow.PrimitiveTypes.Uint64, nil
	case ElementTypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case ElementTypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case ElementTypeVarString:
		return arrow.BinaryTypes.String, nil
	case ElementTypeLargeVarString:
		return arrow.BinaryTypes.LargeString, nil
	case ElementTypeVarBinary:
		return arrow.BinaryTypes.Binary, nil
	case ElementTypeLargeVarBinary:
		return arrow.BinaryTypes.LargeBinary, nil
	default:
		return nil, rowerrors.Newf(rowerrors.ErrorTypeUnsupportedType, "unsupported type: %s", t.Element)
	}
}

// ToArrowSchema builds the Arrow schema for rd. Fields are nullable unless
// marked NotNull.
func ToArrowSchema(rd *RecordDescriptor) (*arrow.Schema, error) {
	fields, err := toArrowFields(rd)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

func toArrowFields(rd *RecordDescriptor) ([]arrow.Field, error) {
	fields := make([]arrow.Field, rd.NumFields())
	for i, f := range rd.fields {
		dt, err := ToArrowType(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: !f.NotNull}
	}
	return fields, nil
}
