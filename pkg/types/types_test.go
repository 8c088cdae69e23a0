package types

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func TestElementTypeNames(t *testing.T) {
	assert.Equal(t, "unknown", ElementTypeUnknown.String())
	assert.Equal(t, "uint64", ElementTypeUInt64.String())
	assert.Equal(t, "ElementType(99)", ElementType(99).String())

	assert.False(t, ElementTypeUnknown.Valid())
	assert.False(t, ElementType(99).Valid())
	for _, et := range ElementTypes() {
		assert.True(t, et.Valid(), et.String())
	}
	assert.True(t, ElementTypeVarBinary.IsBinary())
	assert.True(t, ElementTypeLargeVarBinary.IsBinary())
	assert.False(t, ElementTypeVarString.IsBinary())

	// unsigned and large variants share the host name of their counterpart
	assert.Equal(t, ElementTypeInt32.HiveName(), ElementTypeUInt32.HiveName())
	assert.Equal(t, ElementTypeInt64.HiveName(), ElementTypeUInt64.HiveName())
	assert.Equal(t, ElementTypeVarString.HiveName(), ElementTypeLargeVarString.HiveName())
	assert.Equal(t, ElementTypeVarBinary.HiveName(), ElementTypeLargeVarBinary.HiveName())
}

func TestNewRecordDescriptor(t *testing.T) {
	rd, err := NewRecordDescriptor(
		NewField("Name", Primitive(ElementTypeVarString)),
		NewField("age", Primitive(ElementTypeInt32)),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, rd.NumFields())
	assert.Equal(t, 0, rd.Field(0).Position)
	assert.Equal(t, 1, rd.Field(1).Position)
	assert.Equal(t, "struct<Name:string,age:int>", rd.String())

	idx, ok := rd.FieldIndex("NAME")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = rd.FieldIndex("missing")
	assert.False(t, ok)
}

func TestNewRecordDescriptorRejectsDuplicates(t *testing.T) {
	_, err := NewRecordDescriptor(
		NewField("id", Primitive(ElementTypeInt64)),
		NewField("ID", Primitive(ElementTypeInt32)),
	)
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeValidation))

	_, err = NewRecordDescriptor(NewField("", Primitive(ElementTypeInt64)))
	require.Error(t, err)
}

func TestEmptyRecordDescriptor(t *testing.T) {
	rd, err := NewRecordDescriptor()
	require.NoError(t, err)
	assert.Equal(t, 0, rd.NumFields())
	assert.Equal(t, "struct<>", rd.String())
}

func TestParseTypeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"int", "int"},
		{"BIGINT", "bigint"},
		{"varchar(32)", "string"},
		{"struct<>", "struct<>"},
		{"struct<a:int,b:string>", "struct<a:int,b:string>"},
		{"STRUCT< a : tinyint , b : smallint >", "struct<a:tinyint,b:smallint>"},
		{"struct<id:bigint,loc:struct<lat:double,lon:double>,raw:binary>",
			"struct<id:bigint,loc:struct<lat:double,lon:double>,raw:binary>"},
		{"struct<`order`:boolean>", "struct<order:boolean>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ti, err := ParseTypeString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ti.String())
		})
	}
}

func TestParseTypeStringErrors(t *testing.T) {
	_, err := ParseTypeString("map<string,int>")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))

	_, err = ParseTypeString("struct<a:decimal>")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))

	for _, bad := range []string{"", "struct<a int>", "struct<a:int", "int extra", "struct<a:int,a:int>"} {
		_, err := ParseTypeString(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRecordDescriptor(t *testing.T) {
	rd, err := ParseRecordDescriptor("struct<a:int,b:struct<c:float>>")
	require.NoError(t, err)
	require.Equal(t, 2, rd.NumFields())

	nested := rd.Field(1).Type
	assert.Equal(t, CategoryStruct, nested.Category)
	require.NotNil(t, nested.Struct)
	assert.Equal(t, ElementTypeFloat32, nested.Struct.Field(0).Type.Element)

	_, err = ParseRecordDescriptor("int")
	assert.Error(t, err)
}

func TestFromArrowSchema(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "i8", Type: arrow.PrimitiveTypes.Int8},
		{Name: "i16", Type: arrow.PrimitiveTypes.Int16},
		{Name: "i32", Type: arrow.PrimitiveTypes.Int32},
		{Name: "u32", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "i64", Type: arrow.PrimitiveTypes.Int64},
		{Name: "u64", Type: arrow.PrimitiveTypes.Uint64},
		{Name: "f32", Type: arrow.PrimitiveTypes.Float32},
		{Name: "f64", Type: arrow.PrimitiveTypes.Float64},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "ls", Type: arrow.BinaryTypes.LargeString},
		{Name: "b", Type: arrow.BinaryTypes.Binary},
		{Name: "lb", Type: arrow.BinaryTypes.LargeBinary},
		{Name: "nested", Type: arrow.StructOf(
			arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int32},
			arrow.Field{Name: "y", Type: arrow.BinaryTypes.String, Nullable: true},
		)},
	}, nil)

	rd, err := FromArrowSchema(schema)
	require.NoError(t, err)

	want := append(ElementTypes(), ElementTypeUnknown)
	require.Equal(t, len(want), rd.NumFields())
	for i, et := range want[:len(want)-1] {
		assert.Equal(t, et, rd.Field(i).Type.Element, rd.Field(i).Name)
	}
	assert.Equal(t, CategoryStruct, rd.Field(13).Type.Category)

	back, err := ToArrowSchema(rd)
	require.NoError(t, err)
	for i, f := range schema.Fields() {
		assert.True(t, arrow.TypeEqual(f.Type, back.Field(i).Type), f.Name)
		assert.Equal(t, f.Nullable, back.Field(i).Nullable, f.Name)
	}
	assert.True(t, rd.Field(0).NotNull)
	assert.False(t, rd.Field(9).NotNull)
}

func TestToArrowSchemaDefaultsToNullable(t *testing.T) {
	rd, err := ParseRecordDescriptor("struct<a:int,b:struct<c:string>>")
	require.NoError(t, err)

	schema, err := ToArrowSchema(rd)
	require.NoError(t, err)
	require.Equal(t, 2, schema.NumFields())
	for _, f := range schema.Fields() {
		assert.True(t, f.Nullable, f.Name)
	}
	nested := schema.Field(1).Type.(*arrow.StructType)
	assert.True(t, nested.Field(0).Nullable)
}

func TestFromArrowSchemaUnsupported(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "ok", Type: arrow.PrimitiveTypes.Int32},
		{Name: "ts", Type: arrow.FixedWidthTypes.Timestamp_us},
	}, nil)

	_, err := FromArrowSchema(schema)
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))
}

func TestToArrowTypeUnknown(t *testing.T) {
	_, err := ToArrowType(Primitive(ElementTypeUnknown))
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))
}
