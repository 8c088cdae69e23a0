package rowcell

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func buildRecord(t *testing.T, pool memory.Allocator) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "payload", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "counter", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2, 3}, []bool{true, false, true})
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"alpha", "beta", ""}, []bool{true, true, false})
	b.Field(2).(*array.BinaryBuilder).AppendValues([][]byte{[]byte("p1"), nil, []byte("p3")}, []bool{true, false, true})
	b.Field(3).(*array.Uint64Builder).AppendValues([]uint64{10, 1 << 63, 30}, nil)
	b.Field(4).(*array.BooleanBuilder).AppendValues([]bool{true, false, true}, nil)

	return b.NewRecord()
}

func TestArrowAccessors_PopulateFromRecord(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	rec := buildRecord(t, pool)
	defer rec.Release()

	c, err := NewReadContainerFromArrow(rec.Schema())
	require.NoError(t, err)
	cols, err := AccessorsFor(rec)
	require.NoError(t, err)
	require.Len(t, cols, 5)

	require.NoError(t, c.Populate(cols, 0))
	assert.Equal(t, int32(1), c.Value(0).(*IntCell).Get())
	assert.Equal(t, "alpha", c.Value(1).(*TextCell).Get())
	assert.Equal(t, "p1", c.Value(2).(*TextCell).Get())
	assert.Equal(t, int64(10), c.Value(3).(*LongCell).Get())
	assert.True(t, c.Value(4).(*BooleanCell).Get())

	require.NoError(t, c.Populate(cols, 1))
	assert.Nil(t, c.Value(0))
	assert.Equal(t, "beta", c.Value(1).(*TextCell).Get())
	assert.Nil(t, c.Value(2))
	assert.Equal(t, int64(-1<<63), c.Value(3).(*LongCell).Get())
	assert.False(t, c.Value(4).(*BooleanCell).Get())

	require.NoError(t, c.Populate(cols, 2))
	assert.Equal(t, int32(3), c.Value(0).(*IntCell).Get())
	assert.Nil(t, c.Value(1))
	assert.Equal(t, "p3", c.Value(2).(*TextCell).Get())

	err = c.Populate(cols, 3)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeValidation))
}

func TestNewArrowAccessor_AllArrays(t *testing.T) {
	pool := memory.NewGoAllocator()

	tests := []struct {
		name     string
		buildArr func() arrow.Array
		expected any
	}{
		{"int8", func() arrow.Array {
			b := array.NewInt8Builder(pool)
			defer b.Release()
			b.Append(-8)
			return b.NewArray()
		}, int8(-8)},
		{"int16", func() arrow.Array {
			b := array.NewInt16Builder(pool)
			defer b.Release()
			b.Append(16)
			return b.NewArray()
		}, int16(16)},
		{"uint32", func() arrow.Array {
			b := array.NewUint32Builder(pool)
			defer b.Release()
			b.Append(32)
			return b.NewArray()
		}, uint32(32)},
		{"int64", func() arrow.Array {
			b := array.NewInt64Builder(pool)
			defer b.Release()
			b.Append(64)
			return b.NewArray()
		}, int64(64)},
		{"float32", func() arrow.Array {
			b := array.NewFloat32Builder(pool)
			defer b.Release()
			b.Append(0.5)
			return b.NewArray()
		}, float32(0.5)},
		{"float64", func() arrow.Array {
			b := array.NewFloat64Builder(pool)
			defer b.Release()
			b.Append(0.25)
			return b.NewArray()
		}, 0.25},
		{"large string", func() arrow.Array {
			b := array.NewLargeStringBuilder(pool)
			defer b.Release()
			b.Append("large")
			return b.NewArray()
		}, "large"},
		{"large binary", func() arrow.Array {
			b := array.NewBinaryBuilder(pool, arrow.BinaryTypes.LargeBinary)
			defer b.Release()
			b.Append([]byte("lb"))
			return b.NewArray()
		}, []byte("lb")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := tt.buildArr()
			defer arr.Release()

			acc, err := NewArrowAccessor(arr)
			require.NoError(t, err)
			assert.Equal(t, 1, acc.Len())
			assert.False(t, acc.IsNull(0))
			assert.Equal(t, tt.expected, acc.ObjectAt(0))
		})
	}
}

func TestNewArrowAccessor_Unsupported(t *testing.T) {
	arr := array.NewNull(2)
	defer arr.Release()

	acc, err := NewArrowAccessor(arr)
	assert.Nil(t, acc)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))
}

func TestNewReadContainerFromArrow_Unsupported(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "ok", Type: arrow.PrimitiveTypes.Int32},
		{Name: "ts", Type: arrow.FixedWidthTypes.Timestamp_us},
	}, nil)

	c, err := NewReadContainerFromArrow(schema)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeUnsupportedType))
	assert.Contains(t, err.Error(), "ts")
}

func TestSliceAccessor(t *testing.T) {
	acc := SliceAccessor{1, nil}
	assert.Equal(t, 2, acc.Len())
	assert.False(t, acc.IsNull(0))
	assert.True(t, acc.IsNull(1))
	assert.Equal(t, 1, acc.ObjectAt(0))
}
