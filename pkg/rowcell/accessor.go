package rowcell

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// ColumnAccessor reads single values out of one column of a columnar batch.
// The container borrows accessors for the duration of a Populate call.
type ColumnAccessor interface {
	Len() int
	IsNull(row int) bool
	// ObjectAt returns the raw value at row as a native Go value.
	ObjectAt(row int) any
}

type valueArray[T any] interface {
	arrow.Array
	Value(int) T
}

type arrowAccessor[T any, A valueArray[T]] struct {
	arr A
}

func (a arrowAccessor[T, A]) Len() int { return a.arr.Len() }
func (a arrowAccessor[T, A]) IsNull(row int) bool { return a.arr.IsNull(row) }
func (a arrowAccessor[T, A]) ObjectAt(row int) any { return a.arr.Value(row) }

// NewArrowAccessor wraps an Arrow array. String arrays yield string values and
// binary arrays yield []byte slices that alias Arrow memory.
func NewArrowAccessor(arr arrow.Array) (ColumnAccessor, error) {
	switch a := arr.(type) {
	case *array.Boolean:
		return arrowAccessor[bool, *array.Boolean]{arr: a}, nil
	case *array.Int8:
		return arrowAccessor[int8, *array.Int8]{arr: a}, nil
	case *array.Int16:
		return arrowAccessor[int16, *array.Int16]{arr: a}, nil
	case *array.Int32:
		return arrowAccessor[int32, *array.Int32]{arr: a}, nil
	case *array.Uint32:
		return arrowAccessor[uint32, *array.Uint32]{arr: a}, nil
	case *array.Int64:
		return arrowAccessor[int64, *array.Int64]{arr: a}, nil
	case *array.Uint64:
		return arrowAccessor[uint64, *array.Uint64]{arr: a}, nil
	case *array.Float32:
		return arrowAccessor[float32, *array.Float32]{arr: a}, nil
	case *array.Float64:
		return arrowAccessor[float64, *array.Float64]{arr: a}, nil
	case *array.String:
		return arrowAccessor[string, *array.String]{arr: a}, nil
	case *array.LargeString:
		return arrowAccessor[string, *array.LargeString]{arr: a}, nil
	case *array.Binary:
		return arrowAccessor[[]byte, *array.Binary]{arr: a}, nil
	case *array.LargeBinary:
		return arrowAccessor[[]byte, *array.LargeBinary]{arr: a}, nil
	default:
		return nil, unsupportedType(arr.DataType().String())
	}
}

// AccessorsFor wraps every column of rec, in column order.
func AccessorsFor(rec arrow.Record) ([]ColumnAccessor, error) {
	cols := make([]ColumnAccessor, rec.NumCols())
	for i := range cols {
		acc, err := NewArrowAccessor(rec.Column(i))
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeUnsupportedType, "unsupported column "+rec.ColumnName(i)).
				WithDetail("position", i)
		}
		cols[i] = acc
	}
	return cols, nil
}

// SliceAccessor is an in-memory column; a nil entry is a null.
type SliceAccessor []any

func (s SliceAccessor) Len() int { return len(s) }
func (s SliceAccessor) IsNull(row int) bool { return s[row] == nil }
func (s SliceAccessor) ObjectAt(row int) any { return s[row] }
