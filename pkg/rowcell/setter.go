package rowcell

import (
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

// setter copies a raw column value into a pre-allocated cell after checking
// the runtime types of both.
type setter func(Cell, any) error

func bind[C Cell, V any](set func(C, V)) setter {
	return func(c Cell, v any) error {
		cell, ok := c.(C)
		if !ok {
			var zero C
			return mismatch(zero, c, "cell")
		}
		val, ok := v.(V)
		if !ok {
			var zero V
			return mismatch(zero, v, "value")
		}
		set(cell, val)
		return nil
	}
}

func mismatch(expected, actual any, what string) *rowerrors.Error {
	return rowerrors.Newf(rowerrors.ErrorTypeTypeMismatch, "%s type mismatch: expected %T, got %T", what, expected, actual).
		WithDetail("expected", typeName(expected)).
		WithDetail("actual", typeName(actual))
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return stringpool.Sprintf("%T", v)
}

var (
	setBoolean = bind(func(c *BooleanCell, v bool) { c.Set(v) })
	setInt8    = bind(func(c *ByteCell, v int8) { c.Set(v) })
	setInt16   = bind(func(c *ShortCell, v int16) { c.Set(v) })
	setInt32   = bind(func(c *IntCell, v int32) { c.Set(v) })
	setUInt32  = bind(func(c *IntCell, v uint32) { c.Set(int32(v)) })
	setInt64   = bind(func(c *LongCell, v int64) { c.Set(v) })
	setUInt64  = bind(func(c *LongCell, v uint64) { c.Set(int64(v)) })
	setFloat32 = bind(func(c *FloatCell, v float32) { c.Set(v) })
	setFloat64 = bind(func(c *DoubleCell, v float64) { c.Set(v) })
)

func setText(c Cell, v any) error {
	cell, ok := c.(*TextCell)
	if !ok {
		return mismatch((*TextCell)(nil), c, "cell")
	}
	switch s := v.(type) {
	case string:
		cell.Set(s)
	case []byte:
		cell.SetBytes(s)
	default:
		return mismatch("", v, "value")
	}
	return nil
}

var elementKinds = [...]Kind{
	types.ElementTypeBoolean:        KindBoolean,
	types.ElementTypeInt8:           KindByte,
	types.ElementTypeInt16:          KindShort,
	types.ElementTypeInt32:          KindInt,
	types.ElementTypeUInt32:         KindInt,
	types.ElementTypeInt64:          KindLong,
	types.ElementTypeUInt64:         KindLong,
	types.ElementTypeFloat32:        KindFloat,
	types.ElementTypeFloat64:        KindDouble,
	types.ElementTypeVarString:      KindText,
	types.ElementTypeLargeVarString: KindText,
	types.ElementTypeVarBinary:      KindText,
	types.ElementTypeLargeVarBinary: KindText,
}

// Unsigned and large element types get their own setter but share the cell
// kind of their signed or short counterpart.
var elementSetters = [...]setter{
	types.ElementTypeBoolean:        setBoolean,
	types.ElementTypeInt8:           setInt8,
	types.ElementTypeInt16:          setInt16,
	types.ElementTypeInt32:          setInt32,
	types.ElementTypeUInt32:         setUInt32,
	types.ElementTypeInt64:          setInt64,
	types.ElementTypeUInt64:         setUInt64,
	types.ElementTypeFloat32:        setFloat32,
	types.ElementTypeFloat64:        setFloat64,
	types.ElementTypeVarString:      setText,
	types.ElementTypeLargeVarString: setText,
	types.ElementTypeVarBinary:      setText,
	types.ElementTypeLargeVarBinary: setText,
}

// KindOf returns the cell kind that stores et.
func KindOf(et types.ElementType) (Kind, error) {
	if !et.Valid() {
		return 0, unsupportedType(et.String())
	}
	return elementKinds[et], nil
}

// classify allocates the cell for et and binds the setter that fills it.
func classify(et types.ElementType) (Cell, setter, error) {
	k, err := KindOf(et)
	if err != nil {
		return nil, nil, err
	}
	return NewCell(k), elementSetters[et], nil
}

func unsupportedType(name string) *rowerrors.Error {
	return rowerrors.New(rowerrors.ErrorTypeUnsupportedType, "unsupported type: "+name)
}
