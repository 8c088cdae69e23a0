package rowcell

import (
	"strconv"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
)

// Kind identifies the storage shape of a cell. Several element types share a
// kind: unsigned integers use their signed counterpart and every string or
// binary variant uses KindText.
type Kind int

const (
	KindBoolean Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindText
)

var kindNames = [...]string{
	KindBoolean: "boolean",
	KindByte:    "tinyint",
	KindShort:   "smallint",
	KindInt:     "int",
	KindLong:    "bigint",
	KindFloat:   "float",
	KindDouble:  "double",
	KindText:    "string",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return stringpool.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Cell is a mutable scalar wrapper holding one field value of one row.
type Cell interface {
	Kind() Kind
	// Interface returns the stored value as a plain Go value.
	Interface() any
	String() string
}

// NewCell allocates a zero-valued cell of kind k.
func NewCell(k Kind) Cell {
	switch k {
	case KindBoolean:
		return &BooleanCell{}
	case KindByte:
		return &ByteCell{}
	case KindShort:
		return &ShortCell{}
	case KindInt:
		return &IntCell{}
	case KindLong:
		return &LongCell{}
	case KindFloat:
		return &FloatCell{}
	case KindDouble:
		return &DoubleCell{}
	case KindText:
		return &TextCell{}
	default:
		return nil
	}
}

// assign copies the value of src into dst. Both must be the same concrete
// cell type.
func assign(dst, src Cell) *rowerrors.Error {
	switch s := src.(type) {
	case *BooleanCell:
		if d, ok := dst.(*BooleanCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *ByteCell:
		if d, ok := dst.(*ByteCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *ShortCell:
		if d, ok := dst.(*ShortCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *IntCell:
		if d, ok := dst.(*IntCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *LongCell:
		if d, ok := dst.(*LongCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *FloatCell:
		if d, ok := dst.(*FloatCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *DoubleCell:
		if d, ok := dst.(*DoubleCell); ok {
			d.Set(s.Get())
			return nil
		}
	case *TextCell:
		if d, ok := dst.(*TextCell); ok {
			d.SetBytes(s.Bytes())
			return nil
		}
	}
	return mismatch(dst, src, "cell")
}

type BooleanCell struct{ v bool }

func NewBooleanCell(v bool) *BooleanCell { return &BooleanCell{v: v} }
func (c *BooleanCell) Set(v bool) { c.v = v }
func (c *BooleanCell) Get() bool { return c.v }
func (c *BooleanCell) Kind() Kind { return KindBoolean }
func (c *BooleanCell) Interface() any { return c.v }
func (c *BooleanCell) String() string { return strconv.FormatBool(c.v) }

type ByteCell struct{ v int8 }

func NewByteCell(v int8) *ByteCell { return &ByteCell{v: v} }
func (c *ByteCell) Set(v int8) { c.v = v }
func (c *ByteCell) Get() int8 { return c.v }
func (c *ByteCell) Kind() Kind { return KindByte }
func (c *ByteCell) Interface() any { return c.v }
func (c *ByteCell) String() string { return strconv.FormatInt(int64(c.v), 10) }

type ShortCell struct{ v int16 }

func NewShortCell(v int16) *ShortCell { return &ShortCell{v: v} }
func (c *ShortCell) Set(v int16) { c.v = v }
func (c *ShortCell) Get() int16 { return c.v }
func (c *ShortCell) Kind() Kind { return KindShort }
func (c *ShortCell) Interface() any { return c.v }
func (c *ShortCell) String() string { return strconv.FormatInt(int64(c.v), 10) }

type IntCell struct{ v int32 }

func NewIntCell(v int32) *IntCell { return &IntCell{v: v} }
func (c *IntCell) Set(v int32) { c.v = v }
func (c *IntCell) Get() int32 { return c.v }
func (c *IntCell) Kind() Kind { return KindInt }
func (c *IntCell) Interface() any { return c.v }
func (c *IntCell) String() string { return strconv.FormatInt(int64(c.v), 10) }

type LongCell struct{ v int64 }

func NewLongCell(v int64) *LongCell { return &LongCell{v: v} }
func (c *LongCell) Set(v int64) { c.v = v }
func (c *LongCell) Get() int64 { return c.v }
func (c *LongCell) Kind() Kind { return KindLong }
func (c *LongCell) Interface() any { return c.v }
func (c *LongCell) String() string { return strconv.FormatInt(c.v, 10) }

type FloatCell struct{ v float32 }

func NewFloatCell(v float32) *FloatCell { return &FloatCell{v: v} }
func (c *FloatCell) Set(v float32) { c.v = v }
func (c *FloatCell) Get() float32 { return c.v }
func (c *FloatCell) Kind() Kind { return KindFloat }
func (c *FloatCell) Interface() any { return c.v }
func (c *FloatCell) String() string { return strconv.FormatFloat(float64(c.v), 'g', -1, 32) }

type DoubleCell struct{ v float64 }

func NewDoubleCell(v float64) *DoubleCell { return &DoubleCell{v: v} }
func (c *DoubleCell) Set(v float64) { c.v = v }
func (c *DoubleCell) Get() float64 { return c.v }
func (c *DoubleCell) Kind() Kind { return KindDouble }
func (c *DoubleCell) Interface() any { return c.v }
func (c *DoubleCell) String() string { return strconv.FormatFloat(c.v, 'g', -1, 64) }

// TextCell holds string and binary values as bytes. Its buffer is owned by the
// cell and reused across Set calls, so values read from Arrow memory are copied.
type TextCell struct{ buf []byte }

func NewTextCell(s string) *TextCell {
	c := &TextCell{}
	c.Set(s)
	return c
}

func (c *TextCell) Set(s string) { c.buf = append(c.buf[:0], s...) }
func (c *TextCell) SetBytes(b []byte) { c.buf = append(c.buf[:0], b...) }
func (c *TextCell) Get() string { return string(c.buf) }
func (c *TextCell) Kind() Kind { return KindText }
func (c *TextCell) Interface() any { return string(c.buf) }
func (c *TextCell) String() string { return string(c.buf) }

// Bytes returns the cell's buffer. It is only valid until the next Set.
func (c *TextCell) Bytes() []byte { return c.buf }

// Len returns the length of the stored value in bytes.
func (c *TextCell) Len() int { return len(c.buf) }
