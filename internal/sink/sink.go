// Package sink writes scanned rows out as JSON lines or tab-separated text.
package sink

import (
	"bufio"
	"io"
	"strings"

	"github.com/ajitpratap0/rowbridge/pkg/inspector"
	jsonpool "github.com/ajitpratap0/rowbridge/pkg/json"
	"github.com/ajitpratap0/rowbridge/pkg/rowcell"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

// Sink receives rows in scan order. values[i] belongs to fields[i]; a nil
// value is a null. Values are only valid for the duration of the call.
type Sink interface {
	WriteRow(fields []*inspector.StructField, values []any) error
	Flush() error
}

// New returns the sink for format, "json" or "text".
func New(format string, w io.Writer) (Sink, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return NewJSONSink(w), nil
	case "text":
		return NewTextSink(w), nil
	default:
		return nil, rowerrors.New(rowerrors.ErrorTypeConfig, "unsupported output format: "+format)
	}
}

// native unwraps cells into plain Go values following the declared type t.
// Binary values become []byte, which JSON encodes as base64.
func native(v any, t types.TypeInfo) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *rowcell.TextCell:
		if t.Category == types.CategoryPrimitive && t.Element.IsBinary() {
			if b := val.Bytes(); b != nil {
				return b
			}
			return []byte{}
		}
		return val.Get()
	case rowcell.Cell:
		return val.Interface()
	case rowcell.FieldContainer:
		values := val.Values()
		out := make([]any, len(values))
		for i, inner := range values {
			var it types.TypeInfo
			if t.Struct != nil && i < t.Struct.NumFields() {
				it = t.Struct.Field(i).Type
			}
			out[i] = native(inner, it)
		}
		return out
	default:
		return val
	}
}

// JSONSink writes one JSON object per row, keyed by field name. Binary fields
// are written as base64 strings.
type JSONSink struct {
	w   *bufio.Writer
	obj *jsonpool.ObjectWriter
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: bufio.NewWriter(w), obj: jsonpool.NewObjectWriter(256)}
}

func (s *JSONSink) WriteRow(fields []*inspector.StructField, values []any) error {
	s.obj.Reset()
	for i, f := range fields {
		if err := s.obj.WriteField(f.FieldName(), native(values[i], f.Type)); err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to encode field "+f.FieldName())
		}
	}
	if _, err := s.w.Write(s.obj.Bytes()); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to write row")
	}
	return s.w.WriteByte('\n')
}

func (s *JSONSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to flush output")
	}
	return nil
}

// nullMarker is written for null fields in text output.
const nullMarker = `\N`

var textEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// TextSink writes tab-separated field renderings, one row per line. Nulls are
// written as \N; backslashes, tabs and line breaks inside values are escaped.
// Binary values are written as their raw bytes.
type TextSink struct {
	w *bufio.Writer
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

func (s *TextSink) WriteRow(fields []*inspector.StructField, values []any) error {
	line := stringpool.Join(len(fields), "\t", func(i int) string {
		if values[i] == nil {
			return nullMarker
		}
		return textEscaper.Replace(stringpool.ValueToString(values[i]))
	})
	if _, err := s.w.WriteString(line); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to write row")
	}
	return s.w.WriteByte('\n')
}

func (s *TextSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to flush output")
	}
	return nil
}
