package types

import (
	"strings"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

var hiveElementTypes = map[string]ElementType{
	"boolean":  ElementTypeBoolean,
	"tinyint":  ElementTypeInt8,
	"smallint": ElementTypeInt16,
	"int":      ElementTypeInt32,
	"integer":  ElementTypeInt32,
	"bigint":   ElementTypeInt64,
	"float":    ElementTypeFloat32,
	"double":   ElementTypeFloat64,
	"string":   ElementTypeVarString,
	"varchar":  ElementTypeVarString,
	"binary":   ElementTypeVarBinary,
}

// ParseTypeString parses a host engine type string such as
// "struct<id:bigint,name:string,loc:struct<lat:double,lon:double>>".
// Keywords are case-insensitive; field names keep their case.
func ParseTypeString(s string) (TypeInfo, error) {
	p := &typeParser{input: s}
	t, err := p.parseType()
	if err != nil {
		return TypeInfo{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return TypeInfo{}, p.errorf("unexpected trailing input %q", p.input[p.pos:])
	}
	return t, nil
}

// ParseRecordDescriptor parses a struct type string into its record descriptor.
func ParseRecordDescriptor(s string) (*RecordDescriptor, error) {
	t, err := ParseTypeString(s)
	if err != nil {
		return nil, err
	}
	if t.Category != CategoryStruct {
		return nil, rowerrors.Newf(rowerrors.ErrorTypeValidation, "type %q is not a struct", s)
	}
	return t.Struct, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) errorf(format string, args ...interface{}) *rowerrors.Error {
	return rowerrors.Newf(rowerrors.ErrorTypeValidation, format, args...).
		WithDetail("input", p.input).
		WithDetail("offset", p.pos)
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (p *typeParser) ident() (string, error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '`' {
		end := strings.IndexByte(p.input[p.pos+1:], '`')
		if end < 0 {
			return "", p.errorf("unterminated quoted identifier")
		}
		name := p.input[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return name, nil
	}
	start := p.pos
	for p.pos < len(p.input) && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return "", p.errorf("expected identifier")
	}
	return p.input[start:p.pos], nil
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return p.errorf("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *typeParser) parseType() (TypeInfo, error) {
	name, err := p.ident()
	if err != nil {
		return TypeInfo{}, err
	}
	lower := strings.ToLower(name)
	if lower == "struct" {
		return p.parseStruct()
	}
	if et, ok := hiveElementTypes[lower]; ok {
		// varchar(n) carries a length we do not track
		if lower == "varchar" && p.peek() == '(' {
			end := strings.IndexByte(p.input[p.pos:], ')')
			if end < 0 {
				return TypeInfo{}, p.errorf("unterminated varchar length")
			}
			p.pos += end + 1
		}
		return Primitive(et), nil
	}
	return TypeInfo{}, rowerrors.Newf(rowerrors.ErrorTypeUnsupportedType, "unsupported type: %s", name).
		WithDetail("input", p.input)
}

func (p *typeParser) parseStruct() (TypeInfo, error) {
	if err := p.expect('<'); err != nil {
		return TypeInfo{}, err
	}
	var fields []FieldDescriptor
	if p.peek() == '>' {
		p.pos++
	} else {
		for {
			name, err := p.ident()
			if err != nil {
				return TypeInfo{}, err
			}
			if err := p.expect(':'); err != nil {
				return TypeInfo{}, err
			}
			t, err := p.parseType()
			if err != nil {
				return TypeInfo{}, err
			}
			fields = append(fields, NewField(name, t))

			c := p.peek()
			if c == ',' {
				p.pos++
				continue
			}
			if c == '>' {
				p.pos++
				break
			}
			return TypeInfo{}, p.errorf("expected ',' or '>'")
		}
	}
	rd, err := NewRecordDescriptor(fields...)
	if err != nil {
		return TypeInfo{}, err
	}
	return StructOf(rd), nil
}
