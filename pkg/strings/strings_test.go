package strings

import (
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected empty builder after reset, got %d", builder.Len())
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf("%s:%d", "field", 3)
	if got != "field:3" {
		t.Errorf("expected 'field:3', got '%s'", got)
	}

	if Sprintf("plain") != "plain" {
		t.Errorf("expected format to pass through without args")
	}
}

func TestJoin(t *testing.T) {
	items := []string{"int", "string", "bigint"}
	got := Join(len(items), ",", func(i int) string { return items[i] })
	if got != "int,string,bigint" {
		t.Errorf("expected 'int,string,bigint', got '%s'", got)
	}

	if Join(0, ",", nil) != "" {
		t.Errorf("expected empty join for zero items")
	}
}

func TestValueToString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{int32(-7), "-7"},
		{int64(42), "42"},
		{uint32(7), "7"},
		{float32(1.5), "1.5"},
		{float64(2.25), "2.25"},
		{true, "true"},
		{[]byte("raw"), "raw"},
	}

	for _, tt := range tests {
		if got := ValueToString(tt.in); got != tt.want {
			t.Errorf("ValueToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
