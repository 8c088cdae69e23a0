// Package json provides JSON serialization for row output
package json

import (
	gojson "github.com/goccy/go-json"
)

// Marshal marshals a value using goccy/go-json
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// MarshalIndent marshals a value with indentation
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// ObjectWriter builds one JSON object field by field, preserving field order.
// The buffer is reused across objects after Reset.
type ObjectWriter struct {
	buffer []byte
	fields int
}

// NewObjectWriter creates a writer with initialSize bytes of capacity.
func NewObjectWriter(initialSize int) *ObjectWriter {
	return &ObjectWriter{buffer: make([]byte, 0, initialSize)}
}

// WriteField appends "key":value. Keys are escaped like any JSON string.
func (w *ObjectWriter) WriteField(key string, value interface{}) error {
	keyData, err := Marshal(key)
	if err != nil {
		return err
	}
	data, err := Marshal(value)
	if err != nil {
		return err
	}

	if w.fields == 0 {
		w.buffer = append(w.buffer, '{')
	} else {
		w.buffer = append(w.buffer, ',')
	}
	w.buffer = append(w.buffer, keyData...)
	w.buffer = append(w.buffer, ':')
	w.buffer = append(w.buffer, data...)
	w.fields++
	return nil
}

// Bytes closes the object and returns it. The slice is valid until Reset.
func (w *ObjectWriter) Bytes() []byte {
	if w.fields == 0 {
		return []byte("{}")
	}
	return append(w.buffer, '}')
}

// Reset resets the writer for reuse
func (w *ObjectWriter) Reset() {
	w.buffer = w.buffer[:0]
	w.fields = 0
}
