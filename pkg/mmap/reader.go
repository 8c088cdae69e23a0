// Package mmap maps local Arrow files into memory so the IPC file reader can
// seek through them without copying.
package mmap

import (
	"io"
	"os"
	"sync"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// Reader is a read-only memory-mapped file. It implements io.ReaderAt and is
// safe for concurrent reads until Close.
type Reader struct {
	file *os.File
	data []byte

	mu     sync.RWMutex
	closed bool
}

var _ io.ReaderAt = (*Reader)(nil)

// Open maps the whole of path. Empty files cannot be mapped.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to open file").WithDetail("path", path)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to stat file").WithDetail("path", path)
	}
	if stat.Size() == 0 {
		file.Close()
		return nil, rowerrors.New(rowerrors.ErrorTypeFile, "file is empty").WithDetail("path", path)
	}

	data, err := mmap(int(file.Fd()), 0, int(stat.Size()), ProtRead, MapShared)
	if err != nil {
		file.Close()
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to mmap file").WithDetail("path", path)
	}

	// Advisory only; the mapping works either way.
	_ = madvise(data, MadvWillneed)

	return &Reader{file: file, data: data}, nil
}

// Size returns the mapped length in bytes.
func (r *Reader) Size() int64 {
	return int64(len(r.data))
}

// Bytes returns the mapping itself. It must not be used after Close.
func (r *Reader) Bytes() []byte {
	return r.data
}

// ReadAt copies from the mapping at off.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, rowerrors.Newf(rowerrors.ErrorTypeValidation, "negative offset %d", off)
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file and closes it.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	err := munmap(r.data)
	r.data = nil
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to unmap file")
	}
	return nil
}
