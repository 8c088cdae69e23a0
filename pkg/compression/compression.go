// Package compression wraps compressed Arrow inputs and row outputs in
// streaming decoders and encoders.
//
// # Algorithm Selection
//
// The algorithm of an input is detected from its file extension:
//
//	.zst .zstd        Zstd
//	.lz4              LZ4 (frame format)
//	.sz .snappy       Snappy (framed format)
//	.s2               S2
//	.gz .gzip         Gzip
//	.deflate          Deflate
//
// Anything else is read as-is.
//
// # Basic Usage
//
//	algo := compression.DetectFromPath(path)
//	r, err := compression.NewReader(algo, f)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
package compression

import (
	"compress/flate"
	"compress/gzip"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents raw deflate compression
	Deflate Algorithm = "deflate"
)

var extensions = map[string]Algorithm{
	".zst":     Zstd,
	".zstd":    Zstd,
	".lz4":     LZ4,
	".sz":      Snappy,
	".snappy":  Snappy,
	".s2":      S2,
	".gz":      Gzip,
	".gzip":    Gzip,
	".deflate": Deflate,
}

// DetectFromPath returns the algorithm implied by the extension of p, or None.
// p may be a local path or an object URL.
func DetectFromPath(p string) Algorithm {
	if algo, ok := extensions[strings.ToLower(path.Ext(p))]; ok {
		return algo
	}
	return None
}

// Parse converts a configured algorithm name. The empty string means None.
func Parse(name string) (Algorithm, error) {
	algo := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	switch algo {
	case "":
		return None, nil
	case None, Gzip, Snappy, LZ4, Zstd, S2, Deflate:
		return algo, nil
	default:
		return None, rowerrors.New(rowerrors.ErrorTypeConfig, "unsupported compression algorithm: "+name)
	}
}

// NewReader returns a decompressing reader over r. Closing it releases the
// decoder but never closes r.
func NewReader(algo Algorithm, r io.Reader) (io.ReadCloser, error) {
	switch algo {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to open gzip stream")
		}
		return zr, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to open zstd stream")
		}
		return dec.IOReadCloser(), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case Deflate:
		return flate.NewReader(r), nil
	default:
		return nil, rowerrors.New(rowerrors.ErrorTypeConfig, "unsupported compression algorithm: "+string(algo))
	}
}

// NewWriter returns a compressing writer over w. Close flushes the encoder but
// never closes w.
func NewWriter(algo Algorithm, w io.Writer) (io.WriteCloser, error) {
	switch algo {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to create zstd encoder")
		}
		return enc, nil
	case S2:
		return s2.NewWriter(w), nil
	case Deflate:
		fw, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to create deflate encoder")
		}
		return fw, nil
	default:
		return nil, rowerrors.New(rowerrors.ErrorTypeConfig, "unsupported compression algorithm: "+string(algo))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
