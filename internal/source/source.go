// Package source opens Arrow inputs from local files, stdin, S3 and GCS, and
// undoes any stream compression on the way.
package source

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rowbridge/pkg/compression"
	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/logger"
	"github.com/ajitpratap0/rowbridge/pkg/mmap"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// Arrow IPC formats.
const (
	FormatStream = "stream"
	FormatFile   = "file"
)

// fileMagic opens every Arrow IPC file.
var fileMagic = []byte("ARROW1")

// Location is a parsed source location.
type Location struct {
	Scheme string // "", "s3" or "gs"
	Bucket string
	Key    string
	Path   string // local path, or "-" for stdin
}

// ParseLocation splits s3://bucket/key and gs://bucket/object URLs. Anything
// else is a local path.
func ParseLocation(raw string) (Location, error) {
	for _, scheme := range []string{"s3", "gs"} {
		prefix := scheme + "://"
		if !strings.HasPrefix(raw, prefix) {
			continue
		}
		bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, prefix), "/")
		if !ok || bucket == "" || key == "" {
			return Location{}, rowerrors.New(rowerrors.ErrorTypeConfig, "object URL must be "+prefix+"bucket/key").
				WithDetail("location", raw)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	}
	if raw == "" {
		return Location{}, rowerrors.New(rowerrors.ErrorTypeConfig, "empty source location")
	}
	return Location{Path: raw}, nil
}

func (l Location) String() string {
	if l.Scheme == "" {
		return l.Path
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// ObjectStore fetches whole objects from a bucket.
type ObjectStore interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
	Close() error
}

// Opener opens sources. S3 and GCS stores are created on first use unless
// set beforehand.
type Opener struct {
	cfg   config.SourceConfig
	S3    ObjectStore
	GCS   ObjectStore
	Stdin io.Reader
}

// NewOpener returns an opener for cfg.
func NewOpener(cfg config.SourceConfig) *Opener {
	return &Opener{cfg: cfg, Stdin: os.Stdin}
}

// Close releases the object store clients.
func (o *Opener) Close() error {
	var result *multierror.Error
	for _, store := range []ObjectStore{o.S3, o.GCS} {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Open opens the configured location.
func (o *Opener) Open(ctx context.Context) (*Source, error) {
	loc, err := ParseLocation(o.cfg.Location)
	if err != nil {
		return nil, err
	}

	algo := compression.DetectFromPath(loc.String())
	if o.cfg.Compression != "" {
		if algo, err = compression.Parse(o.cfg.Compression); err != nil {
			return nil, err
		}
	}

	log := logger.WithContext(ctx).With(zap.String("location", loc.String()), zap.String("compression", string(algo)))

	src := &Source{Location: loc, Compression: algo}
	switch loc.Scheme {
	case "s3", "gs":
		store, err := o.store(ctx, loc.Scheme)
		if err != nil {
			return nil, err
		}
		data, err := store.Fetch(ctx, loc.Bucket, loc.Key)
		if err != nil {
			return nil, err
		}
		log.Debug("fetched object", zap.Int("bytes", len(data)))
		br := bytes.NewReader(data)
		src.raw, src.rawAt, src.size = br, br, int64(len(data))
	default:
		if loc.Path == "-" {
			src.raw = o.Stdin
			break
		}
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to open source").
				WithDetail("path", loc.Path)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to stat source").
				WithDetail("path", loc.Path)
		}
		src.raw, src.rawAt, src.size = f, f, info.Size()
		src.closers = append(src.closers, f)
	}

	rc, err := compression.NewReader(algo, src.raw)
	if err != nil {
		src.Close()
		return nil, err
	}
	src.closers = append([]io.Closer{rc}, src.closers...)
	src.r = bufio.NewReaderSize(rc, 64*1024)

	log.Debug("opened source")
	return src, nil
}

func (o *Opener) store(ctx context.Context, scheme string) (ObjectStore, error) {
	switch scheme {
	case "s3":
		if o.S3 == nil {
			store, err := NewS3Store(ctx, o.cfg)
			if err != nil {
				return nil, err
			}
			o.S3 = store
		}
		return o.S3, nil
	default:
		if o.GCS == nil {
			store, err := NewGCSStore(ctx, o.cfg)
			if err != nil {
				return nil, err
			}
			o.GCS = store
		}
		return o.GCS, nil
	}
}

// Source is an opened, decompressed Arrow input.
type Source struct {
	Location    Location
	Compression compression.Algorithm

	raw     io.Reader
	rawAt   io.ReaderAt
	size    int64
	r       *bufio.Reader
	closers []io.Closer
}

// Reader returns the decompressed byte stream.
func (s *Source) Reader() io.Reader {
	return s.r
}

// Format reports whether the input is an Arrow IPC file or stream by peeking
// at its first bytes. The stream position is unchanged.
func (s *Source) Format() (string, error) {
	magic, err := s.r.Peek(len(fileMagic))
	if err != nil && err != io.EOF {
		return "", rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to read source header")
	}
	if bytes.Equal(magic, fileMagic) {
		return FormatFile, nil
	}
	return FormatStream, nil
}

// ReaderAt returns random access to the decompressed input, as the Arrow file
// format needs. Uncompressed local files are memory-mapped, falling back to
// plain reads; fetched objects are used in place; anything else is buffered
// into memory first.
func (s *Source) ReaderAt() (io.ReaderAt, int64, error) {
	if s.Compression == compression.None && s.Location.Scheme == "" && s.Location.Path != "-" {
		if m, err := mmap.Open(s.Location.Path); err == nil {
			s.closers = append(s.closers, m)
			return m, m.Size(), nil
		}
	}
	if s.rawAt != nil && s.Compression == compression.None {
		return s.rawAt, s.size, nil
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, 0, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to buffer source")
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// Close closes the decoder and the underlying file.
func (s *Source) Close() error {
	var result *multierror.Error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	s.closers = nil
	return result.ErrorOrNil()
}
