package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func TestDetectFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"data.arrow":                 None,
		"data.arrow.zst":             Zstd,
		"s3://bucket/key.arrows.LZ4": LZ4,
		"gs://b/o.sz":                Snappy,
		"x.s2":                       S2,
		"/tmp/rows.gz":               Gzip,
		"rows.deflate":               Deflate,
		"noext":                      None,
	}
	for p, expected := range tests {
		assert.Equal(t, expected, DetectFromPath(p), p)
	}
}

func TestParse(t *testing.T) {
	algo, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, algo)

	algo, err = Parse(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, algo)

	_, err = Parse("brotli")
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
}

func TestRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("rowbridge compresses repetitive content content content. "), 200)

	for _, algo := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		t.Run(string(algo), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(algo, &buf)
			require.NoError(t, err)
			_, err = w.Write(original)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if algo != None {
				assert.Less(t, buf.Len(), len(original))
			}

			r, err := NewReader(algo, &buf)
			require.NoError(t, err)
			defer r.Close()

			decoded, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestNewReader_Corrupt(t *testing.T) {
	_, err := NewReader(Gzip, bytes.NewReader([]byte("definitely not gzip")))
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeData))
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewReader("brotli", bytes.NewReader(nil))
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
	_, err = NewWriter("brotli", io.Discard)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
}
