package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/compression"
	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	"github.com/ajitpratap0/rowbridge/pkg/testutil"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rowbridge v"+version)
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "", "inspect", "struct<id:bigint,name:string,inner:struct<x:int>>")
	require.NoError(t, err)

	assert.Contains(t, out, "type:      struct<id:bigint,name:string,inner:struct<x:int>>")
	assert.Contains(t, out, "category:  STRUCT")
	assert.Contains(t, out, "inspector: struct<bigint,string,struct<int>>")
	assert.Contains(t, out, "arrow:     struct<")
	assert.Contains(t, out, "fields:")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "utf8")
}

func TestInspect_JSON(t *testing.T) {
	out, err := execute(t, "", "inspect", "--format", "json", "struct<id:bigint,payload:binary,inner:struct<x:int>>")
	require.NoError(t, err)

	var report inspectReport
	require.NoError(t, gojson.Unmarshal([]byte(out), &report))
	assert.Equal(t, "STRUCT", report.Category)
	assert.Equal(t, "struct<bigint,string,struct<int>>", report.Inspector)
	require.Len(t, report.Fields, 3)

	assert.Equal(t, "id", report.Fields[0].Name)
	assert.Equal(t, "bigint", report.Fields[0].Type)
	assert.Equal(t, "int64", report.Fields[0].Arrow)
	assert.True(t, report.Fields[0].Nullable)

	assert.Equal(t, "string", report.Fields[1].Type)
	assert.Equal(t, "binary", report.Fields[1].Arrow)
	assert.Equal(t, "struct", report.Fields[2].Arrow)
}

func TestInspect_UnknownFormat(t *testing.T) {
	_, err := execute(t, "", "inspect", "--format", "yaml", "int")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
}

func TestInspect_Primitive(t *testing.T) {
	out, err := execute(t, "", "inspect", "double")
	require.NoError(t, err)
	assert.Contains(t, out, "category:  PRIMITIVE")
	assert.Contains(t, out, "arrow:     float64")
	assert.NotContains(t, out, "fields:")
}

func TestInspect_Invalid(t *testing.T) {
	_, err := execute(t, "", "inspect", "struct<id:")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeValidation))
}

func TestScan_StreamToText(t *testing.T) {
	path := testutil.WriteTempFile(t, "rows.arrows", testutil.EncodeStream(t, compression.None, testutil.People(t, "a", "")))

	out, err := execute(t, "", "scan", "--source", path, "--format", "text", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "1\ta\n2\t\\N\n", out)
}

func TestScan_CompressedStreamToJSON(t *testing.T) {
	path := testutil.WriteTempFile(t, "rows.arrows.zst", testutil.EncodeStream(t, compression.Zstd, testutil.People(t, "a", "")))

	out, err := execute(t, "", "scan", "--source", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"a"}`+"\n"+`{"id":2,"name":null}`+"\n", out)
}

func TestScan_FileWithProjectionAndLimit(t *testing.T) {
	path := testutil.WriteTempFile(t, "rows.arrow", testutil.EncodeFile(t, testutil.People(t, "a", "")))

	out, err := execute(t, "", "scan", "--source", path, "--format", "text",
		"--columns", "NAME,id", "--limit", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "a\t1\n", out)
}

func TestScan_Stdin(t *testing.T) {
	data := testutil.EncodeStream(t, compression.None, testutil.People(t, "a", ""))

	out, err := execute(t, string(data), "scan", "--format", "text", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "1\ta\n2\t\\N\n", out)
}

func TestScan_OutputFile(t *testing.T) {
	in := testutil.WriteTempFile(t, "rows.arrows", testutil.EncodeStream(t, compression.None, testutil.People(t, "a", "")))
	outPath := filepath.Join(t.TempDir(), "rows.txt.gz")

	out, err := execute(t, "", "scan", "--source", in, "--format", "text", "--output", outPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := compression.NewReader(compression.Gzip, f)
	require.NoError(t, err)
	defer zr.Close()
	var got bytes.Buffer
	_, err = got.ReadFrom(zr)
	require.NoError(t, err)
	assert.Equal(t, "1\ta\n2\t\\N\n", got.String())
}

func TestScan_MissingColumn(t *testing.T) {
	path := testutil.WriteTempFile(t, "rows.arrows", testutil.EncodeStream(t, compression.None, testutil.People(t, "a", "")))

	_, err := execute(t, "", "scan", "--source", path, "--columns", "nope", "--log-level", "error")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeNotFound))
}

func TestScan_InvalidFormat(t *testing.T) {
	_, err := execute(t, "", "scan", "--format", "csv")
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
}

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rowbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  location: data.arrow\nscan:\n  limit: 5\noutput:\n  format: text\n"), 0o600))
	t.Setenv("ROWBRIDGE_SCAN_LIMIT", "7")

	cfg, err := loadConfig(path, config.NewViper())
	require.NoError(t, err)
	assert.Equal(t, "data.arrow", cfg.Source.Location)
	assert.Equal(t, int64(7), cfg.Scan.Limit)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 1024, cfg.Scan.CheckInterval)
}

func TestScan_Profiles(t *testing.T) {
	path := testutil.WriteTempFile(t, "rows.arrows", testutil.EncodeStream(t, compression.None, testutil.People(t, "a")))
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	_, err := execute(t, "", "scan", "--source", path, "--log-level", "error", "--cpuprofile", cpu, "--memprofile", mem)
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
