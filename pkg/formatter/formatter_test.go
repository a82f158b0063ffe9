package formatter

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTableRendering(t *testing.T) {
	table := NewTable([]string{"NAME", "SIZE"})
	table.AddRow([]string{"a.txt", "1 KB"})
	table.AddRow([]string{"résumé.pdf", "12 B"})

	want := strings.Join([]string{
		"+------------+------+",
		"| NAME       | SIZE | ",
		"+------------+------+",
		"| a.txt      | 1 KB | ",
		"| résumé.pdf | 12 B | ",
		"+------------+------+",
	}, "\n")
	assert.Equal(t, want, table.String())
	assert.Empty(t, NewTable(nil).String())
}

func TestTableShortRows(t *testing.T) {
	table := NewTable([]string{"A", "B"})
	table.AddRow([]string{"x"})
	assert.Contains(t, table.String(), "| x |   | ")
}

func TestFormatBucketList(t *testing.T) {
	var buf bytes.Buffer
	f := NewStorageFormatter(&buf)

	out := f.FormatBucketList([]storage.Bucket{
		{Name: "reports", Provider: common.GCP, Location: "EU", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "logs", Provider: common.MinIO},
	})
	assert.Contains(t, out, "| reports     | GCP      | EU       | 2024-03-01 | ")
	assert.Contains(t, out, "| logs        | MINIO    | -        | -          | ")
}

func TestFormatDetails(t *testing.T) {
	var buf bytes.Buffer
	f := NewStorageFormatter(&buf)

	bucket := f.FormatBucketDetails(storage.Bucket{Name: "reports", Provider: common.AWS}, 2048)
	assert.Contains(t, bucket, "Bucket: reports")
	assert.Contains(t, bucket, "2.0 KB")

	noUsage := f.FormatBucketDetails(storage.Bucket{Name: "reports", Provider: common.AWS}, -1)
	assert.NotContains(t, noUsage, "Usage")

	obj := f.FormatObjectDetails(storage.Object{Name: "a.bin", BucketName: "reports", Provider: common.AWS, Size: -1})
	assert.Contains(t, obj, "Object: a.bin")
	assert.Contains(t, obj, "N/A")
	assert.NotContains(t, obj, "bytes)")

	list := f.FormatObjectList("reports", []storage.Object{{Name: "a.bin", Size: 1536}})
	assert.Contains(t, list, "-- Objects in reports --")
	assert.Contains(t, list, "1.5 KB")

	providers := f.FormatProviders([]ProviderSummary{{Name: "aws", Configured: true}})
	assert.Contains(t, providers, "| aws      | yes        | -            | ")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, " yaml ": FormatYAML, "table": FormatTable} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncodeViews(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	buckets := NewBucketViews([]storage.Bucket{{ID: "b1", Name: "reports", Provider: common.GCP, CreatedAt: created}})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, buckets))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "reports", decoded[0]["name"])
	assert.Equal(t, "2024-03-01T12:00:00Z", decoded[0]["created_at"])
	assert.NotContains(t, decoded[0], "location")

	buf.Reset()
	obj := NewObjectView(storage.Object{Name: "a", BucketName: "b", Provider: common.AWS, Size: -1})
	require.NoError(t, Encode(&buf, FormatYAML, obj))
	var yamlDecoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &yamlDecoded))
	assert.Equal(t, "a", yamlDecoded["name"])
	assert.NotContains(t, yamlDecoded, "size")

	assert.Error(t, Encode(&buf, FormatTable, obj))
}
