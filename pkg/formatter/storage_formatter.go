// File: pkg/formatter/storage_formatter.go
package formatter

import (
	"bucketbridge/pkg/storage"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StorageFormatter renders storage resources as tables styled for the target writer
type StorageFormatter struct {
	header  lipgloss.Style
	title   lipgloss.Style
	columns lipgloss.Style
}

// Color output is enabled only when w is a terminal
func NewStorageFormatter(w io.Writer) *StorageFormatter {
	r := lipgloss.NewRenderer(w)
	return &StorageFormatter{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		title:   r.NewStyle().Bold(true),
		columns: r.NewStyle().Bold(true),
	}
}

func (f *StorageFormatter) newTable(headers ...string) *Table {
	t := NewTable(headers)
	t.HeaderStyle = f.columns
	return t
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (f *StorageFormatter) FormatBucketList(buckets []storage.Bucket) string {
	table := f.newTable("BUCKET NAME", "PROVIDER", "LOCATION", "CREATED")
	for _, bucket := range buckets {
		table.AddRow([]string{
			bucket.Name,
			string(bucket.Provider),
			orDash(bucket.Location),
			formatTime(bucket.CreatedAt, "2006-01-02"),
		})
	}
	return table.String()
}

// FormatBucketDetails renders one bucket; usage is shown when non-negative
func (f *StorageFormatter) FormatBucketDetails(bucket storage.Bucket, usage int64) string {
	var sb strings.Builder

	sb.WriteString(FormatHeaderSection(f.header, "Bucket: "+bucket.Name))
	sb.WriteString("\n\n")
	sb.WriteString(FormatSectionTitle(f.title, "Overview"))
	sb.WriteString("\n")

	overview := f.newTable("Parameter", "Value")
	overview.AddRow([]string{"ID", orDash(bucket.ID)})
	overview.AddRow([]string{"Provider", string(bucket.Provider)})
	overview.AddRow([]string{"Location / Region", orDash(bucket.Location)})
	overview.AddRow([]string{"Created On", formatTime(bucket.CreatedAt, time.RFC1123)})
	if usage >= 0 {
		overview.AddRow([]string{"Usage", storage.FormatBytes(usage)})
	}
	sb.WriteString(overview.String())

	return sb.String()
}

func (f *StorageFormatter) FormatObjectList(bucketName string, objects []storage.Object) string {
	var sb strings.Builder

	sb.WriteString(FormatSectionTitle(f.title, "Objects in "+bucketName))
	sb.WriteString("\n")

	table := f.newTable("NAME", "SIZE", "CONTENT TYPE", "UPDATED")
	for _, obj := range objects {
		table.AddRow([]string{
			obj.Name,
			storage.FormatBytes(obj.Size),
			orDash(obj.ContentType),
			formatTime(obj.UpdatedAt, "2006-01-02 15:04"),
		})
	}
	sb.WriteString(table.String())

	return sb.String()
}

func (f *StorageFormatter) FormatObjectDetails(obj storage.Object) string {
	var sb strings.Builder

	sb.WriteString(FormatHeaderSection(f.header, "Object: "+obj.Name))
	sb.WriteString("\n\n")

	table := f.newTable("Parameter", "Value")
	size := storage.FormatBytes(obj.Size)
	if obj.HasSize() {
		size += " (" + strconv.FormatInt(obj.Size, 10) + " bytes)"
	}
	for _, row := range [][]string{
		{"ID", orDash(obj.ID)},
		{"Bucket", obj.BucketName},
		{"Provider", string(obj.Provider)},
		{"Size", size},
		{"Content Type", orDash(obj.ContentType)},
		{"ETag", orDash(obj.ETag)},
		{"Updated On", formatTime(obj.UpdatedAt, time.RFC1123)},
	} {
		table.AddRow(row)
	}
	sb.WriteString(table.String())

	return sb.String()
}

// ProviderSummary is one row of the providers overview
type ProviderSummary struct {
	Name         string
	Configured   bool
	Capabilities string
}

func (f *StorageFormatter) FormatProviders(providers []ProviderSummary) string {
	table := f.newTable("PROVIDER", "CONFIGURED", "CAPABILITIES")
	for _, p := range providers {
		configured := "no"
		if p.Configured {
			configured = "yes"
		}
		table.AddRow([]string{p.Name, configured, orDash(p.Capabilities)})
	}
	return table.String()
}
