package formatter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kataras/figma-slices/pkg/imager"
	"github.com/kataras/figma-slices/pkg/slices"
)

// ToMarkdown renders an export report: one table row per slice with its
// dimensions, output file and download status, followed by the list of
// failures. result may be nil when nothing was downloaded.
func ToMarkdown(fileName string, m slices.Manifest, format string, result *imager.ExportResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Figma Slices - %s\n\n", fileName))

	downloaded := make(map[string]imager.ExportedAsset)
	if result != nil {
		for _, a := range result.Assets {
			downloaded[a.SliceID] = a
		}
	}

	sb.WriteString(fmt.Sprintf("Exported %d of %d slice(s) as `%s`", len(downloaded), len(m), format))
	if result != nil && len(result.Assets) > 0 {
		sb.WriteString(fmt.Sprintf(" (%s)", humanize.Bytes(uint64(result.TotalSize()))))
	}
	sb.WriteString(".\n\n")

	sb.WriteString("| Slice | ID | Size | File | Status |\n")
	sb.WriteString("|-------|----|------|------|--------|\n")

	for _, s := range m.Sorted() {
		file := imager.AssetKey(format, s.Name)
		status := "failed"
		if a, ok := downloaded[s.ID]; ok {
			status = humanize.Bytes(uint64(a.Size))
		} else if s.Image == "" {
			status = "no render URL"
		}

		sb.WriteString(fmt.Sprintf("| %s | `%s` | %gx%g | `%s` | %s |\n",
			escapeCell(s.Name), s.ID, s.Width, s.Height, file, status))
	}

	if result != nil && len(result.Errors) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, err := range result.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
	}

	return sb.String()
}

// escapeCell keeps a value from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
