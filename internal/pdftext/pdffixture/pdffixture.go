// Package pdffixture writes small single-font PDF files for tests.
package pdffixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const font = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding"

// Build returns a PDF with one page per element of pages. Each string in a
// page is drawn on its own line in Helvetica 12pt. The font carries no
// glyph widths, as standard fonts may omit them.
func Build(pages ...[]string) []byte {
	return build(font+" >>", pages)
}

// BuildWithWidths is Build with a /Widths array giving every printable
// ASCII glyph, space included, an advance of half the font size.
func BuildWithWidths(pages ...[]string) []byte {
	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	return build(fmt.Sprintf("%s /FirstChar 32 /LastChar 126 /Widths [%s] >>", font, widths), pages)
}

func build(fontDict string, pages [][]string) []byte {
	n := len(pages)
	// objects: 1 catalog, 2 pages, 3 font, then (page, content) pairs
	total := 3 + 2*n
	bodies := make([]string, total+1)

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	bodies[1] = "<< /Type /Catalog /Pages 2 0 R >>"
	bodies[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)
	bodies[3] = fontDict

	for i, lines := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		var cs strings.Builder
		y := 760
		for _, ln := range lines {
			fmt.Fprintf(&cs, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, escape(ln))
			y -= 16
		}
		stream := cs.String()
		bodies[pageObj] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentObj)
		bodies[contentObj] = fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, total+1)
	for i := 1; i <= total; i++ {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i, bodies[i])
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)
	return buf.Bytes()
}

// Write stores Build(pages...) as dir/name and returns the path.
func Write(t testing.TB, dir, name string, pages ...[]string) string {
	t.Helper()
	return writeFile(t, filepath.Join(dir, name), Build(pages...))
}

// WriteWithWidths stores BuildWithWidths(pages...) as dir/name.
func WriteWithWidths(t testing.TB, dir, name string, pages ...[]string) string {
	t.Helper()
	return writeFile(t, filepath.Join(dir, name), BuildWithWidths(pages...))
}

func writeFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
