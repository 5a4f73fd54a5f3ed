package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a valid PDF with one page per line of text.
func buildPDF(t *testing.T, pageLines ...string) []byte {
	t.Helper()
	pages := len(pageLines)
	fontNum := 3 + 2*pages
	total := fontNum

	kids := make([]string, pages)
	for i := range pageLines {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, total+1)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i, line := range pageLines {
		pageNum := 3 + 2*i
		contentNum := pageNum + 1
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		writeObj(pageNum, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", contentNum, fontNum))
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	writeObj(fontNum, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", total+1)
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xrefOffset)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(p)
		body.WriteString("</w:t></w:r></w:p>")
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": rels,
	} {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestPDFExtractsText(t *testing.T) {
	data := buildPDF(t, "Senior Software Engineer")

	text, err := PDF(data)
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !strings.Contains(text, "Senior Software Engineer") {
		t.Fatalf("expected extracted text to contain heading, got %q", text)
	}

	again, err := PDF(data)
	if err != nil {
		t.Fatalf("PDF second pass: %v", err)
	}
	if text != again {
		t.Fatalf("expected deterministic extraction, got %q then %q", text, again)
	}
}

func TestPDFConcatenatesPagesInOrder(t *testing.T) {
	data := buildPDF(t,
		"FIRST PAGE HEADING",
		"SECOND PAGE HEADING",
		"THIRD PAGE HEADING",
	)

	text, err := PDF(data)
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}

	first := strings.Index(text, "FIRST PAGE HEADING")
	second := strings.Index(text, "SECOND PAGE HEADING")
	third := strings.Index(text, "THIRD PAGE HEADING")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("expected all page headings, got %q", text)
	}
	if !(first < second && second < third) {
		t.Fatalf("expected page text in document order, got %q", text)
	}
}

func TestPDFRejectsCorruptData(t *testing.T) {
	if _, err := PDF([]byte("this is not a pdf")); err == nil {
		t.Fatalf("expected error for corrupt data")
	}
	if _, err := PDF(nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestDOCXExtractsParagraphs(t *testing.T) {
	data := buildDOCX(t, []string{"John Doe", "Software Engineer at Acme"})

	text, err := DOCX(data)
	if err != nil {
		t.Fatalf("DOCX: %v", err)
	}
	want := "John Doe\nSoftware Engineer at Acme"
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestDOCXRejectsCorruptData(t *testing.T) {
	if _, err := DOCX([]byte("not a zip archive")); err == nil {
		t.Fatalf("expected error for corrupt data")
	}
}

func TestTextRoutesByMimeType(t *testing.T) {
	docxData := buildDOCX(t, []string{"Jane Roe"})

	text, err := Text(docxData, MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("Text docx: %v", err)
	}
	if text != "Jane Roe" {
		t.Fatalf("expected %q, got %q", "Jane Roe", text)
	}

	// Browsers commonly send docx as octet-stream or zip; the extension
	// decides in that case.
	for _, mime := range []string{"", "application/octet-stream", "application/zip"} {
		if _, err := Text(docxData, mime, "resume.docx"); err != nil {
			t.Fatalf("Text with mime %q: %v", mime, err)
		}
	}

	if _, err := Text(docxData, "image/png", "photo.png"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	if _, err := Text([]byte("legacy"), MimeDOC, "resume.doc"); err == nil {
		t.Fatalf("expected error for legacy .doc")
	}
}

func TestTextEmptyDocumentIsError(t *testing.T) {
	data := buildDOCX(t, nil)
	if _, err := DOCX(data); err == nil {
		t.Fatalf("expected error for document with no text")
	}
}

func TestNormalizeWhitespaceIdempotent(t *testing.T) {
	cases := []string{
		"  John   Doe  \n\n\n  Engineer \t at  Acme \n",
		"single line",
		"\n\n\n",
		"a\nb\n\nc",
		"",
	}
	for _, in := range cases {
		once := NormalizeWhitespace(in)
		twice := NormalizeWhitespace(once)
		if once != twice {
			t.Fatalf("input %q: expected idempotence, got %q then %q", in, once, twice)
		}
	}

	got := NormalizeWhitespace("  John   Doe  \n\n\n  Engineer   at  Acme ")
	want := "John Doe\n\nEngineer at Acme"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
