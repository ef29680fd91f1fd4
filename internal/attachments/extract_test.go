package attachments

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDocxParagraphs(t *testing.T) {
	data := buildDocx(t, `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>First line</w:t></w:r></w:p><w:p><w:r><w:t>Second line</w:t></w:r></w:p></w:body></w:document>`)

	got, err := ExtractText(context.Background(), data, "brief.DOCX")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if got != "First line\nSecond line" {
		t.Fatalf("unexpected docx text %q", got)
	}
}

func TestExtractTextDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("notes.txt"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	_ = zw.Close()

	if _, err := ExtractText(context.Background(), buf.Bytes(), "x.docx"); err == nil {
		t.Fatal("expected missing document.xml error")
	}
}

func TestExtractTextJSONIsIndented(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte(`{"a":1,"b":[true]}`), "data.json")
	if err != nil {
		t.Fatalf("extract json: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}"
	if got != want {
		t.Fatalf("unexpected json text %q", got)
	}

	if _, err := ExtractText(context.Background(), []byte(`{oops`), "data.json"); err == nil {
		t.Fatal("expected invalid json error")
	}
}

func TestExtractTextPlainStripsBOMAndRepairsUTF8(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte("\xef\xbb\xbfhello \xff"), "notes.md")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if got != "hello �" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractTextRejectsUnsupported(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte("MZ"), "tool.exe")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), ".exe") {
		t.Fatalf("expected extension in error, got %v", err)
	}
}

func TestExtractTextBrokenPDF(t *testing.T) {
	if _, err := ExtractText(context.Background(), []byte("not a pdf"), "doc.pdf"); err == nil {
		t.Fatal("expected pdf parse error")
	}
}

func TestExtractTextHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractText(ctx, []byte("x"), "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
