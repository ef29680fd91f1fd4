package attachments

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// AllowedExtensions lists the file types whose text can be analyzed, in
// the order offered to users.
var AllowedExtensions = []string{".txt", ".md", ".csv", ".json", ".pdf", ".docx"}

// ErrUnsupportedType is returned for files outside AllowedExtensions.
var ErrUnsupportedType = errors.New("unsupported file type")

type extractor func(data []byte) (string, error)

var extractors = map[string]extractor{
	".txt":  decodeUTF8,
	".md":   decodeUTF8,
	".csv":  decodeUTF8,
	".json": prettyJSON,
	".pdf":  pdfText,
	".docx": docxText,
}

// Allowed reports whether fileName has an analyzable extension.
func Allowed(fileName string) bool {
	_, ok := extractors[extOf(fileName)]
	return ok
}

// ExtractText pulls plain text out of an uploaded file. The decoder is
// chosen by extension, case-insensitively.
func ExtractText(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fn, ok := extractors[extOf(fileName)]
	if !ok {
		return "", unsupported(fileName)
	}
	return fn(data)
}

func extOf(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

func unsupported(fileName string) error {
	ext := extOf(fileName)
	if ext == "" {
		ext = "no extension"
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
}

func decodeUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func prettyJSON(data []byte) (string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", fmt.Errorf("invalid json: %w", err)
	}
	return out.String(), nil
}

func pdfText(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	text, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, text); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return sb.String(), nil
}

// docxText reads word/document.xml from the OOXML archive and keeps only
// character data, one line per paragraph or break.
func docxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	for _, f := range zr.File {
		if path.Clean(strings.ReplaceAll(f.Name, `\`, "/")) != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return wordprocessingText(rc)
	}
	return "", errors.New("docx has no word/document.xml")
}

func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
