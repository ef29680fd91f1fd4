package object

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"brainplan/internal/shared/util"
)

// sniffLen matches the window http.DetectContentType inspects.
const sniffLen = 512

// NewKey builds a fresh storage key for an upload: the hashed namespace
// followed by a unique, sanitized file name.
func NewKey(namespace, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashKey(namespace), uuid.NewString()+"_"+name), nil
}

// Sniff detects the content type of r without consuming it. The returned
// reader yields the full stream, including the inspected prefix.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", nil, fmt.Errorf("sniff content type: %w", err)
	}
	return http.DetectContentType(head), br, nil
}
