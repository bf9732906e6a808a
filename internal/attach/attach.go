package attach

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Files above this size would blow the request payload budget of the hosted
// model API, so loading fails early with a clear message.
const maxFileBytes = 12 << 20

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// File is a user-supplied PDF or image prepared for a model request.
type File struct {
	Name string
	MIME string
	Data []byte
	// Text holds locally extracted PDF text so prompts can carry document
	// context even when a backend cannot accept inline bytes.
	Text string
}

// Load reads a PDF or image from disk and prepares it for inclusion in a
// request payload. PDFs additionally get their plain text extracted.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("%s is %d bytes; attachments are capped at %d", filepath.Base(path), info.Size(), maxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}

	mime := sniffMIME(path, data)
	if !supportedMIME(mime) {
		return nil, fmt.Errorf("unsupported attachment type %s; use a PDF or image", mime)
	}

	file := &File{
		Name: filepath.Base(path),
		MIME: mime,
		Data: data,
	}
	if mime == "application/pdf" {
		text, err := extractPDFText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to process attachment PDF: %w", err)
		}
		file.Text = text
	}
	return file, nil
}

// Base64 returns the payload encoding expected by the hosted model API.
func (f *File) Base64() string {
	return base64.StdEncoding.EncodeToString(f.Data)
}

func sniffMIME(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}

func supportedMIME(mime string) bool {
	if mime == "application/pdf" {
		return true
	}
	return strings.HasPrefix(mime, "image/")
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}

	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(text), nil
}
