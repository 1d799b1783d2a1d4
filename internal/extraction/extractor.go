// Package extraction turns uploaded resume files into plain text.
package extraction

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types.
const (
	MIMEPlain    = "text/plain"
	MIMEMarkdown = "text/markdown"
	MIMEPDF      = "application/pdf"
	MIMEDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionMIME = map[string]string{
	".txt":  MIMEPlain,
	".text": MIMEPlain,
	".md":   MIMEMarkdown,
	".pdf":  MIMEPDF,
	".docx": MIMEDocx,
}

// File is an uploaded document.
type File struct {
	Name string
	MIME string
	Data []byte
}

// TextExtractor reads the text content of an uploaded file.
type TextExtractor interface {
	ExtractText(ctx context.Context, file File) (string, error)
}

// Extractor handles plain text, markdown, PDF and DOCX files.
type Extractor struct{}

// NewExtractor returns the default extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DetectMIME resolves the effective MIME type, preferring the declared type
// and falling back to the file extension.
func DetectMIME(file File) string {
	mime := strings.ToLower(strings.TrimSpace(file.MIME))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case MIMEPlain, MIMEMarkdown, MIMEPDF, MIMEDocx:
		return mime
	}
	return extensionMIME[strings.ToLower(filepath.Ext(file.Name))]
}

// ExtractText returns the text content of file. Failures are *ExtractionError.
func (e *Extractor) ExtractText(ctx context.Context, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch DetectMIME(file) {
	case MIMEPlain, MIMEMarkdown:
		text = string(file.Data)
	case MIMEPDF:
		text, err = extractPDFText(file.Data)
	case MIMEDocx:
		text, err = extractDocxText(file.Data)
	default:
		return "", &ExtractionError{Kind: KindUnsupported, File: file.Name, Message: "unsupported file type " + file.MIME}
	}
	if err != nil {
		return "", &ExtractionError{Kind: KindParse, File: file.Name, Message: "failed to read document", Cause: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Kind: KindEmpty, File: file.Name, Message: "document contains no text"}
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &pdfPanic{value: r}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return docxContentToText(doc.Editable().GetContent()), nil
}

type pdfPanic struct {
	value any
}

func (p *pdfPanic) Error() string {
	return "malformed pdf"
}
