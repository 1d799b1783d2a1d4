package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name string
		file File
		want string
	}{
		{"declared pdf", File{Name: "resume", MIME: "application/pdf"}, MIMEPDF},
		{"declared with params", File{Name: "r", MIME: "text/plain; charset=utf-8"}, MIMEPlain},
		{"extension fallback", File{Name: "Resume.DOCX", MIME: "application/octet-stream"}, MIMEDocx},
		{"markdown extension", File{Name: "resume.md"}, MIMEMarkdown},
		{"unknown", File{Name: "resume.rtf"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.file))
		})
	}
}

func TestExtractText_Plain(t *testing.T) {
	text, err := NewExtractor().ExtractText(context.Background(), File{
		Name: "resume.txt",
		Data: []byte("Jane Doe\nSkills: Go, SQL"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Go, SQL", text)
}

func TestExtractText_Docx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Skills: Go &amp; SQL</w:t></w:r></w:p>`)

	text, err := NewExtractor().ExtractText(context.Background(), File{Name: "resume.docx", Data: data})
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\n")
	assert.Contains(t, text, "Skills: Go & SQL")
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name string
		file File
		kind ErrorKind
	}{
		{"unsupported", File{Name: "resume.rtf", Data: []byte("x")}, KindUnsupported},
		{"empty text", File{Name: "resume.txt", Data: []byte("  \n ")}, KindEmpty},
		{"bad pdf", File{Name: "resume.pdf", Data: []byte("not a pdf")}, KindParse},
		{"bad docx", File{Name: "resume.docx", Data: []byte("not a zip")}, KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().ExtractText(context.Background(), tt.file)
			require.Error(t, err)

			var extErr *ExtractionError
			require.True(t, errors.As(err, &extErr))
			assert.Equal(t, tt.kind, extErr.Kind)
			assert.Equal(t, tt.file.Name, extErr.File)
		})
	}
}

func TestExtractText_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().ExtractText(ctx, File{Name: "r.txt", Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocxContentToText(t *testing.T) {
	content := `<w:p><w:r><w:t>Title</w:t></w:r></w:p><w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t><w:br/><w:t>C &lt;x&gt;</w:t></w:r></w:p>`
	assert.Equal(t, "Title\nA\tB\nC <x>", docxContentToText(content))
}
