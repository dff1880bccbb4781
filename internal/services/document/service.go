package document

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxUploadBytes bounds how much of an uploaded file is read.
const maxUploadBytes = 10 << 20

// Extraction is the text pulled out of an uploaded file. Text starting
// with "[" signals an extraction failure to the client.
type Extraction struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service extracts plain text from uploaded documents.
type Service struct {
	logger Logger
}

func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// Extract reads an uploaded file and returns its text. Extraction never
// fails with an error; unsupported or unreadable files yield a bracketed
// placeholder text instead.
func (s *Service) Extract(filename string, r io.Reader) Extraction {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".markdown":
		return Extraction{Filename: filename, Text: s.extractText(filename, r)}
	default:
		s.logger.Warn("Rejected upload with unsupported extension", "filename", filename, "ext", ext)
		return Extraction{Filename: filename, Text: fmt.Sprintf("[Unsupported file type: %s]", filename)}
	}
}

func (s *Service) extractText(filename string, r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes))
	if err != nil {
		s.logger.Error("Failed to read uploaded file", "filename", filename, "error", err)
		return fmt.Sprintf("[Unable to read file: %s]", filename)
	}
	if !utf8.Valid(data) {
		s.logger.Warn("Uploaded file is not valid UTF-8", "filename", filename)
		return fmt.Sprintf("[Unable to read file: %s]", filename)
	}
	return string(data)
}
