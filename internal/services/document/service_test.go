package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk error")
}

func TestExtractPlainText(t *testing.T) {
	svc := NewService(noopLogger{})

	got := svc.Extract("notes.txt", strings.NewReader("hello world"))
	assert.Equal(t, "notes.txt", got.Filename)
	assert.Equal(t, "hello world", got.Text)

	got = svc.Extract("README.md", strings.NewReader("# Title"))
	assert.Equal(t, "# Title", got.Text)

	got = svc.Extract("guide.MARKDOWN", strings.NewReader("body"))
	assert.Equal(t, "body", got.Text)
}

func TestExtractUnsupportedType(t *testing.T) {
	svc := NewService(noopLogger{})

	got := svc.Extract("photo.png", strings.NewReader("binary"))
	assert.True(t, strings.HasPrefix(got.Text, "["), "failure text must start with a bracket")
	assert.Contains(t, got.Text, "photo.png")
}

func TestExtractUnreadableInput(t *testing.T) {
	svc := NewService(noopLogger{})

	got := svc.Extract("notes.txt", failingReader{})
	assert.True(t, strings.HasPrefix(got.Text, "["))

	got = svc.Extract("notes.txt", strings.NewReader("\xff\xfe\x00bad"))
	assert.True(t, strings.HasPrefix(got.Text, "["))
}
