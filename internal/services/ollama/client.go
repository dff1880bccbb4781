package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ModelInfo describes a locally installed model.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Details    struct {
		Family            string `json:"family"`
		ParameterSize     string `json:"parameter_size"`
		QuantizationLevel string `json:"quantization_level"`
	} `json:"details"`
}

// PullProgress is one line of the streaming pull response.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

// ClientError carries the HTTP status of a failed management call so the
// handler layer can map it onto its own response codes.
type ClientError struct {
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ollama %s failed: %s (cause: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("ollama %s failed: %s", e.Operation, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsUnreachable reports whether the error means the Ollama server could
// not be reached at all.
func IsUnreachable(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.StatusCode == 0
}

// IsTimeout reports whether the call exceeded its deadline.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && errors.Is(ce.Cause, context.DeadlineExceeded)
}

// Client talks to the native Ollama API for model management. Chat
// completions go through the OpenAI-compatible endpoint instead.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// Pulls can run for a long time; rely on the request context
		// rather than a client-wide timeout.
		client: &http.Client{},
	}
}

// Tags lists the locally installed models.
func (c *Client) Tags(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Operation: "tags", Message: "building request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, connectionError("tags", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("tags", resp)
	}

	var parsed struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ClientError{Operation: "tags", StatusCode: resp.StatusCode, Message: "decoding response", Cause: err}
	}
	return parsed.Models, nil
}

// Pull downloads a model, invoking onProgress for each status line of the
// NDJSON stream.
func (c *Client) Pull(ctx context.Context, name string, onProgress func(PullProgress)) error {
	if name == "" {
		return &ClientError{Operation: "pull", Message: "model name is required"}
	}

	body, _ := json.Marshal(map[string]string{"name": name})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Operation: "pull", Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return connectionError("pull", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("pull", resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var progress PullProgress
		if err := json.Unmarshal(line, &progress); err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(progress.Status), "error") {
			return &ClientError{Operation: "pull", StatusCode: resp.StatusCode, Message: progress.Status}
		}
		if onProgress != nil {
			onProgress(progress)
		}
	}
	if err := scanner.Err(); err != nil {
		return &ClientError{Operation: "pull", StatusCode: resp.StatusCode, Message: "reading stream", Cause: err}
	}
	return nil
}

// Delete removes a locally installed model.
func (c *Client) Delete(ctx context.Context, name string) error {
	if name == "" {
		return &ClientError{Operation: "delete", Message: "model name is required"}
	}

	body, _ := json.Marshal(map[string]string{"name": name})
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/delete", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Operation: "delete", Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return connectionError("delete", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func connectionError(operation string, err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Operation: operation, Message: "request timed out", Cause: err}
	}
	return &ClientError{Operation: operation, Message: "could not reach ollama", Cause: err}
}

func statusError(operation string, resp *http.Response) *ClientError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = resp.Status
	}
	return &ClientError{Operation: operation, StatusCode: resp.StatusCode, Message: message}
}
