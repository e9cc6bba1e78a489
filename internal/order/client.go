package order

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const statusSuccess = "success"

var ErrSubmission = errors.New("order submission failed")

// SubmissionError is returned for every failed upload: transport errors,
// non-2xx responses, unreadable bodies and non-success statuses.
type SubmissionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	msg := "order submission failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubmission}
	}
	return []error{ErrSubmission, e.Err}
}

// Submission is what the order endpoint receives for one card.
type Submission struct {
	OrderID    string
	PNG        []byte
	Background string
	Message    string
	Font       string
	Align      string
}

type Result struct {
	URL     string
	Message string
}

type response struct {
	Status  string `json:"status"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Submit(ctx context.Context, s Submission) (Result, error) {
	if c.endpoint == "" {
		return Result{}, &SubmissionError{Err: errors.New("no order endpoint configured")}
	}

	body, contentType, err := encodeForm(s)
	if err != nil {
		return Result{}, &SubmissionError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Result{}, &SubmissionError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &SubmissionError{StatusCode: resp.StatusCode, Message: string(snippet)}
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{}, &SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if data.Status != statusSuccess {
		msg := data.Message
		if msg == "" {
			msg = fmt.Sprintf("status %q", data.Status)
		}
		return Result{}, &SubmissionError{StatusCode: resp.StatusCode, Message: msg}
	}

	return Result{URL: data.URL, Message: data.Message}, nil
}

func encodeForm(s Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"image", base64.StdEncoding.EncodeToString(s.PNG)},
		{"filename", s.OrderID + ".png"},
		{"orderId", s.OrderID},
		{"backgroundType", s.Background},
		{"messageText", s.Message},
		{"fontType", s.Font},
		{"textAlign", s.Align},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
