// Package ocr calls the external prescription recognition service over HTTP.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"pharmaflow/internal/core/domain/model/prescription"
)

const maxErrorBody = 4 << 10

// Client uploads prescription images to the recognition service and parses
// the drug mentions it returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the recognition client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("recognition service base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type recognitionResponse struct {
	Text  string `json:"text"`
	Drugs []struct {
		Name string `json:"name"`
	} `json:"drugs"`
}

// ExtractMentions uploads the image as a multipart form and returns the
// recognized text and drug mentions in reading order.
func (c *Client) ExtractMentions(ctx context.Context, image []byte, filename string) (
	string, []prescription.Mention, error,
) {
	if len(image) == 0 {
		return "", nil, errors.New("prescription image is empty")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "prescription"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return "", nil, fmt.Errorf("build recognition request: %w", err)
	}
	if _, err = part.Write(image); err != nil {
		return "", nil, fmt.Errorf("build recognition request: %w", err)
	}
	if err = form.Close(); err != nil {
		return "", nil, fmt.Errorf("build recognition request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/recognize", &body)
	if err != nil {
		return "", nil, fmt.Errorf("build recognition request: %w", err)
	}
	request.Header.Set("Content-Type", form.FormDataContentType())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", nil, fmt.Errorf("call recognition service: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return "", nil, fmt.Errorf("recognition service returned %s: %s",
			response.Status, strings.TrimSpace(string(detail)))
	}

	var payload recognitionResponse
	if err = json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", nil, fmt.Errorf("decode recognition response: %w", err)
	}

	mentions := make([]prescription.Mention, 0, len(payload.Drugs))
	for _, drug := range payload.Drugs {
		mentions = append(mentions, prescription.Mention{Name: drug.Name})
	}
	return payload.Text, mentions, nil
}
