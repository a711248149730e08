package ocr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaflow/internal/adapters/out/ocr"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := ocr.NewClient("  ", nil)
	assert.Error(t, err)
}

func TestExtractMentions_ParsesResponse(t *testing.T) {
	var gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recognize", r.URL.Path)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "Paracetamol 500mg\nAmoxicillin 250mg",
			"drugs": [{"name": "Paracetamol"}, {"name": "Amoxicillin"}]
		}`))
	}))
	defer server.Close()

	client, err := ocr.NewClient(server.URL, server.Client())
	require.NoError(t, err)

	text, mentions, err := client.ExtractMentions(
		context.Background(), []byte("fake image bytes"), "scan.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Paracetamol 500mg\nAmoxicillin 250mg", text)
	require.Len(t, mentions, 2)
	assert.Equal(t, "Paracetamol", mentions[0].Name)
	assert.Equal(t, "Amoxicillin", mentions[1].Name)
	assert.Equal(t, "scan.jpg", gotFilename)
}

func TestExtractMentions_RejectsEmptyImage(t *testing.T) {
	client, err := ocr.NewClient("http://localhost:9999", nil)
	require.NoError(t, err)

	_, _, err = client.ExtractMentions(context.Background(), nil, "scan.jpg")
	assert.Error(t, err)
}

func TestExtractMentions_SurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unreadable image", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client, err := ocr.NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, _, err = client.ExtractMentions(context.Background(), []byte("blurry"), "scan.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable image")
}
