package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRSpaceExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/parse/image", r.URL.Path)
		assert.Equal(t, "ocr-key", r.Header.Get("apikey"))
		assert.NoError(t, r.ParseForm())
		assert.True(t, strings.HasPrefix(r.PostForm.Get("base64Image"), "data:image/png;base64,"))
		assert.Equal(t, "eng", r.PostForm.Get("language"))
		assert.Equal(t, "2", r.PostForm.Get("OCREngine"))
		assert.Equal(t, "false", r.PostForm.Get("isOverlayRequired"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ParsedResults": [{"FileParseExitCode": 1, "ParsedText": "AAPL  1D\r\n\r\n  Vol 52.3M \r\nRSI 61.2\r\n"}],
			"OCRExitCode": 1,
			"IsErroredOnProcessing": false
		}`))
	}))
	defer srv.Close()

	repo := NewOCRSpaceRepository(testConfig(srv.URL), logger.NewNop())
	text, err := repo.ExtractText(context.Background(), &dto.ChartAsset{Image: []byte("img"), Format: dto.ImageFormatPNG})
	require.NoError(t, err)

	assert.Equal(t, "AAPL 1D\nVol 52.3M\nRSI 61.2", text.RawText)
	assert.Nil(t, text.Confidence)
}

func TestOCRSpaceFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apperror.Kind
	}{
		{
			name:   "no text",
			status: http.StatusOK,
			body:   `{"ParsedResults":[{"ParsedText":"  \r\n "}],"OCRExitCode":1}`,
			want:   apperror.KindRecognitionFailed,
		},
		{
			name:   "processing error",
			status: http.StatusOK,
			body:   `{"OCRExitCode":3,"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize the file type"]}`,
			want:   apperror.KindRecognitionFailed,
		},
		{name: "throttled", status: http.StatusTooManyRequests, want: apperror.KindRateLimited},
		{name: "server error", status: http.StatusInternalServerError, want: apperror.KindUpstreamUnavailable},
		{name: "garbage", status: http.StatusOK, body: "not json", want: apperror.KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			repo := NewOCRSpaceRepository(testConfig(srv.URL), logger.NewNop())
			_, err := repo.ExtractText(context.Background(), &dto.ChartAsset{Image: []byte("img"), Format: dto.ImageFormatPNG})
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.KindOf(err))
		})
	}
}

func TestOCRSpaceRejectsEmptyImage(t *testing.T) {
	repo := NewOCRSpaceRepository(testConfig("http://127.0.0.1:1"), logger.NewNop())
	_, err := repo.ExtractText(context.Background(), &dto.ChartAsset{})
	assert.ErrorIs(t, err, apperror.ErrRecognitionFailed)
}
