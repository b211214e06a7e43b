package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang-chart-insight/internal/insight/apperror"
)

// maxErrorBody bounds how much of a failed response body ends up in an error message.
const maxErrorBody = 512

// readLimited reads at most limit bytes of body and fails when the body is larger.
func readLimited(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

func errorBody(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(data))
}

// transportError classifies a failed client.Do call. A cancelled context is passed through
// unchanged so callers can tell shutdown apart from an unreachable upstream.
func transportError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return apperror.UpstreamUnavailable(op, err)
}

// statusError maps a non-OK upstream response to a typed failure. symbolStatuses lists the
// codes that mean the requested symbol is unknown to the upstream.
func statusError(op string, resp *http.Response, symbolStatuses ...int) error {
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, errorBody(resp))
	if resp.StatusCode == http.StatusTooManyRequests {
		return apperror.RateLimited(op, cause)
	}
	for _, code := range symbolStatuses {
		if resp.StatusCode == code {
			return apperror.InvalidSymbol(op, cause)
		}
	}
	return apperror.UpstreamUnavailable(op, cause)
}
