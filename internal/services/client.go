package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	upstreamTimeout = 10 * time.Second
	maxFetchRetries = 3
)

func newUpstreamClient() *http.Client {
	return &http.Client{Timeout: upstreamTimeout}
}

// fetchJSON issues one rate-limited GET against an upstream API and
// decodes the body into out. Transient failures (transport errors, 429,
// 5xx) are retried with doubling backoff; anything else fails
// immediately. Callers decide whether a failure degrades or aborts.
func fetchJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, headers map[string]string, out any) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed for %s: %w", url, err)
		}
	}

	backoff := 1 * time.Second
	var lastErr error
	for attempt := 1; attempt <= maxFetchRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("building request for %s: %w", url, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("GET %s failed: %w", url, err)
		} else {
			lastErr = decodeResponse(resp, url, out)
			if lastErr == nil {
				return nil
			}
			if !isRetryable(resp.StatusCode) {
				return lastErr
			}
		}

		log.Printf("WARN: Upstream fetch attempt %d/%d failed: %v", attempt, maxFetchRetries, lastErr)
		select {
		case <-ctx.Done():
			return fmt.Errorf("fetch cancelled for %s: %w", url, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("fetch failed after %d attempts: %w", maxFetchRetries, lastErr)
}

func decodeResponse(resp *http.Response, url string, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limit exceeded (429) for %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed for %s with status: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading API response for %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("JSON parsing failed for %s: %w", url, err)
	}
	return nil
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
