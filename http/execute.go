package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptrace"
	"time"
)

// execute issues exactly one round trip for d.
//
// The peer address is captured on a best-effort basis and sealed once the
// outcome is known; whether it was captured never changes the outcome.
func (c *Client) execute(ctx context.Context, d *descriptor) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	remote := &RemoteAddr{}
	start := time.Now()
	tr := newTracer(start, d.timing, remote)

	req, err := d.httpRequest(httptrace.WithClientTrace(ctx, tr.clientTrace()))
	if err != nil {
		return nil, c.transportFailure(d, remote, start, err)
	}

	c.logger.Debug("dispatching request",
		"request_id", d.id,
		"method", d.method,
		"url", d.rawURL,
		"timeout", d.timeout)

	resp, err := d.agent.client.Do(req)
	if err != nil {
		return nil, c.transportFailure(d, remote, start, err)
	}

	transferStart := time.Now()
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, c.transportFailure(d, remote, start, fmt.Errorf("reading response body: %w", err))
	}
	transfer := time.Since(transferStart)

	addr, _ := remote.Seal()
	elapsed := time.Since(start)

	response := &Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Headers:       resp.Header,
		RawBody:       raw,
		URL:           d.rawURL,
		Method:        d.method,
		RequestID:     d.id,
		RemoteAddress: addr,
		ResponseTime:  elapsed,
	}
	if d.timing {
		response.Timing = tr.finish(elapsed, transfer)
		c.recorder.Record(d.method, elapsed, len(raw), true)
	}

	body, parsed := decodeBody(raw)
	if !parsed && len(raw) > 0 {
		// Not an error here; the validator decides whether text is acceptable.
		c.logger.Debug("response body is not JSON, passing raw text",
			"request_id", d.id,
			"url", d.rawURL,
			"content_type", resp.Header.Get("Content-Type"))
	}

	result := &Result{Response: response, Body: body}

	c.logger.Debug("request completed",
		"request_id", d.id,
		"method", d.method,
		"url", d.rawURL,
		"status", resp.StatusCode,
		"remote_addr", addr,
		"elapsed", elapsed)

	if err := d.validator.Validate(result); err != nil {
		c.logger.Warn("response rejected",
			"request_id", d.id,
			"url", d.rawURL,
			"status", resp.StatusCode,
			"error", err)
		return nil, &ResponseRejection{
			OriginalError: err,
			Meta:          Meta{URL: d.rawURL, RemoteAddress: addr, RequestID: d.id},
			Result:        result,
		}
	}
	return result, nil
}

func (c *Client) transportFailure(d *descriptor, remote *RemoteAddr, start time.Time, err error) error {
	addr, _ := remote.Seal()
	elapsed := time.Since(start)
	if d.timing {
		c.recorder.Record(d.method, elapsed, 0, false)
	}

	terr := &TransportError{
		OriginalError: err,
		Meta:          Meta{URL: d.rawURL, RemoteAddress: addr, RequestID: d.id},
	}

	attrs := []any{
		"request_id", d.id,
		"method", d.method,
		"url", d.rawURL,
		"elapsed", elapsed,
		"error", err,
	}
	if addr != "" {
		attrs = append(attrs, "remote_addr", addr)
	}
	if terr.Is(ErrTimeout) {
		attrs = append(attrs, slog.Bool("timeout", true))
	}
	c.logger.Warn("request failed", attrs...)
	return terr
}
