package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response describes a completed round trip.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// Status is the HTTP status string (e.g., "200 OK")
	Status string

	// Headers contains the response headers
	Headers http.Header

	// RawBody is the response body exactly as received
	RawBody []byte

	// URL is the URL the caller asked for
	URL string

	// Method is the HTTP method that was sent
	Method string

	// RequestID is the value sent in the X-Request-Id header
	RequestID string

	// RemoteAddress is the peer address, if it became known
	RemoteAddress string

	// ResponseTime is the wall time of the whole call
	ResponseTime time.Duration

	// Timing contains phase timing when the client has timing enabled
	Timing TimingInfo
}

// Result is what a successful call returns.
type Result struct {
	Response *Response

	// Body is the decoded JSON value of the response body when it parses,
	// otherwise the raw text.
	Body any
}

// BodyString returns the response body as a string.
func (r *Response) BodyString() string {
	return string(r.RawBody)
}

// DecodeJSON unmarshals the response body into the provided interface.
//
// Example:
//
//	var users []User
//	if err := result.Response.DecodeJSON(&users); err != nil {
//	    log.Fatal(err)
//	}
func (r *Response) DecodeJSON(v interface{}) error {
	return json.Unmarshal(r.RawBody, v)
}

// GetHeader returns the value of the specified header.
// Returns an empty string if the header is not present.
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsError returns true if the response status code indicates an error (4xx or 5xx).
func (r *Response) IsError() bool {
	return r.IsClientError() || r.IsServerError()
}

// GetResponseTimeMillis returns the response time in milliseconds.
func (r *Response) GetResponseTimeMillis() int64 {
	return r.ResponseTime.Milliseconds()
}

// GetDNSLookupTimeMillis returns the DNS lookup time in milliseconds.
func (r *Response) GetDNSLookupTimeMillis() int64 {
	return r.Timing.DNSLookupTime.Milliseconds()
}

// GetTCPConnectTimeMillis returns the TCP connection time in milliseconds.
func (r *Response) GetTCPConnectTimeMillis() int64 {
	return r.Timing.TCPConnectTime.Milliseconds()
}

// GetTLSHandshakeTimeMillis returns the TLS handshake time in milliseconds.
func (r *Response) GetTLSHandshakeTimeMillis() int64 {
	return r.Timing.TLSHandshakeTime.Milliseconds()
}

// GetTimeToFirstByteMillis returns the time to first byte in milliseconds.
func (r *Response) GetTimeToFirstByteMillis() int64 {
	return r.Timing.TimeToFirstByte.Milliseconds()
}

// GetContentTransferTimeMillis returns the content transfer time in milliseconds.
func (r *Response) GetContentTransferTimeMillis() int64 {
	return r.Timing.ContentTransferTime.Milliseconds()
}

// GetTotalTimeMillis returns the total time in milliseconds.
func (r *Response) GetTotalTimeMillis() int64 {
	return r.Timing.TotalTime.Milliseconds()
}

// decodeBody parses raw as JSON, falling back to the raw text. It reports
// whether parsing succeeded. An empty body decodes to the empty string.
func decodeBody(raw []byte) (any, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), false
	}
	return v, true
}
