package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/metrics"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat maps a --output flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req RequestData) string
	FormatResult(result *http.Result) string
	FormatError(err error) string
	FormatStats(stats metrics.Snapshot) string
}

// RequestData describes a request about to be sent.
type RequestData struct {
	Method    string `json:"method" yaml:"method"`
	URL       string `json:"url" yaml:"url"`
	Params    string `json:"params,omitempty" yaml:"params,omitempty"`
	Body      any    `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode    int               `json:"statusCode" yaml:"statusCode"`
	Status        string            `json:"status" yaml:"status"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body          any               `json:"body,omitempty" yaml:"body,omitempty"`
	RemoteAddress string            `json:"remoteAddress,omitempty" yaml:"remoteAddress,omitempty"`
	RequestID     string            `json:"requestId" yaml:"requestId"`
	ResponseTime  int64             `json:"responseTimeMs" yaml:"responseTimeMs"`
	Timing        *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp     string            `json:"timestamp" yaml:"timestamp"`
}

// ErrorData represents a failed call.
type ErrorData struct {
	Kind          string        `json:"kind" yaml:"kind"`
	Message       string        `json:"message" yaml:"message"`
	URL           string        `json:"url,omitempty" yaml:"url,omitempty"`
	RemoteAddress string        `json:"remoteAddress,omitempty" yaml:"remoteAddress,omitempty"`
	RequestID     string        `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Timeout       bool          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Response      *ResponseData `json:"response,omitempty" yaml:"response,omitempty"`
}

// NewResponseData flattens a result for serialization. Timing is included
// only when it was measured.
func NewResponseData(result *http.Result) ResponseData {
	resp := result.Response

	headers := make(map[string]string, len(resp.Headers))
	for key, values := range resp.Headers {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	data := ResponseData{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Headers:       headers,
		Body:          result.Body,
		RemoteAddress: resp.RemoteAddress,
		RequestID:     resp.RequestID,
		ResponseTime:  resp.GetResponseTimeMillis(),
		Timestamp:     time.Now().Format(time.RFC3339),
	}
	if resp.Timing.TotalTime > 0 {
		data.Timing = &TimingData{
			DNSLookup:       resp.GetDNSLookupTimeMillis(),
			TCPConnection:   resp.GetTCPConnectTimeMillis(),
			TLSHandshake:    resp.GetTLSHandshakeTimeMillis(),
			TimeToFirstByte: resp.GetTimeToFirstByteMillis(),
			ContentTransfer: resp.GetContentTransferTimeMillis(),
			Total:           resp.GetTotalTimeMillis(),
		}
	}
	return data
}

// NewErrorData classifies err by the client's error types.
func NewErrorData(err error) ErrorData {
	data := ErrorData{Kind: "error", Message: err.Error()}

	var (
		cerr *http.ConfigurationError
		verr *http.ValidationError
		terr *http.TransportError
		rerr *http.ResponseRejection
	)
	switch {
	case errors.As(err, &cerr):
		data.Kind = "configuration"
	case errors.As(err, &verr):
		data.Kind = "validation"
	case errors.As(err, &terr):
		data.Kind = "transport"
		data.Timeout = errors.Is(err, http.ErrTimeout)
	case errors.As(err, &rerr):
		data.Kind = "rejected"
		if rerr.Result != nil && rerr.Result.Response != nil {
			response := NewResponseData(rerr.Result)
			data.Response = &response
		}
	}

	if meta, ok := http.MetaOf(err); ok {
		data.URL = meta.URL
		data.RemoteAddress = meta.RemoteAddress
		data.RequestID = meta.RequestID
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) marshal(v any) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "failed to marshal output: "+err.Error())
	}
	return string(output)
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req RequestData) string {
	return f.marshal(req)
}

// FormatResult formats a result as JSON
func (f *JSONFormatter) FormatResult(result *http.Result) string {
	return f.marshal(NewResponseData(result))
}

// FormatError formats a failure as JSON
func (f *JSONFormatter) FormatError(err error) string {
	return f.marshal(NewErrorData(err))
}

// FormatStats formats latency statistics as JSON
func (f *JSONFormatter) FormatStats(stats metrics.Snapshot) string {
	return f.marshal(stats)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) marshal(v any) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: failed to marshal output: %s\n", err)
	}
	return string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req RequestData) string {
	return f.marshal(req)
}

// FormatResult formats a result as YAML
func (f *YAMLFormatter) FormatResult(result *http.Result) string {
	return f.marshal(NewResponseData(result))
}

// FormatError formats a failure as YAML
func (f *YAMLFormatter) FormatError(err error) string {
	return f.marshal(NewErrorData(err))
}

// FormatStats formats latency statistics as YAML
func (f *YAMLFormatter) FormatStats(stats metrics.Snapshot) string {
	return f.marshal(stats)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: !noColor}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}
