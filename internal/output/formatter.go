package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/metrics"
)

// Formatter is responsible for formatting requests and results in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  SchemeFor(noColor),
	}
}

// FormatRequest formats a request for display
func (f *Formatter) FormatRequest(req RequestData) string {
	var buf strings.Builder

	url := req.URL
	if req.Params != "" && req.Method != "POST" {
		url += "?" + req.Params
	}
	fmt.Fprintf(&buf, "▶ REQUEST: %s %s\n", f.scheme.Method.Sprint(req.Method), f.scheme.URL.Sprint(url))

	if req.Method == "POST" && req.Params != "" {
		fmt.Fprintf(&buf, "  Form: %s\n", req.Params)
	}
	if req.Body != nil {
		buf.WriteString("  Body: ")
		buf.WriteString(formatValue(req.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResult formats a completed round trip for display
func (f *Formatter) FormatResult(result *http.Result) string {
	var buf strings.Builder
	resp := result.Response

	statusColor := f.scheme.StatusError
	if resp.IsSuccess() {
		statusColor = f.scheme.StatusOK
	} else if resp.IsRedirect() {
		statusColor = f.scheme.StatusWarn
	}

	fmt.Fprintf(&buf, "◀ RESPONSE: %s (%dms)\n", statusColor.Sprint(resp.Status), resp.GetResponseTimeMillis())

	if f.Verbose {
		if resp.RemoteAddress != "" {
			fmt.Fprintf(&buf, "  Remote: %s\n", resp.RemoteAddress)
		}
		fmt.Fprintf(&buf, "  Request ID: %s\n", resp.RequestID)
	}

	if f.Verbose && resp.Timing.TotalTime > 0 {
		buf.WriteString("  Timing:\n")
		fmt.Fprintf(&buf, "    DNS Lookup:         %dms\n", resp.GetDNSLookupTimeMillis())
		fmt.Fprintf(&buf, "    TCP Connection:     %dms\n", resp.GetTCPConnectTimeMillis())
		fmt.Fprintf(&buf, "    TLS Handshake:      %dms\n", resp.GetTLSHandshakeTimeMillis())
		fmt.Fprintf(&buf, "    Time to First Byte: %dms\n", resp.GetTimeToFirstByteMillis())
		fmt.Fprintf(&buf, "    Content Transfer:   %dms\n", resp.GetContentTransferTimeMillis())
		fmt.Fprintf(&buf, "    Total:              %dms\n", resp.GetTotalTimeMillis())
	}

	if f.Verbose && len(resp.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		keys := make([]string, 0, len(resp.Headers))
		for key := range resp.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range resp.Headers[key] {
				fmt.Fprintf(&buf, "    %s: %s\n", f.scheme.HeaderKey.Sprint(key), value)
			}
		}
	}

	if len(resp.RawBody) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(string(resp.RawBody)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatError formats a failed call for display
func (f *Formatter) FormatError(err error) string {
	var buf strings.Builder
	data := NewErrorData(err)

	label := data.Kind
	if data.Timeout {
		label = "timeout"
	}
	fmt.Fprintf(&buf, "%s %s %s\n", ErrorIcon(f.NoColor), f.scheme.Label.Sprintf("[%s]", label), f.scheme.Error.Sprint(data.Message))

	if data.RemoteAddress != "" {
		fmt.Fprintf(&buf, "  Remote: %s\n", data.RemoteAddress)
	}
	if f.Verbose && data.RequestID != "" {
		fmt.Fprintf(&buf, "  Request ID: %s\n", data.RequestID)
	}
	return buf.String()
}

// FormatStats formats latency statistics for display
func (f *Formatter) FormatStats(stats metrics.Snapshot) string {
	if stats.TotalRequests == 0 {
		return ""
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "Requests: %d (%d failed)\n", stats.TotalRequests, stats.FailedRequests)
	fmt.Fprintf(&buf, "Latency:  min %v  p50 %v  p90 %v  p99 %v  max %v\n",
		stats.Latency.Min, stats.Latency.P50, stats.Latency.P90, stats.Latency.P99, stats.Latency.Max)
	return buf.String()
}

// formatValue renders a request body the way it will be sent.
func formatValue(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return formatJSONString(string(encoded))
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
