package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/dnscache"
	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/internal/output"
)

// session is one command invocation's client and output settings.
type session struct {
	client    *http.Client
	resolver  *dnscache.Resolver
	formatter output.FormatProvider
	format    output.OutputFormat
	out       io.Writer
	errOut    io.Writer
	cancel    context.CancelFunc
}

// newSession builds the client from the persistent flags. base holds
// options derived elsewhere, such as a configuration file; flags that were
// set explicitly are applied after it and win.
func newSession(cmd *cobra.Command, base ...http.ClientOption) (*session, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	outputFlag, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetInt("timeout")
	timing, _ := cmd.Flags().GetBool("timing")
	noDNSCache, _ := cmd.Flags().GetBool("no-dns-cache")

	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); !ok || !output.IsTerminal(f) {
		noColor = true
	}

	logger := slog.Default()
	opts := append([]http.ClientOption{http.WithLogger(logger)}, base...)
	if cmd.Flags().Changed("timeout") && timeout != 0 {
		opts = append(opts, http.WithTimeoutMsecs(timeout))
	}
	if timing {
		opts = append(opts, http.WithTiming(true))
	}

	s := &session{
		formatter: output.GetFormatter(format, verbose, noColor),
		format:    format,
		out:       out,
		errOut:    cmd.ErrOrStderr(),
		cancel:    func() {},
	}

	if !noDNSCache {
		s.resolver = dnscache.New(dnscache.WithLogger(logger))
		opts = append(opts, http.WithResolver(s.resolver))
	}

	client, err := http.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	s.client = client

	if s.resolver != nil {
		ctx, cancel := context.WithCancel(cmd.Context())
		s.resolver.Start(ctx, dnscache.DefaultRefreshInterval)
		s.cancel = cancel
	}
	return s, nil
}

// send prints the request, issues it and prints the outcome. Text output
// sends failures to stderr; structured formats keep them on stdout so the
// stream stays parseable.
func (s *session) send(ctx context.Context, req output.RequestData, call func(context.Context) (*http.Result, error)) error {
	req.Timestamp = time.Now().Format(time.RFC3339)
	if s.format == output.FormatText {
		emit(s.out, s.formatter.FormatRequest(req))
	}

	result, err := call(ctx)
	if err != nil {
		w := s.out
		if s.format == output.FormatText {
			w = s.errOut
		}
		emit(w, s.formatter.FormatError(err))
		return &reportedError{err: err}
	}

	emit(s.out, s.formatter.FormatResult(result))
	return nil
}

// close prints latency statistics when any were recorded and releases the
// client's idle connections.
func (s *session) close() {
	stats := s.client.Stats()
	if stats.TotalRequests > 0 {
		emit(s.out, s.formatter.FormatStats(stats))
	}
	if s.resolver != nil {
		lookups, misses := s.resolver.Stats()
		slog.Debug("dns cache", "lookups", lookups, "misses", misses)
	}
	s.client.CloseIdleConnections()
	s.cancel()
}

func emit(w io.Writer, s string) {
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	fmt.Fprint(w, s)
}
