package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/internal/output"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Make a GET request to the specified URL",
	Long: `Make a GET request. Parameters given with -p become the query string
in the order they appear on the command line.

Example:
  strider get api.example.com/users -p limit=10 -p offset=20 --status 200`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readRequestInput(cmd, args[0])
		if err != nil {
			return err
		}
		return sendWith(cmd, output.RequestData{
			Method: "GET",
			URL:    in.url,
			Params: describeParams(in.params),
		}, func(ctx context.Context, c *http.Client) (*http.Result, error) {
			return c.Get(ctx, in.url, in.params, in.call...)
		})
	},
}

// sendWith opens a session from the command's flags, sends one request and
// closes the session.
func sendWith(cmd *cobra.Command, req output.RequestData, call func(context.Context, *http.Client) (*http.Result, error)) error {
	insecure, _ := cmd.Flags().GetBool("insecure")
	s, err := newSession(cmd, http.WithAgentOptions(http.AgentOptions{InsecureSkipVerify: insecure}))
	if err != nil {
		return err
	}
	defer s.close()

	return s.send(cmd.Context(), req, func(ctx context.Context) (*http.Result, error) {
		return call(ctx, s.client)
	})
}

func init() {
	addRequestFlags(getCmd, false)
}
