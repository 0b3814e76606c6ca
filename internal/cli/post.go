package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/internal/output"
)

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Make a POST request to the specified URL",
	Long: `Make a POST request. With --json the body is sent as JSON; otherwise
parameters given with -p are sent form-encoded.

Examples:
  strider post api.example.com/login -p user=alice -p password=secret
  strider post api.example.com/users --json '{"name":"alice"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readRequestInput(cmd, args[0])
		if err != nil {
			return err
		}

		if in.body.Supplied() {
			if in.params != nil {
				return errors.New("--json and -p cannot be combined on post")
			}
			return sendWith(cmd, output.RequestData{
				Method: "POST",
				URL:    in.url,
				Body:   describeBody(in.body),
			}, func(ctx context.Context, c *http.Client) (*http.Result, error) {
				return c.PostJSON(ctx, in.url, in.body, in.call...)
			})
		}

		return sendWith(cmd, output.RequestData{
			Method: "POST",
			URL:    in.url,
			Params: describeParams(in.params),
		}, func(ctx context.Context, c *http.Client) (*http.Result, error) {
			return c.PostForm(ctx, in.url, in.params, in.call...)
		})
	},
}

func init() {
	addRequestFlags(postCmd, true)
}
