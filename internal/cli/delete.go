// Copyright (c) 2025, Wesley Brown
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:   "delete URL",
	Short: "Make a DELETE request to the specified URL",
	Long: `Make a DELETE request. Parameters given with -p become the query
string. A body is sent only when --json is given; --json null sends an
explicit null.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readRequestInput(cmd, args[0])
		if err != nil {
			return err
		}
		return sendWith(cmd, output.RequestData{
			Method: "DELETE",
			URL:    in.url,
			Params: describeParams(in.params),
			Body:   describeBody(in.body),
		}, func(ctx context.Context, c *http.Client) (*http.Result, error) {
			return c.Delete(ctx, in.url, in.params, in.body, in.call...)
		})
	},
}

func init() {
	addRequestFlags(deleteCmd, true)
}
