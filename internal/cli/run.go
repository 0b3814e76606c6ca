package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/config"
	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run named requests from a configuration file",
	Long: `Run requests defined in a YAML or JSON configuration file. Without
--request every request in the file runs, in name order. Variables given
with --var override those in the file.

Example:
  strider run -c api.yaml -r listUsers --var host=localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		names, _ := cmd.Flags().GetStringArray("request")
		rawVars, _ := cmd.Flags().GetStringArray("var")
		insecure, _ := cmd.Flags().GetBool("insecure")

		if configFile == "" {
			return errors.New("config file is required")
		}

		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if problems := config.Validate(cfg); len(problems) > 0 {
			var sb strings.Builder
			sb.WriteString("configuration validation errors:")
			for _, p := range problems {
				sb.WriteString("\n  - ")
				sb.WriteString(p.Error())
			}
			return errors.New(sb.String())
		}

		cliVars, err := parseVars(rawVars)
		if err != nil {
			return err
		}
		vars := config.MergeVariables(cfg.Variables, cliVars)

		if len(names) == 0 {
			for name := range cfg.Requests {
				names = append(names, name)
			}
			sort.Strings(names)
		}
		requests := make([]config.Request, len(names))
		for i, name := range names {
			if requests[i], err = cfg.Lookup(name); err != nil {
				return err
			}
		}

		if insecure {
			cfg.Client.Agent.InsecureSkipVerify = true
		}
		base, err := cfg.Client.ClientOptions()
		if err != nil {
			return err
		}
		s, err := newSession(cmd, base...)
		if err != nil {
			return err
		}
		defer s.close()

		failed := 0
		for i, req := range requests {
			if err := runRequest(cmd.Context(), s, req, vars); err != nil {
				failed++
				if !errors.As(err, new(*reportedError)) {
					return fmt.Errorf("request %q: %w", names[i], err)
				}
			}
		}

		if failed > 0 {
			return &reportedError{err: fmt.Errorf("%d of %d requests failed", failed, len(requests))}
		}
		return nil
	},
}

func runRequest(ctx context.Context, s *session, req config.Request, vars map[string]string) error {
	data := output.RequestData{
		Method: displayMethod(req.Method),
		URL:    config.ProcessVariables(req.URL, vars),
		Params: describeParams(config.ProcessValue(req.Params, vars)),
	}
	if req.HasBody {
		data.Body = describeBody(http.JSONBody(config.ProcessValue(req.Body, vars)))
	}

	return s.send(ctx, data, func(ctx context.Context) (*http.Result, error) {
		return config.Execute(ctx, s.client, req, vars)
	})
}

// displayMethod maps configuration methods to the HTTP verb sent.
func displayMethod(method string) string {
	switch strings.ToUpper(method) {
	case config.MethodPostForm, config.MethodPostJSON:
		return "POST"
	default:
		return strings.ToUpper(method)
	}
}

// parseVars turns key=value pairs into a variable map.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	runCmd.Flags().StringArrayP("request", "r", []string{}, "Request to run (repeatable, default all)")
	runCmd.Flags().StringArray("var", []string{}, "Variable as key=value, overriding the file")
}
