package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/doxly-hq/doxly-apiclient/internal/app"
	"github.com/doxly-hq/doxly-apiclient/internal/config"
	"github.com/doxly-hq/doxly-apiclient/internal/logger"
	"github.com/doxly-hq/doxly-apiclient/pkg/apiclient"
	"github.com/doxly-hq/doxly-apiclient/pkg/endpoints"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errReported marks failures that were already logged by the client.
var errReported = errors.New("reported")

type rootOptions struct {
	output string
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	root := &cobra.Command{
		Use:           "apictl",
		Short:         "Call the Doxly REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newProbeCmd(opts),
		newRequestCmd(opts),
		newCallCmd(opts),
		newEndpointsCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

// withApp loads config, starts logging and hands a ready App to fn.
func withApp(fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("apictl starting", "config", cfg)

	a, err := app.New(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize api client", "error", err)
		return err
	}
	defer a.Close()

	return fn(a)
}

func newProbeCmd(opts *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity against the health-check endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app.App) error {
				if watch {
					return a.Watch(cmd.Context())
				}
				res := a.Probe(cmd.Context())
				if err := opts.print(res); err != nil {
					return err
				}
				if !res.OK {
					return errReported
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "probe repeatedly at probe_interval until interrupted")
	return cmd
}

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		bodyFile string
		query    []string
	)
	cmd := &cobra.Command{
		Use:   "request METHOD ENDPOINT",
		Short: "Issue one request to an endpoint path relative to the base URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := endpoints.LoadPayload(bodyFile)
			if err != nil {
				return err
			}
			q, err := parsePairs(query)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				res, err := a.Request(cmd.Context(), apiclient.RequestConfig{
					Endpoint: args[1],
					Method:   args[0],
					Body:     body,
					Query:    q,
				})
				if err != nil {
					return reported(err)
				}
				return opts.print(res)
			})
		},
	}
	cmd.Flags().StringVarP(&bodyFile, "body-file", "f", "", "JSON or YAML request body (- for stdin)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	return cmd
}

func newCallCmd(opts *rootOptions) *cobra.Command {
	var (
		bodyFile string
		params   []string
		query    []string
	)
	cmd := &cobra.Command{
		Use:   "call ENDPOINT_ID",
		Short: "Call a named endpoint from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := endpoints.LoadPayload(bodyFile)
			if err != nil {
				return err
			}
			p, err := parsePairs(params)
			if err != nil {
				return err
			}
			q, err := parsePairs(query)
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				res, err := a.Call(cmd.Context(), args[0], p, q, body)
				if err != nil {
					return reported(err)
				}
				return opts.print(res)
			})
		},
	}
	cmd.Flags().StringVarP(&bodyFile, "body-file", "f", "", "JSON or YAML request body (- for stdin)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "path parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	return cmd
}

func newEndpointsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoint catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			structured := cmd.Flag("output") != nil && cmd.Flag("output").Changed
			return withApp(func(a *app.App) error {
				return opts.printEndpoints(a.Catalog().All(), structured)
			})
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored auth token",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set TOKEN",
			Short: "Store the auth token sent as 'Authorization: Token <TOKEN>'",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return withApp(func(a *app.App) error {
					return a.Store().SaveToken(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored auth token",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return withApp(func(a *app.App) error {
					return a.Store().ClearToken()
				})
			},
		},
	)
	return cmd
}

// reported keeps apiclient failures from being printed twice; they were logged already.
func reported(err error) error {
	if apiclient.Logged(err) {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return err
}

func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[k] = v
	}
	return out, nil
}

func (o *rootOptions) print(v any) error {
	switch strings.ToLower(o.output) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(o.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.output)
	}
}

// printEndpoints renders the catalog as a table unless --output was given.
func (o *rootOptions) printEndpoints(eps []endpoints.Endpoint, structured bool) error {
	if structured {
		return o.print(eps)
	}
	return printCatalog(o.out, eps)
}

func printCatalog(out io.Writer, eps []endpoints.Endpoint) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tPATH\tDESCRIPTION")
	for _, ep := range eps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ep.ID, ep.Method, ep.Path, ep.Description)
	}
	return tw.Flush()
}
