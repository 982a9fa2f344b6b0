package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/prerok/internal/app"
	"github.com/samvad-hq/prerok/internal/config"
	"github.com/samvad-hq/prerok/internal/logger"
	"github.com/samvad-hq/prerok/pkg/apiclient"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) {
			fmt.Fprintf(os.Stderr, "prerok: %d %s\n%s\n", httpErr.StatusCode, httpErr.Status, httpErr.RawBody)
		} else {
			fmt.Fprintf(os.Stderr, "prerok: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		profile string
		method  string
		headers []string
		query   []string
		data    string
		token   string
		list    bool
	)

	cmd := &cobra.Command{
		Use:           "prerok [flags] ENDPOINT",
		Short:         "Send one HTTP request against a configured API profile",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Close()

			logger.InfoObj("configuration loaded", "config", cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			requester, err := app.NewRequester(cfg, log, cmd.OutOrStdout())
			if err != nil {
				logger.ErrorObj("failed to initialize requester", "error", err)
				return err
			}

			if list {
				return requester.List()
			}

			if len(args) != 1 {
				return fmt.Errorf("exactly one ENDPOINT argument is required")
			}

			hdrs, err := app.ParseHeaders(headers)
			if err != nil {
				return err
			}
			params, err := app.ParseQuery(query)
			if err != nil {
				return err
			}

			return requester.Run(ctx, app.Invocation{
				Profile:  profile,
				Method:   method,
				Endpoint: args[0],
				Headers:  hdrs,
				Query:    params,
				Body:     data,
				Token:    token,
			})
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile id from the profiles file")
	cmd.Flags().StringVarP(&method, "method", "X", "", "HTTP method (default GET)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header, \"Key: Value\" (repeatable)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter, key=value (repeatable, order kept)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "raw JSON request body")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (overrides the profile's token env)")
	cmd.Flags().BoolVar(&list, "list", false, "list configured profiles and exit")

	return cmd
}
