package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/deckhand/internal/runtime"
)

func tokenCMD(opts *rootOptions) *cobra.Command {
	var subject string
	var ttl time.Duration
	var scopes []string
	var token = &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			tok, err := runtime.SignJWT(subject, []byte(cfg.Server.JWTSecret), ttl, scopes...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	token.Flags().StringVar(&subject, "subject", "agent", "token subject")
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	token.Flags().StringSliceVar(&scopes, "scope", []string{runtime.ScopeTools}, "scopes to grant")
	return token
}
