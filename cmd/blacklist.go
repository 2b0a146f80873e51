package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domainctl/internal/config"
	"domainctl/internal/reservation"
	"domainctl/pkg/logger"
)

// blacklistCommand constructs the 'blacklist' subcommand that blocks a
// hostname. Blacklisted domains accept no further transition and their jobs
// are cancelled.
func blacklistCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist <hostname>",
		Short: "Blocks a registered hostname",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			reason, _ := cmd.Flags().GetString("reason")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			// blacklisting never deletes, so no deprovisioner is needed
			manager := reservation.New(strg, nil, reservation.NewOptions(cfg))
			d, err := manager.Blacklist(ctx, args[0], reason)
			if err != nil {
				logger.Fatal(ctx, "could not blacklist domain", zap.Error(err))
			}

			logger.Info(ctx, "domain blacklisted",
				zap.Stringer("domainID", d.ID),
				zap.String("hostname", d.Hostname),
				zap.String("status", string(d.Status)))
		},
	}

	cmd.Flags().String("reason", "abuse", "Reason recorded on the domain")

	return cmd
}
