package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domainctl/internal/api"
	"domainctl/internal/api/handler/v1handler"
	"domainctl/internal/certificate"
	"domainctl/internal/config"
	"domainctl/internal/reconfirmation"
	"domainctl/internal/reservation"
	"domainctl/internal/verification"
	"domainctl/internal/worker"
	"domainctl/pkg/certprovider"
	"domainctl/pkg/certprovider/acme"
	"domainctl/pkg/certprovider/customhostnames"
	"domainctl/pkg/certstore"
	"domainctl/pkg/certstore/dirstore"
	"domainctl/pkg/certstore/s3store"
	"domainctl/pkg/dnsresolver/dnsclient"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
	"domainctl/pkg/notifier"
	"domainctl/pkg/notifier/postmark"
	"domainctl/pkg/storage/postgres"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(ctx, deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func getCertstore(ctx context.Context, cfg *config.Config) certstore.Store {
	switch cfg.Certstore.Backend {
	case "s3":
		store, err := s3store.New(ctx, s3store.Config{
			Bucket:         cfg.Certstore.S3.Bucket,
			Region:         cfg.Certstore.S3.Region,
			Prefix:         cfg.Certstore.S3.Prefix,
			Endpoint:       cfg.Certstore.S3.Endpoint,
			AccessKeyID:    cfg.Certstore.S3.AccessKeyID,
			SecretKey:      cfg.Certstore.S3.SecretKey,
			ForcePathStyle: cfg.Certstore.S3.ForcePathStyle,
		})
		if err != nil {
			logger.Fatal(ctx, "could not create s3 certificate store", zap.Error(err))
		}

		return store
	case "dir", "":
		store, err := dirstore.New(cfg.Certstore.Dir)
		if err != nil {
			logger.Fatal(ctx, "could not create certificate directory", zap.Error(err))
		}

		return store
	default:
		logger.Fatal(ctx, "unknown certificate store backend", zap.String("backend", cfg.Certstore.Backend))

		return nil
	}
}

// getChain builds the provider chain in fallback order. The rate limiter is
// shared between the primary client and the queue workers.
func getChain(ctx context.Context, cfg *config.Config, limiter *worker.RateLimiter) *certprovider.Chain {
	var providers []certprovider.Provider

	if cfg.Provider.Enabled {
		providers = append(providers, customhostnames.New(
			&http.Client{Timeout: cfg.Provider.Timeout},
			customhostnames.Options{
				BaseURL: cfg.Provider.BaseURL,
				ZoneID:  cfg.Provider.ZoneID,
				Token:   cfg.Provider.Token,
			},
			limiter))
	}

	if cfg.ACME.Enabled {
		provider, err := acme.New(acme.Options{
			Email:         cfg.ACME.Email,
			CADirURL:      cfg.ACME.CADirURL,
			HTTP01Address: cfg.ACME.HTTP01Address,
			ProxyHeader:   cfg.ACME.ProxyHeader,
			MaxConcurrent: cfg.ACME.MaxConcurrent,
		}, getCertstore(ctx, cfg))
		if err != nil {
			logger.Fatal(ctx, "could not create acme provider", zap.Error(err))
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		logger.Warn(ctx, "no certificate provider is enabled, verified domains will not get certificates")
	}

	return certprovider.NewChain(providers...)
}

func getNotifier(ctx context.Context, cfg *config.Config) notifier.Notifier {
	sinks := notifier.Multi{notifier.Log{}}

	if cfg.Notification.Postmark.Enabled {
		sink, err := postmark.New(postmark.Config{
			ServerToken:  cfg.Notification.Postmark.ServerToken,
			AccountToken: cfg.Notification.Postmark.AccountToken,
			From:         cfg.Notification.Postmark.From,
			To:           cfg.Notification.Postmark.To,
		})
		if err != nil {
			logger.Fatal(ctx, "could not create postmark notifier", zap.Error(err))
		}
		sinks = append(sinks, sink)
	}

	return sinks
}

// getWorkerDeps builds the engines on top of the storage and adapters.
func getWorkerDeps(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) worker.Deps {
	resolver, err := dnsclient.New(dnsclient.Options{
		Nameservers: cfg.DNS.Nameservers,
		Timeout:     cfg.DNS.Timeout,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create dns resolver", zap.Error(err))
	}

	limiter := worker.NewRateLimiter()
	certificates := certificate.New(strg, getChain(ctx, cfg, limiter), certificate.NewOptions(cfg))

	return worker.Deps{
		Reservations:   reservation.New(strg, certificates, reservation.NewOptions(cfg)),
		Verification:   verification.New(strg, resolver, verification.NewOptions(cfg)),
		Certificates:   certificates,
		Reconfirmation: reconfirmation.New(strg, resolver, reconfirmation.NewOptions(cfg)),
		Notifier:       getNotifier(ctx, cfg),
		Limiter:        limiter,
	}
}

func setupWorkers(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL,
	deps worker.Deps,
) (*river.Client[pgx.Tx], func(ctx context.Context)) {
	// workers get their own context so in-flight jobs are stopped gracefully
	// instead of being cancelled by the interrupt.
	riverClient, err := worker.Start(context.WithoutCancel(ctx), strg.Pool, deps, worker.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}
	logger.Info(ctx, "workers started", zap.Int("maxWorkers", cfg.Worker.MaxWorkers))

	return riverClient, func(ctx context.Context) {
		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			deps := getWorkerDeps(ctx, cfg, strg)
			riverClient, stopWorkers := setupWorkers(ctx, cfg, strg, deps)

			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps:  v1handler.Deps{Reservations: deps.Reservations},
				Queue: riverClient,
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)

			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not shut down meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
