package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/logingood/cdp-cucm/axl"
	"github.com/logingood/cdp-cucm/config"
	"github.com/logingood/cdp-cucm/internal/lgr"
	"github.com/logingood/cdp-cucm/internal/prompt"
	"github.com/logingood/cdp-cucm/storer/chouse"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// setup reads the environment, builds the logger and a context cancelled
// on ctrl + c.
func setup(parent context.Context) (context.Context, context.CancelFunc, *config.FromEnv, *zap.Logger, error) {
	ctx, cancel := context.WithCancel(parent)

	cfg, err := config.Load(ctx)
	if err != nil {
		cancel()
		return nil, nil, nil, nil, err
	}
	logger := lgr.InitializeLogger(cfg.LogLevel)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-c:
			logger.Info("interrupted")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()

	return ctx, cancel, cfg, logger, nil
}

func switchPassword(c *cli.Context) (string, error) {
	return prompt.PasswordIfEmpty(c.String("password"), "enter switch password: ")
}

func newCUCM(c *cli.Context, logger *zap.Logger) (*axl.Client, error) {
	cmpass, err := prompt.PasswordIfEmpty(c.String("cmpass"), "enter CUCM password: ")
	if err != nil {
		return nil, err
	}
	return axl.New(axl.Options{
		Host:      c.String("cmserver"),
		Port:      c.String("cmport"),
		Username:  c.String("cmuser"),
		Password:  cmpass,
		Version:   c.String("axl-version"),
		Body:      axl.BodyKind(c.String("axl-body")),
		VerifyTLS: c.Bool("verify-tls"),
	}, logger)
}

// openAudit starts the ClickHouse audit queue when it is configured. The
// returned stop func flushes the queue and must be called before exit.
func openAudit(ctx context.Context, cfg *config.FromEnv, logger *zap.Logger) (*chouse.ClickhouseClient, func() error, error) {
	if !cfg.AuditEnabled() {
		return nil, func() error { return nil }, nil
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{net.JoinHostPort(cfg.ClickhouseAddr, cfg.ClickhousePort)},
		Auth: clickhouse.Auth{
			Database: cfg.ClickhouseDb,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open clickhouse: %w", err)
	}

	storer := chouse.New(logger, conn, cfg.ClickhouseQueueLength, cfg.ClickhouseDb, cfg.ClickhouseTableName, cfg.ClickhouseFlushFrequency)
	if err := storer.InitDb(ctx); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("init audit table: %w", err)
	}

	eg := &errgroup.Group{}
	storer.StartQueue(ctx, eg)
	stop := func() error {
		storer.Close()
		err := eg.Wait()
		conn.Close()
		return err
	}
	return storer, stop, nil
}
