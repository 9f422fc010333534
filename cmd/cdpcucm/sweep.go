package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/logingood/cdp-cucm/axl"
	"github.com/logingood/cdp-cucm/config"
	"github.com/logingood/cdp-cucm/devices"
	"github.com/logingood/cdp-cucm/devices/file"
	"github.com/logingood/cdp-cucm/devices/sql"
	"github.com/logingood/cdp-cucm/internal/diag"
	"github.com/logingood/cdp-cucm/ios"
	"github.com/logingood/cdp-cucm/metrics"
	"github.com/logingood/cdp-cucm/models"
	"github.com/logingood/cdp-cucm/pipeline"
	"github.com/logingood/cdp-cucm/snmp"
	"github.com/logingood/cdp-cucm/worker"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errNoHostname = errors.New("inventory row has no hostname")

func sweepCommand() *cli.Command {
	flags := append(switchFlags(), cucmFlags(true)...)
	flags = append(flags, outputFlags()...)
	flags = append(flags, &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on this address, overrides METRICS_ADDR",
	})

	return &cli.Command{
		Name:   "sweep",
		Usage:  "run every switch of the inventory (INVENTORY_FILE or LibreNMS)",
		Flags:  flags,
		Action: runSweep,
	}
}

func runSweep(c *cli.Context) error {
	ctx, cancel, cfg, logger, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Sync() //nolint:errcheck

	if err := cfg.ValidateInventory(); err != nil {
		return err
	}
	inventory, closeInventory, err := openInventory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeInventory()

	auto := c.Bool("auto")
	discovery := c.String("discovery")
	if discovery != "http" && discovery != "snmp" {
		return fmt.Errorf("unknown discovery %q", discovery)
	}
	var password string
	if discovery == "http" || auto {
		if password, err = switchPassword(c); err != nil {
			return err
		}
	}
	cucm, err := newCUCM(c, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	addr := c.String("metrics-addr")
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := m.Serve(srvCtx, addr, logger); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	storer, stopAudit, err := openAudit(ctx, cfg, logger)
	if err != nil {
		return err
	}
	opts := []pipeline.Option{pipeline.WithMetrics(m)}
	if storer != nil {
		opts = append(opts, pipeline.WithRecorder(storer))
	}

	s := &sweeper{
		logger:    logger,
		cucm:      cucm,
		user:      c.String("user"),
		password:  password,
		verifyTLS: c.Bool("verify-tls"),
		discovery: discovery,
		auto:      auto,
		format:    pipeline.Format(c.String("format")),
		opts:      opts,
		out:       c.App.Writer,
	}

	eg, wctx := errgroup.WithContext(ctx)
	q := worker.New(logger, inventory, cfg.PollingInterval(), s.process, eg, cfg.WorkersNum)
	q.StartWorkerPool(wctx)
	eg.Go(func() error {
		return q.StartDispatcher(wctx)
	})

	sweepErr := eg.Wait()
	if err := stopAudit(); err != nil {
		logger.Error("error flush audit", zap.Error(err))
	}
	if sweepErr != nil {
		logger.Error("sweep failed", zap.Error(sweepErr))
		return sweepErr
	}
	logger.Info("sweep done", zap.Int("failed", s.failed))
	if s.failed > 0 {
		return fmt.Errorf("%d switches failed", s.failed)
	}
	return nil
}

func openInventory(cfg *config.FromEnv, logger *zap.Logger) (devices.Devices, func(), error) {
	if cfg.InventoryFile != "" {
		return file.New(cfg.InventoryFile, logger), func() {}, nil
	}

	db, err := sqlx.Connect("mysql", cfg.MySQLDSN())
	if err != nil {
		logger.Error("error create mysql conn", zap.Error(err))
		return nil, nil, err
	}
	return sql.New(db, cfg.DbQuery, logger), func() { db.Close() }, nil
}

type sweeper struct {
	logger    *zap.Logger
	cucm      *axl.Client
	user      string
	password  string
	verifyTLS bool
	discovery string
	auto      bool
	format    pipeline.Format
	opts      []pipeline.Option
	out       io.Writer

	mu     sync.Mutex
	failed int
}

// process runs one switch. Output is buffered so concurrent switches do not
// interleave on stdout.
func (s *sweeper) process(ctx context.Context, dev *models.Device) error {
	if dev.Hostname == nil || *dev.Hostname == "" {
		s.fail()
		s.logger.Error("bad address", zap.Int32("device_id", dev.DeviceID))
		return errNoHostname
	}

	sw := ios.New(*dev.Hostname, s.user, s.password, s.logger, ios.WithVerifyTLS(s.verifyTLS))
	var discoverer pipeline.Discoverer = sw
	if s.discovery == "snmp" {
		client, err := snmp.New(dev, s.logger)
		if err != nil {
			s.fail()
			return err
		}
		discoverer = client
	}

	var buf bytes.Buffer
	if s.format == pipeline.FormatText || s.auto {
		fmt.Fprintf(&buf, "! %s\n", dev.Name())
	}
	runner := pipeline.New(s.logger, dev.Name(), discoverer, s.cucm, sw, s.opts...)
	err := runner.Run(ctx, &buf, s.auto, s.format)

	s.mu.Lock()
	_, _ = s.out.Write(buf.Bytes())
	s.mu.Unlock()

	if err != nil {
		s.fail()
		s.logger.Error("switch failed", append(diag.Fields(err), zap.String("device", dev.Name()))...)
	}
	return err
}

func (s *sweeper) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}
