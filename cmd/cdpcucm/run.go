package main

import (
	"errors"
	"fmt"

	"github.com/logingood/cdp-cucm/internal/diag"
	"github.com/logingood/cdp-cucm/ios"
	"github.com/logingood/cdp-cucm/models"
	"github.com/logingood/cdp-cucm/pipeline"
	"github.com/logingood/cdp-cucm/snmp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// runSwitch handles a single switch: discover phones, look up their
// descriptions, then print or apply the interface configuration.
func runSwitch(c *cli.Context) error {
	if c.String("switch") == "" || c.String("cmserver") == "" {
		return errors.New("--switch and --cmserver are required")
	}

	ctx, cancel, cfg, logger, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.Sync() //nolint:errcheck

	host := c.String("switch")
	auto := c.Bool("auto")
	discovery := c.String("discovery")

	// the switch password is only needed when we talk HTTP to the switch
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

	sw := ios.New(host, c.String("user"), password, logger, ios.WithVerifyTLS(c.Bool("verify-tls")))
	var discoverer pipeline.Discoverer = sw
	switch discovery {
	case "http":
	case "snmp":
		version, community := c.String("snmp-version"), c.String("community")
		s, err := snmp.New(&models.Device{Hostname: &host, SnmpVer: &version, Community: &community}, logger)
		if err != nil {
			return err
		}
		discoverer = s
	default:
		return fmt.Errorf("unknown discovery %q", discovery)
	}

	storer, stopAudit, err := openAudit(ctx, cfg, logger)
	if err != nil {
		return err
	}
	opts := []pipeline.Option{}
	if storer != nil {
		opts = append(opts, pipeline.WithRecorder(storer))
	}

	runner := pipeline.New(logger, host, discoverer, cucm, sw, opts...)
	runErr := runner.Run(ctx, c.App.Writer, auto, pipeline.Format(c.String("format")))
	if err := stopAudit(); err != nil {
		logger.Error("error flush audit", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("run failed", diag.Fields(runErr)...)
		return runErr
	}
	return nil
}
