package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/logingood/cdp-cucm/axl"
	"github.com/logingood/cdp-cucm/config"
	"github.com/logingood/cdp-cucm/internal/diag"
	"github.com/logingood/cdp-cucm/internal/lgr"
	"github.com/logingood/cdp-cucm/internal/prompt"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cucmquery",
		Usage: "look up a CUCM device description or run a raw AXL SQL query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "cmserver",
				Usage:    "IP of CUCM Server",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "cmport",
				Usage: "CUCM AXL port",
				Value: axl.DefaultPort,
			},
			&cli.StringFlag{
				Name:  "cmuser",
				Usage: "CUCM username",
			},
			&cli.StringFlag{
				Name:    "cmpass",
				Usage:   "CUCM password; leave out this option to be prompted",
				EnvVars: []string{"CUCM_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "devname",
				Usage: "device name",
			},
			&cli.StringFlag{
				Name:  "sql",
				Usage: "text of SQL query (unparsed output)",
			},
			&cli.StringFlag{
				Name:  "axl-version",
				Usage: "AXL schema version",
				Value: axl.DefaultVersion,
			},
			&cli.StringFlag{
				Name:  "axl-body",
				Usage: "how the SOAP body is built: xml|raw",
				Value: string(axl.BodyXML),
			},
			&cli.BoolFlag{
				Name:  "verify-tls",
				Usage: "validate the CUCM certificate",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.String("devname") == "" && c.String("sql") == "" {
		return errors.New("one of --devname or --sql is required")
	}

	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	logger := lgr.InitializeLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	cmpass, err := prompt.PasswordIfEmpty(c.String("cmpass"), "enter CUCM password: ")
	if err != nil {
		return err
	}
	client, err := axl.New(axl.Options{
		Host:      c.String("cmserver"),
		Port:      c.String("cmport"),
		Username:  c.String("cmuser"),
		Password:  cmpass,
		Version:   c.String("axl-version"),
		Body:      axl.BodyKind(c.String("axl-body")),
		VerifyTLS: c.Bool("verify-tls"),
	}, logger)
	if err != nil {
		return err
	}

	if sql := c.String("sql"); sql != "" {
		return runSQL(c.Context, c.App.Writer, client, sql)
	}

	description, err := client.DescriptionByName(c.Context, c.String("devname"))
	if err != nil {
		logger.Error("lookup failed", diag.Fields(err)...)
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%q\n", description)
	return err
}

// runSQL prints the response body as is. A rejected query is printed in
// full so the AXL fault is visible.
func runSQL(ctx context.Context, w io.Writer, client *axl.Client, sql string) error {
	body, err := client.ExecuteSQL(ctx, sql)
	var status *axl.StatusError
	switch {
	case errors.As(err, &status):
		if werr := diag.WriteResponse(w, status.Code, status.Header, status.Body); werr != nil {
			return werr
		}
		return cli.Exit("", 1)
	case err != nil:
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}
