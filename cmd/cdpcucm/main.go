package main

import (
	"fmt"
	"os"

	"github.com/logingood/cdp-cucm/axl"
	"github.com/logingood/cdp-cucm/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newApp keeps the root flags optional, urfave checks required root flags
// before it dispatches to a subcommand.
func newApp() *cli.App {
	return &cli.App{
		Name:  "cdpcucm",
		Usage: "describe switch ports after the CUCM description of the attached IP phone",
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:  "switch",
				Usage: "IP address of switch",
			},
		}, switchFlags()...), append(cucmFlags(false), outputFlags()...)...),
		Action:   runSwitch,
		Commands: []*cli.Command{sweepCommand()},
	}
}

func switchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "user",
			Usage: "username for switch",
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "password for switch; omit option for interactive prompt",
			EnvVars: []string{"SWITCH_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "discovery",
			Usage: "how to read the CDP table: http|snmp",
			Value: "http",
		},
		&cli.StringFlag{
			Name:    "community",
			Usage:   "SNMP community for --discovery snmp",
			EnvVars: []string{"SNMP_COMMUNITY"},
		},
		&cli.StringFlag{
			Name:  "snmp-version",
			Usage: "SNMP version for --discovery snmp: 1|v2c",
			Value: "v2c",
		},
		&cli.BoolFlag{
			Name:  "verify-tls",
			Usage: "validate switch and CUCM certificates",
		},
	}
}

func cucmFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "cmserver",
			Usage:    "IP of CUCM Server",
			Required: required,
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
			Usage:   "CUCM password; omit option for interactive prompt",
			EnvVars: []string{"CUCM_PASSWORD"},
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
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "auto",
			Usage: "autoconfigure interface descriptions (requires config privilege on switch)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "output of the proposed configuration: text|json|yaml",
			Value: string(pipeline.FormatText),
		},
	}
}
