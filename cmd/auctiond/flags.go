// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for auction databases",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "genesis config file (yaml)",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "run on the dev genesis with in-memory databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:9090",
		Usage: "prometheus metrics listening address, empty to disable",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(slog.LevelInfo),
		Usage: "log level (-4 debug, 0 info, 4 warn, 8 error)",
	}
	natsURLFlag = cli.StringFlag{
		Name:  "nats-url",
		Usage: "publish auction events to this NATS server",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Usage: "correct the auction clock against this NTP server",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache-size",
		Value: 256,
		Usage: "database cache size in MiB",
	}
	listingFlag = cli.StringFlag{
		Name:  "listing",
		Usage: "listing id",
	}
)
