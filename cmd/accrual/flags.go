// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path of the YAML config applied to a fresh state",
		EnvVar: "ACCRUAL_CONFIG",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path of the YAML scenario to replay",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "datadir",
		Usage:  "directory for the state database, in memory when empty",
		EnvVar: "ACCRUAL_DATADIR",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "ACCRUAL_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Usage: "log API requests slower than this threshold",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "ACCRUAL_ENABLE_METRICS",
	}
	keeperIntervalFlag = cli.DurationFlag{
		Name:  "keeper-interval",
		Usage: "interval between fee distribution attempts, overrides the config",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "ACCRUAL_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "log-json",
		Usage: "output logs in JSON format",
	}
)
