// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// accrual replays scenarios against the staking, splitter and fee engines, or
// serves their state over HTTP.
package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/accrual/api"
	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/keeper"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/metrics"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Accrual",
		Usage:     "Staking rewards, payment splitting and fee epochs",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			verbosityFlag,
			jsonLogsFlag,
		},
		Commands: []cli.Command{
			{
				Name:  "simulate",
				Usage: "replay a scenario of timestamped operations",
				Flags: []cli.Flag{
					configFlag,
					scenarioFlag,
					dataDirFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "serve",
				Usage: "serve the engine state over HTTP and distribute fees periodically",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiSlowQueriesThresholdFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					keeperIntervalFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openEngine opens the state under dataDir and applies cfg if the state is fresh.
func openEngine(dataDir string, cfg *Config) (*engine.Engine, func(), error) {
	db, err := openDB(dataDir)
	if err != nil {
		return nil, nil, err
	}
	e := engine.New(state.New(db), runtime.BlockContext{Time: cfg.GenesisTime})
	closeDB := func() {
		e.Close()
		log.Info("closing state database...")
		db.Close()
	}

	admin, err := e.Roles.Admin()
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if !admin.IsZero() {
		log.Info("resuming existing state", "admin", admin)
		return e, closeDB, nil
	}

	if err := e.Bootstrap(cfg.admin()); err != nil {
		closeDB()
		return nil, nil, errors.Wrap(err, "bootstrap")
	}
	if _, err := e.Update(runtime.BlockContext{Time: cfg.GenesisTime}, func(e *engine.Engine) error {
		return cfg.apply(e)
	}); err != nil {
		closeDB()
		return nil, nil, errors.Wrap(err, "apply config")
	}
	log.Info("state initialized", "admin", cfg.admin(), "genesis", cfg.GenesisTime)
	return e, closeDB, nil
}

func simulateAction(ctx *cli.Context) error {
	initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if !ctx.IsSet(scenarioFlag.Name) {
		return errors.New("--scenario is required")
	}
	sc, err := loadScenario(ctx.String(scenarioFlag.Name))
	if err != nil {
		return err
	}

	e, closeDB, err := openEngine(ctx.String(dataDirFlag.Name), cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	_, err = sc.run(e, cfg.GenesisTime, ctx.App.Writer)
	return err
}

func serveAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()
	initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if ctx.IsSet(keeperIntervalFlag.Name) {
		cfg.Keeper.Interval = ctx.Duration(keeperIntervalFlag.Name)
	}

	e, closeDB, err := openEngine(ctx.String(dataDirFlag.Name), cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var logAPIRequests atomic.Bool
	logAPIRequests.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeSubs := api.New(e, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      &logAPIRequests,
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("stopping API server...")
		closeSubs()
		stopAPI()
	}()
	log.Info("API server started", "url", apiURL)

	keeper.New(e, keeper.Options{
		Caller:   thor.NamedAddress(cfg.Keeper.Caller),
		Interval: cfg.Keeper.Interval,
	}).Run(handleExitSignal())
	return nil
}
