// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/whoosh-bridge/whoosh/api"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/cmd/whoosh/httpserver"
	"github.com/whoosh-bridge/whoosh/cmd/whoosh/node"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/log"
	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/metrics"
	cli "gopkg.in/urfave/cli.v1"
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
		Name:      "Whoosh",
		Usage:     "Node of the Whoosh bridge vault",
		Copyright: "2025 The Whoosh Bridge developers",
		Flags: []cli.Flag{
			configFlag,
			devFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiMessagesLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			verifyJournalFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "verify-journal",
				Usage: "verify the consistency of the journal and state databases",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: verifyJournalAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)

	// enable metrics as soon as possible
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			fatal(fmt.Sprintf("start metrics server: %v", err))
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel)
		if err != nil {
			fatal(fmt.Sprintf("start admin server: %v", err))
		}
		log.Info("admin server started", "url", url)
		defer closeFunc()
	}

	config := loadVaultConfig(ctx)

	var (
		stateDB     *lvldb.LevelDB
		journal     *bridgedb.BridgeDB
		instanceDir string
	)
	if ctx.Bool(devFlag.Name) {
		instanceDir = "Memory"
		stateDB = openMemStateDB()
		journal = openMemJournalDB()
	} else {
		instanceDir = makeInstanceDir(ctx, config.ChainTag)
		stateDB = openStateDB(instanceDir)
		journal = openJournalDB(instanceDir)
	}
	defer func() { log.Info("closing state database..."); stateDB.Close() }()
	defer func() { log.Info("closing journal database..."); journal.Close() }()

	ledgerConfig, err := config.ledgerConfig()
	if err != nil {
		fatal(fmt.Sprintf("load vault config: %v", err))
	}

	led, err := ledger.New(stateDB, journal, ledgerConfig)
	if err != nil {
		fatal(fmt.Sprintf("initialize ledger: %v", err))
	}

	exitSignal := handleExitSignal()

	if ctx.Bool(verifyJournalFlag.Name) {
		if err := verifyJournal(exitSignal, led, journal); err != nil {
			fatal(fmt.Sprintf("verify journal: %v", err))
		}
		if err := auditState(exitSignal, stateDB, ledgerConfig.Allocations); err != nil {
			fatal(fmt.Sprintf("audit state: %v", err))
		}
	}

	apiHandler, apiCloser := api.New(led, journal, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		MessagesLimit:   ctx.Uint64(apiMessagesLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(config, led, instanceDir, apiURL)
	if ctx.Bool(devFlag.Name) {
		printDevAccounts()
	}

	return node.New(led, journal).Run(exitSignal)
}

func verifyJournalAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	config := loadVaultConfig(ctx)

	instanceDir := makeInstanceDir(ctx, config.ChainTag)
	stateDB := openStateDB(instanceDir)
	defer func() { log.Info("closing state database..."); stateDB.Close() }()
	journal := openJournalDB(instanceDir)
	defer func() { log.Info("closing journal database..."); journal.Close() }()

	ledgerConfig, err := config.ledgerConfig()
	if err != nil {
		fatal(fmt.Sprintf("load vault config: %v", err))
	}

	led, err := ledger.New(stateDB, journal, ledgerConfig)
	if err != nil {
		fatal(fmt.Sprintf("initialize ledger: %v", err))
	}

	exitSignal := handleExitSignal()
	if err := verifyJournal(exitSignal, led, journal); err != nil {
		return err
	}
	return auditState(exitSignal, stateDB, ledgerConfig.Allocations)
}
