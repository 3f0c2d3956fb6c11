// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"

	"github.com/whoosh-bridge/whoosh/api/doc"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/co"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/log"
	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/whoosh"
	cli "gopkg.in/urfave/cli.v1"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse verbosity flag: %v", err))
	}

	logLevel := &slog.LevelVar{}
	logLevel.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))

	return logLevel
}

// makeInstanceDir creates the per chain directory holding the databases of
// this vault instance.
func makeInstanceDir(ctx *cli.Context, chainTag byte) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%02x", chainTag))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openStateDB(instanceDir string) *lvldb.LevelDB {
	dir := filepath.Join(instanceDir, "state.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		fatal(fmt.Sprintf("open state database [%v]: %v", dir, err))
	}
	return db
}

func openJournalDB(instanceDir string) *bridgedb.BridgeDB {
	dir := filepath.Join(instanceDir, "journal.db")
	db, err := bridgedb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open journal database [%v]: %v", dir, err))
	}
	return db
}

func openMemStateDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open state database: %v", err))
	}
	return db
}

func openMemJournalDB() *bridgedb.BridgeDB {
	db, err := bridgedb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open journal database: %v", err))
	}
	return db
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	// no read timeouts here, the subscription websockets stay open for long
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func printStartupMessage(config *vaultConfig, led *ledger.Ledger, instanceDir string, apiURL string) {
	summary, err := led.Summary()
	if err != nil {
		fatal(fmt.Sprintf("read vault summary: %v", err))
	}

	fmt.Printf(`Starting %v
    Chain tag    [ %#x ]
    Head version [ %v ]
    Owner        [ %v ]
    Total staked [ %v ]
    Pool balance [ %v ]
    Instance dir [ %v ]
    API portal   [ %v (doc v%v) ]
`,
		common.MakeName("Whoosh", fullVersion()),
		config.ChainTag,
		summary.Version,
		summary.Owner,
		summary.TotalStaked,
		summary.PoolBalance,
		instanceDir,
		apiURL, doc.Version())
}

func printDevAccounts() {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	info := tableHead
	for _, a := range DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			whoosh.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
