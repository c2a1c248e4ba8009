// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/state"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
	log       = slog.Default().With("pkg", "auctiond")
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
		Name:      "auctiond",
		Usage:     "English auction engine for NFT listings",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			devFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			metricsAddrFlag,
			verbosityFlag,
			natsURLFlag,
			ntpServerFlag,
			cacheSizeFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "inspect",
				Usage: "dump the stored record of a listing",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					cacheSizeFlag,
					listingFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)

	mainDB := openMainDB(ctx, instanceDir)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(ctx, instanceDir)
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	creator := state.NewCreatorWithCache(mainDB, ctx.Int(cacheSizeFlag.Name)*1024)
	built, err := gene.Build(creator)
	if err != nil {
		fatal("initialize genesis:", err)
	}
	if built {
		log.Info("genesis written", "id", gene.ID(), "name", gene.Name())
	}

	clock, runClock := selectClock(ctx)
	stopClock := make(chan struct{})
	if runClock != nil {
		go runClock(stopClock)
	}
	defer close(stopClock)

	exec := runtime.New(creator, script.NewScriptEngine(nil), clock, gene.ChainTag())
	if lastSeq, err := logDB.LastSeq(exitSignal); err == nil && lastSeq < exec.Seq() {
		log.Warn("log db is behind state", "logSeq", lastSeq, "seq", exec.Seq())
	}
	exec.AddSink(logDB)

	hub := subscriptions.New(api.ParseOrigins(ctx.String(apiCorsFlag.Name)))
	defer hub.Close()
	exec.AddSink(hub)

	if url := ctx.String(natsURLFlag.Name); url != "" {
		nc, err := runtime.ConnectNATS(url)
		if err != nil {
			fatal(fmt.Sprintf("connect NATS [%v]: %v", url, err))
		}
		defer nc.Close()
		exec.AddSink(runtime.NewNATSSink(nc))
	}

	handler := api.New(exec, gene.ID(), logDB, hub, api.ParseOrigins(ctx.String(apiCorsFlag.Name)))
	apiURL, srvCloser := startAPIServer(ctx, handler, gene.ID())
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	metricsURL, metricsCloser := startMetricsServer(ctx)
	defer metricsCloser()

	printStartupMessage(gene, instanceDir, apiURL, metricsURL, exec.Seq())

	<-exitSignal.Done()
	return nil
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	id := meter.ListingID(ctx.String(listingFlag.Name))
	if id == "" {
		return fmt.Errorf("--%s is required", listingFlag.Name)
	}
	gene := selectGenesis(ctx)
	mainDB := openMainDB(ctx, makeInstanceDir(ctx, gene))
	defer mainDB.Close()

	st := state.NewCreator(mainDB).NewState()
	if !st.HasAuction(id) {
		return fmt.Errorf("listing %v not found", id)
	}
	spew.Dump(st.GetAuction(id))
	if err := st.Err(); err != nil {
		return err
	}
	return nil
}
