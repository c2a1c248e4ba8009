// Copyright (c) 2020 The Meter.io developers

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
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/xenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "gopkg.in/urfave/cli.v1"
)

func initLogger(ctx *cli.Context) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.Level(ctx.Int(verbosityFlag.Name)),
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
	log = slog.Default().With("pkg", "auctiond")
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	if ctx.Bool(devFlag.Name) {
		return genesis.NewDevnet()
	}
	path := ctx.String(configFlag.Name)
	if path == "" {
		fatal("either --config or --dev is required")
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis config [%v]: %v", path, err))
	}
	gene, err := genesis.NewFromConfig(cfg)
	if err != nil {
		fatal(fmt.Sprintf("build genesis [%v]: %v", path, err))
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, dataDir string) *lvldb.LevelDB {
	if ctx.Bool(devFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal("open mem main db:", err)
		}
		return db
	}
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              ctx.Int(cacheSizeFlag.Name),
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func openLogDB(ctx *cli.Context, dataDir string) *logdb.LogDB {
	if ctx.Bool(devFlag.Name) {
		db, err := logdb.NewMem()
		if err != nil {
			fatal("open mem log db:", err)
		}
		return db
	}
	path := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", path, err))
	}
	return db
}

func selectClock(ctx *cli.Context) (xenv.Clock, func(stop <-chan struct{})) {
	server := ctx.String(ntpServerFlag.Name)
	if server == "" {
		return xenv.SystemClock{}, nil
	}
	clock := xenv.NewNTPClock(server)
	if err := clock.Sync(); err != nil {
		log.Warn("initial NTP sync failed", "server", server, "err", err)
	}
	return clock, func(stop <-chan struct{}) {
		clock.Run(10*time.Minute, stop)
	}
}

func serve(name string, srv *http.Server, listener net.Listener, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error(name+" service stopped", "err", err)
		}
	}()
}

func startAPIServer(ctx *cli.Context, handler http.Handler, genesisID meter.Bytes32) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}

	timeout := ctx.Int(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXGenesisID(handler, genesisID)
	handler = handleXVersion(handler)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	var wg sync.WaitGroup
	serve("API", srv, listener, &wg)
	return "http://" + listener.Addr().String() + "/", func() {
		if err := srv.Close(); err != nil {
			log.Warn("could not close API service", "err", err)
		}
		wg.Wait()
	}
}

func startMetricsServer(ctx *cli.Context) (string, func()) {
	addr := ctx.String(metricsAddrFlag.Name)
	if addr == "" {
		return "disabled", func() {}
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr [%v]: %v", addr, err))
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	var wg sync.WaitGroup
	serve("metrics", srv, listener, &wg)
	return "http://" + listener.Addr().String() + "/metrics", func() {
		if err := srv.Close(); err != nil {
			log.Warn("could not close metrics service", "err", err)
		}
		wg.Wait()
	}
}

func printStartupMessage(gene *genesis.Genesis, instanceDir, apiURL, metricsURL string, seq uint64) {
	fmt.Printf(`Starting %v
    Network     [ %v %v ]
    Chain tag   [ %#02x ]
    Last seq    [ %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
`,
		fullVersion(),
		gene.ID(), gene.Name(),
		gene.ChainTag(),
		seq,
		instanceDir,
		apiURL,
		metricsURL)
}
