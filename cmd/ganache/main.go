// Command ganache runs the transaction simulation core behind a minimal
// eth_call / eth_createAccessList JSON-RPC server, seeded with a single
// in-memory chain state for local development.
package main

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Sultan099/ganache/chain"
	"github.com/Sultan099/ganache/core/simulate"
	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/log"
	"github.com/Sultan099/ganache/rpc"
)

var version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg := DefaultConfig()

	app := &cli.App{
		Name:    "ganache",
		Usage:   "ephemeral Ethereum transaction simulation node",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.IntFlag{Name: "http.port", Value: cfg.HTTPPort, Usage: "JSON-RPC HTTP listen port"},
			&cli.Uint64Flag{Name: "networkid", Value: cfg.NetworkID, Usage: "network/chain ID echoed to simulated transactions"},
			&cli.IntFlag{Name: "verbosity", Value: cfg.Verbosity, Usage: "log level 0-5 (0-1=error, 2=warn, 3=info, 4-5=debug)"},
			&cli.StringFlag{Name: "access-log", Usage: "path to a rotated access log file (disabled if unset)"},
		},
		Action: func(c *cli.Context) error {
			if path := c.String("config"); path != "" {
				if err := LoadConfigFile(path, &cfg); err != nil {
					return fmt.Errorf("loading config file: %w", err)
				}
			}
			if c.IsSet("http.port") {
				cfg.HTTPPort = c.Int("http.port")
			}
			if c.IsSet("networkid") {
				cfg.NetworkID = c.Uint64("networkid")
			}
			if c.IsSet("verbosity") {
				cfg.Verbosity = c.Int("verbosity")
			}
			if c.IsSet("access-log") {
				cfg.AccessLogPath = c.String("access-log")
			}
			return serve(cfg)
		},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "ganache: %v\n", err)
		return 1
	}
	return 0
}

func serve(cfg Config) error {
	log.SetDefault(log.New(verbosityToLevel(cfg.Verbosity)))
	nodeLog := log.Default().Module("node")
	nodeLog.Info("starting ganache", "version", version, "httpPort", cfg.HTTPPort, "networkId", cfg.NetworkID)

	db := state.NewMemoryStateDB()
	block := types.RuntimeBlock{
		Number:   big.NewInt(1),
		Time:     0,
		BaseFee:  big.NewInt(1_000_000_000),
		GasLimit: 30_000_000,
	}
	backend := chain.NewMemoryBackend(db, block, new(big.Int).SetUint64(cfg.NetworkID))

	accessLog := log.Default().Module("access")
	if cfg.AccessLogPath != "" {
		accessLog = log.NewRotating(verbosityToLevel(cfg.Verbosity), log.FileConfig{
			Path:       cfg.AccessLogPath,
			MaxSizeMB:  cfg.AccessLogMaxSizeMB,
			MaxBackups: cfg.AccessLogMaxBackups,
			MaxAgeDays: cfg.AccessLogMaxAgeDays,
			Compress:   true,
		}).Module("access")
	}

	api := rpc.NewEthAPI(backend, simulate.DefaultChainRules())
	server := rpc.NewServer(api, accessLog)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	errCh := make(chan error, 1)
	go func() {
		nodeLog.Info("rpc server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		nodeLog.Info("received signal, shutting down", "signal", sig.String())
		return httpServer.Close()
	}
}
