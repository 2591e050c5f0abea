// Package main runs a ritcoin node: the chain, its HTTP API and an interactive
// wallet console on stdin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/services/asset"
	"github.com/bsv-blockchain/ritcoin/services/blockchain"
	"github.com/bsv-blockchain/ritcoin/settings"
	blockchain_store "github.com/bsv-blockchain/ritcoin/stores/blockchain"
	pendingpool_file "github.com/bsv-blockchain/ritcoin/stores/pendingpool/file"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/bsv-blockchain/ritcoin/wallet/session"
	"github.com/ordishs/gocore"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const progname = "ritcoin"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func main() {
	gocore.SetInfo(progname, version, commit)

	app := &cli.App{
		Name:  progname,
		Usage: "A minimal proof-of-work coin node with a wallet console",
		Commands: []*cli.Command{
			{
				Name:   "node",
				Usage:  "Run a node with its HTTP API and the wallet console",
				Action: runNode,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "HTTP listen address, overrides asset_httpListenAddress",
					},
					&cli.StringSliceFlag{
						Name:  "peer",
						Usage: "peer node URL, may be repeated",
					},
					&cli.BoolFlag{
						Name:  "no-console",
						Usage: "serve the HTTP API only",
					},
					&cli.BoolFlag{
						Name:  "remote-broadcast",
						Usage: "broadcast wallet transactions to wallet_nodeURL instead of the local chain",
					},
				},
			},
			{
				Name:   "keygen",
				Usage:  "Create a new wallet key file",
				Action: keygen,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "key",
						Usage: "key file path, defaults to wallet_keyPath",
					},
					&cli.StringFlag{
						Name:  "address",
						Usage: "address file path, defaults to wallet_addressPath",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(tSettings *settings.Settings) ulogger.Logger {
	return ulogger.New(tSettings.ClientName,
		ulogger.WithLevel(tSettings.LogLevel),
		ulogger.WithPretty(tSettings.PrettyLogs),
		ulogger.WithWriter(os.Stderr),
	)
}

func keygen(c *cli.Context) error {
	tSettings := settings.NewSettings()

	keyPath := c.String("key")
	if keyPath == "" {
		keyPath = tSettings.Wallet.KeyPath
	}

	addressPath := c.String("address")
	if addressPath == "" {
		addressPath = tSettings.Wallet.AddressPath
	}

	key, err := wallet.CreateKeyFile(keyPath, addressPath, tSettings.Wallet.Mainnet)
	if err != nil {
		return err
	}

	fmt.Println(key.Address)

	return nil
}

func runNode(c *cli.Context) error {
	tSettings := settings.NewSettings()

	if listen := c.String("listen"); listen != "" {
		tSettings.Asset.HTTPListenAddress = listen
	}

	tSettings.Asset.Peers = append(tSettings.Asset.Peers, c.StringSlice("peer")...)

	logger := newLogger(tSettings)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := blockchain_store.NewStore(logger.New("store"), tSettings.Chain.StoreURL, tSettings)
	if err != nil {
		return err
	}

	defer func() {
		_ = store.Close()
	}()

	pool, err := pendingpool_file.New(logger.New("pool"), tSettings.PendingPool.Path)
	if err != nil {
		return err
	}

	minerKey, err := wallet.LoadOrCreateKeyFile(tSettings.Chain.MinerKeyPath, tSettings.Wallet.Mainnet)
	if err != nil {
		return errors.NewConfigurationError("failed to load miner key", err)
	}

	logger.Infof("[%s] %s (%s) mining to %s", progname, version, commit, minerKey.Address)

	client := asset.NewClient(logger.New("client"))

	chain := blockchain.New(logger.New("chain"), tSettings, store, pool, client, minerKey.PubKeyHash)
	if err = chain.Load(ctx); err != nil {
		return err
	}

	defer chain.Stop()

	var broadcaster session.Broadcaster = chain
	if c.Bool("remote-broadcast") {
		broadcaster = session.NewRemoteBroadcaster(client, tSettings.Wallet.NodeURL, tSettings.Wallet.SubmitTimeout)
	}

	walletSession := session.New(logger, chain, broadcaster)

	if key, err := wallet.LoadKeyFile(tSettings.Wallet.KeyPath, tSettings.Wallet.Mainnet); err == nil {
		walletSession.SetKey(key)
	}

	server := asset.NewServer(logger.New("asset"), tSettings, chain)
	if err = server.Init(ctx); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	if !c.Bool("no-console") {
		g.Go(func() error {
			con := newConsole(tSettings, chain, walletSession, os.Stdout)
			con.run(gCtx, os.Stdin)

			// leaving the console shuts the node down
			stop()

			return nil
		})
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if stopErr := server.Stop(shutdownCtx); stopErr != nil {
		logger.Warnf("[%s] error stopping asset server: %v", progname, stopErr)
	}

	return err
}
