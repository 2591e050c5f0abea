package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/settings"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/bsv-blockchain/ritcoin/wallet/session"
)

const usage = `commands:
  new                          create a wallet key and use it
  import <path>                load a WIF key file and use it
  address                      print the wallet address
  send <address> <amount>      sign a payment and print it as hex
  broadcast <hex> [-t]         queue a signed transaction, -t only validates it
  balance [address]            confirmed balance, defaults to the wallet address
  add node <url>               register a peer
  nodes                        list peers
  mine                         mine the next block
  consensus                    adopt the longest valid chain among peers
  verify                       re-validate the local chain
  exit`

type chainNode interface {
	AddPeer(ctx context.Context, address string) error
	Peers(ctx context.Context) ([]string, error)
	Length(ctx context.Context) (int, error)
	MineNext(ctx context.Context) (*model.Block, error)
	ResolveConflicts(ctx context.Context) (bool, error)
	VerifyChain(ctx context.Context) error
}

type console struct {
	settings *settings.Settings
	chain    chainNode
	wallet   *session.Session
	out      io.Writer
}

func newConsole(tSettings *settings.Settings, chain chainNode, walletSession *session.Session, out io.Writer) *console {
	return &console{
		settings: tSettings,
		chain:    chain,
		wallet:   walletSession,
		out:      out,
	}
}

// run reads commands from in until it is exhausted, the user exits or ctx is done.
func (c *console) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.prompt()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || !c.execute(ctx, line) {
				return
			}

			c.prompt()
		}
	}
}

func (c *console) prompt() {
	_, _ = fmt.Fprint(c.out, "> ")
}

// execute runs one command line and reports whether the console should keep reading.
func (c *console) execute(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}

	if args[0] == "exit" || args[0] == "quit" {
		return false
	}

	result, err := c.handle(ctx, args)
	if err != nil {
		_, _ = fmt.Fprintf(c.out, "error: %v\n", err)
		return true
	}

	if result != "" {
		_, _ = fmt.Fprintln(c.out, result)
	}

	return true
}

func (c *console) handle(ctx context.Context, args []string) (string, error) {
	switch args[0] {
	case "help":
		return usage, nil

	case "new":
		key, err := wallet.CreateKeyFile(c.settings.Wallet.KeyPath, c.settings.Wallet.AddressPath, c.settings.Wallet.Mainnet)
		if err != nil {
			return "", err
		}

		c.wallet.SetKey(key)

		return "address: " + key.Address, nil

	case "import":
		if len(args) != 2 {
			return "", errors.NewInvalidArgumentError("usage: import <path>")
		}

		key, err := wallet.LoadKeyFile(args[1], c.settings.Wallet.Mainnet)
		if err != nil {
			return "", err
		}

		c.wallet.SetKey(key)

		return "address: " + key.Address, nil

	case "address":
		key := c.wallet.Key()
		if key == nil {
			return "", errors.NewInvalidArgumentError("no wallet key, use new or import")
		}

		return key.Address, nil

	case "send":
		if len(args) != 3 {
			return "", errors.NewInvalidArgumentError("usage: send <address> <amount>")
		}

		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return "", errors.NewInvalidArgumentError("invalid amount %q", args[2], err)
		}

		tx, err := c.wallet.Send(ctx, args[1], amount)
		if err != nil {
			return "", err
		}

		return hex.EncodeToString(tx.Bytes()), nil

	case "broadcast":
		return c.broadcast(ctx, args[1:])

	case "balance":
		address := ""
		if len(args) > 1 {
			address = args[1]
		}

		balance, err := c.wallet.Balance(ctx, address)
		if err != nil {
			return "", err
		}

		return strconv.FormatUint(balance, 10), nil

	case "add":
		if len(args) != 3 || args[1] != "node" {
			return "", errors.NewInvalidArgumentError("usage: add node <url>")
		}

		if err := c.chain.AddPeer(ctx, args[2]); err != nil {
			return "", err
		}

		return "node added", nil

	case "nodes":
		peers, err := c.chain.Peers(ctx)
		if err != nil {
			return "", err
		}

		return strings.Join(peers, "\n"), nil

	case "mine":
		block, err := c.chain.MineNext(ctx)
		if err != nil {
			return "", err
		}

		length, err := c.chain.Length(ctx)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("mined block %d %s", length-1, block.Hash()), nil

	case "consensus":
		replaced, err := c.chain.ResolveConflicts(ctx)
		if err != nil {
			return "", err
		}

		length, err := c.chain.Length(ctx)
		if err != nil {
			return "", err
		}

		if replaced {
			return fmt.Sprintf("chain replaced, length %d", length), nil
		}

		return fmt.Sprintf("local chain kept, length %d", length), nil

	case "verify":
		if err := c.chain.VerifyChain(ctx); err != nil {
			return "", err
		}

		return "chain is valid", nil
	}

	return "", errors.NewInvalidArgumentError("unknown command %q, try help", args[0])
}

func (c *console) broadcast(ctx context.Context, args []string) (string, error) {
	dryRun := false

	switch {
	case len(args) == 2 && args[1] == "-t":
		dryRun = true
	case len(args) != 1:
		return "", errors.NewInvalidArgumentError("usage: broadcast <hex> [-t]")
	}

	raw, err := hex.DecodeString(args[0])
	if err != nil {
		return "", errors.NewEncodingError("transaction is not valid hex", err)
	}

	txHash, err := c.wallet.Broadcast(ctx, raw, dryRun)
	if err != nil {
		return "", err
	}

	if dryRun {
		return "transaction is valid: " + txHash.String(), nil
	}

	return "transaction queued: " + txHash.String(), nil
}
