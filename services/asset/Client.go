// Package asset is the peer protocol: the HTTP server other nodes and wallets talk to,
// and the client this node uses to talk to them.
package asset

import (
	"context"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/services/asset/httpimpl"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/bsv-blockchain/ritcoin/util"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// emptyBody turns a request into a POST without payload.
var emptyBody = []byte{}

type Client struct {
	logger ulogger.Logger
}

func NewClient(logger ulogger.Logger) *Client {
	return &Client{
		logger: logger,
	}
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// FetchChain downloads the chain and utxo snapshot served by peer.
func (c *Client) FetchChain(ctx context.Context, peer string) (*model.ChainSnapshot, error) {
	b, err := util.DoHTTPRequest(ctx, endpoint(peer, "/chain"), emptyBody)
	if err != nil {
		return nil, err
	}

	snapshot, err := model.NewChainSnapshotFromJSON(b)
	if err != nil {
		return nil, errors.NewServiceError("peer %s served an invalid chain", peer, err)
	}

	c.logger.Debugf("[Asset] fetched chain of length %d from %s", snapshot.Length(), peer)

	return snapshot, nil
}

func (c *Client) ChainLength(ctx context.Context, peer string) (int, error) {
	b, err := util.DoHTTPRequest(ctx, endpoint(peer, "/chain/length"), emptyBody)
	if err != nil {
		return 0, err
	}

	var resp httpimpl.LengthResponse
	if err = json.Unmarshal(b, &resp); err != nil {
		return 0, errors.NewServiceError("peer %s served an invalid length", peer, err)
	}

	return resp.Length, nil
}

func (c *Client) Nodes(ctx context.Context, peer string) ([]string, error) {
	b, err := util.DoHTTPRequest(ctx, endpoint(peer, "/nodes"), emptyBody)
	if err != nil {
		return nil, err
	}

	var resp httpimpl.NodesResponse
	if err = json.Unmarshal(b, &resp); err != nil {
		return nil, errors.NewServiceError("peer %s served an invalid node list", peer, err)
	}

	return resp.Nodes, nil
}

// SubmitTransaction posts a serialized transaction to node. With dryRun the node only validates it.
func (c *Client) SubmitTransaction(ctx context.Context, node string, raw []byte, dryRun bool) (chainhash.Hash, error) {
	body, err := json.Marshal(&httpimpl.TransactionRequest{Tx: raw})
	if err != nil {
		return chainhash.Hash{}, errors.NewEncodingError("failed to encode transaction request", err)
	}

	url := endpoint(node, "/transaction/new")
	if dryRun {
		url += "?dryRun=true"
	}

	b, err := util.DoHTTPRequest(ctx, url, body)
	if err != nil {
		return chainhash.Hash{}, err
	}

	var resp httpimpl.TransactionResponse
	if err = json.Unmarshal(b, &resp); err != nil {
		return chainhash.Hash{}, errors.NewServiceError("node %s sent an invalid reply", node, err)
	}

	txHash, err := chainhash.NewHashFromStr(resp.TxID)
	if err != nil {
		return chainhash.Hash{}, errors.NewServiceError("node %s sent an invalid txid %q", node, resp.TxID, err)
	}

	return *txHash, nil
}
