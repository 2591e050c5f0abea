package asset

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peer = "http://peer.test:8090"

func TestFetchChain(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	coinbase, err := model.NewCoinbase(make([]byte, 20), 0, 50)
	require.NoError(t, err)

	genesis := model.NewBlockAt(chainhash.Hash{}, [][]byte{coinbase.Bytes()}, time.Unix(1700000000, 0))

	body, err := (&model.ChainSnapshot{Blocks: []*model.Block{genesis}}).MarshalJSON()
	require.NoError(t, err)

	httpmock.RegisterResponder(http.MethodPost, peer+"/chain", httpmock.NewBytesResponder(http.StatusOK, body))

	snapshot, err := NewClient(ulogger.TestLogger{}).FetchChain(context.Background(), peer+"/")
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Length())
	assert.Equal(t, genesis.Hash(), snapshot.Blocks[0].Hash())

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestFetchChainInvalidBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, peer+"/chain",
		httpmock.NewStringResponder(http.StatusOK, `{"length":2,"chain":["00"],"utxos":[]}`))

	_, err := NewClient(ulogger.TestLogger{}).FetchChain(context.Background(), peer)
	assert.True(t, errors.Is(err, errors.ErrServiceError))
}

func TestFetchChainUnreachable(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, peer+"/chain", httpmock.NewErrorResponder(errors.NewError("connection refused")))

	_, err := NewClient(ulogger.TestLogger{}).FetchChain(context.Background(), peer)
	require.Error(t, err)
	assert.True(t, errors.IsRetryableError(err))
}

func TestChainLengthAndNodes(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, peer+"/chain/length", httpmock.NewStringResponder(http.StatusOK, `{"length":12}`))
	httpmock.RegisterResponder(http.MethodPost, peer+"/nodes", httpmock.NewStringResponder(http.StatusOK, `{"nodes":["http://x:1"]}`))

	client := NewClient(ulogger.TestLogger{})

	length, err := client.ChainLength(context.Background(), peer)
	require.NoError(t, err)
	assert.Equal(t, 12, length)

	nodes, err := client.Nodes(context.Background(), peer)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x:1"}, nodes)
}

func TestSubmitTransaction(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	txHash := chainhash.HashH([]byte("tx"))

	var bodies []string

	responder := func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		bodies = append(bodies, string(b))

		return httpmock.NewStringResponse(http.StatusOK, `{"txid":"`+txHash.String()+`","queued":true}`), nil
	}

	httpmock.RegisterResponder(http.MethodPost, peer+"/transaction/new", responder)
	httpmock.RegisterResponder(http.MethodPost, peer+"/transaction/new?dryRun=true", responder)

	client := NewClient(ulogger.TestLogger{})

	got, err := client.SubmitTransaction(context.Background(), peer, []byte{0x01, 0x00, 0xff}, false)
	require.NoError(t, err)
	assert.Equal(t, txHash, got)

	_, err = client.SubmitTransaction(context.Background(), peer, []byte{0x01}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"tx":"0100ff"}`, `{"tx":"01"}`}, bodies)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+peer+"/transaction/new?dryRun=true"])
}

func TestSubmitTransactionRejected(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, peer+"/transaction/new",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"status":400,"code":36,"error":"script failed"}`))

	_, err := NewClient(ulogger.TestLogger{}).SubmitTransaction(context.Background(), peer, []byte{0x01}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "script failed")
}
