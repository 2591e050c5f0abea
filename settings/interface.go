package settings

import (
	"net/url"
	"time"
)

type ChainSettings struct {
	Difficulty               int
	CoinbaseReward           uint64
	MaxTransactionsPerBlock  int
	TimestampRefreshInterval time.Duration
	VerifyMerkleRoot         bool
	StaleTipRetries          int
	StoreURL                 *url.URL
	MinerKeyPath             string
}

type AssetSettings struct {
	HTTPListenAddress string
	APIPrefix         string
	EchoDebug         bool
	PeerFetchTimeout  time.Duration
	TxRateLimit       float64
	Peers             []string
}

type WalletSettings struct {
	KeyPath       string
	AddressPath   string
	Mainnet       bool
	NodeURL       string
	SubmitTimeout time.Duration
}

type PendingPoolSettings struct {
	Path string
}

type Settings struct {
	ClientName  string
	DataFolder  string
	LogLevel    string
	PrettyLogs  bool
	Chain       *ChainSettings
	Asset       *AssetSettings
	Wallet      *WalletSettings
	PendingPool *PendingPoolSettings
}
