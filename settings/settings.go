package settings

import (
	"path/filepath"
	"time"
)

func NewSettings() *Settings {
	dataFolder := getString("dataFolder", "data")

	return &Settings{
		ClientName: getString("clientName", "ritcoin"),
		DataFolder: dataFolder,
		LogLevel:   getString("logLevel", "INFO"),
		PrettyLogs: getBool("PRETTY_LOGS", true),
		Chain: &ChainSettings{
			Difficulty:               getInt("chain_difficulty", 2),
			CoinbaseReward:           uint64(max(getInt("chain_coinbaseReward", 50), 0)),
			MaxTransactionsPerBlock:  getInt("chain_maxTransactionsPerBlock", 100),
			TimestampRefreshInterval: getDuration("chain_timestampRefreshInterval", 2*time.Second),
			VerifyMerkleRoot:         getBool("chain_verifyMerkleRoot", true),
			StaleTipRetries:          max(getInt("chain_staleTipRetries", 3), 0),
			StoreURL:                 getURL("blockchain_store", "sqlite:///blockchain"),
			MinerKeyPath:             getString("miner_key_path", filepath.Join(dataFolder, "miner.wif")),
		},
		Asset: &AssetSettings{
			HTTPListenAddress: getString("asset_httpListenAddress", ":8090"),
			APIPrefix:         getString("asset_apiPrefix", ""),
			EchoDebug:         getBool("ECHO_DEBUG", false),
			PeerFetchTimeout:  getDuration("asset_peerFetchTimeout", 30*time.Second),
			TxRateLimit:       getFloat64("asset_txRateLimit", 20),
			Peers:             getMultiString("asset_peers", "|"),
		},
		Wallet: &WalletSettings{
			KeyPath:       getString("wallet_keyPath", filepath.Join(dataFolder, "wallet.wif")),
			AddressPath:   getString("wallet_addressPath", filepath.Join(dataFolder, "wallet.addr")),
			Mainnet:       getBool("wallet_mainnet", true),
			NodeURL:       getString("wallet_nodeURL", "http://localhost:8090"),
			SubmitTimeout: getDuration("wallet_submitTimeout", 10*time.Second),
		},
		PendingPool: &PendingPoolSettings{
			Path: getString("pendingpool_path", filepath.Join(dataFolder, "pending_pool.txt")),
		},
	}
}
