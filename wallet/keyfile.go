package wallet

import (
	"os"
	"path/filepath"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/errors"
)

// Key is a loaded wallet identity.
type Key struct {
	PrivateKey *bec.PrivateKey
	PubKeyHash []byte
	Address    string
}

func newKey(privateKey *bec.PrivateKey, mainnet bool) (*Key, error) {
	pubKeyHash := PubKeyHash(PublicKeyBytes(privateKey))

	address, err := AddressFromPubKeyHash(pubKeyHash, mainnet)
	if err != nil {
		return nil, err
	}

	return &Key{
		PrivateKey: privateKey,
		PubKeyHash: pubKeyHash,
		Address:    address,
	}, nil
}

// GenerateKey creates a fresh key without writing it anywhere.
func GenerateKey(mainnet bool) (*Key, error) {
	privateKey, err := NewPrivateKey()
	if err != nil {
		return nil, err
	}

	return newKey(privateKey, mainnet)
}

// CreateKeyFile generates a key and writes its WIF to keyPath and its address to addressPath.
func CreateKeyFile(keyPath, addressPath string, mainnet bool) (*Key, error) {
	key, err := GenerateKey(mainnet)
	if err != nil {
		return nil, err
	}

	if err = writeFile(keyPath, []byte(WIF(key.PrivateKey)+"\n"), 0o600); err != nil {
		return nil, err
	}

	if addressPath != "" {
		if err = writeFile(addressPath, []byte(key.Address+"\n"), 0o644); err != nil {
			return nil, err
		}
	}

	return key, nil
}

// LoadKeyFile reads a WIF encoded key from path.
func LoadKeyFile(path string, mainnet bool) (*Key, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("failed to read key file %s", path, err)
	}

	privateKey, err := PrivateKeyFromWIF(string(b))
	if err != nil {
		return nil, err
	}

	return newKey(privateKey, mainnet)
}

// LoadOrCreateKeyFile loads path, creating a new key there if it does not exist.
func LoadOrCreateKeyFile(path string, mainnet bool) (*Key, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CreateKeyFile(path, "", mainnet)
	}

	return LoadKeyFile(path, mainnet)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIOError("failed to create folder %s", dir, err)
		}
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return errors.NewIOError("failed to write %s", path, err)
	}

	return nil
}
