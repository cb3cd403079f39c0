package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Signer is the external signing capability. Implementations may be backed
// by a local keypair or a remote custody service; either may refuse to sign.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(ctx context.Context, tx *solana.Transaction) error
}

// Wallet is a local-keypair Signer
type Wallet struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

// NewWallet parses a base58-encoded 64-byte key or a solana-keygen JSON
// array and returns a ready Signer
func NewWallet(privateKey string) (*Wallet, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, fmt.Errorf("wallet: private key is required")
	}

	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{priv: priv, pub: priv.PublicKey()}, nil
}

func NewWalletFromEnv() (*Wallet, error) {
	return NewWallet(os.Getenv("WALLET_PRIVATE_KEY"))
}

func (w *Wallet) Address() string             { return w.pub.String() }
func (w *Wallet) PublicKey() solana.PublicKey { return w.pub }

// Sign signs a transaction with the wallet's private key
func (w *Wallet) Sign(ctx context.Context, tx *solana.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.pub) {
			return &w.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// DecodeTransaction deserializes a base64-encoded unsigned transaction as
// returned by the aggregator's swap endpoint
func DecodeTransaction(encoded string) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromBase64(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize transaction: %w", err)
	}
	return tx, nil
}

func parsePrivateKey(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)

	// solana-keygen JSON array format
	if strings.HasPrefix(s, "[") {
		var bytes []byte
		if err := json.Unmarshal([]byte(s), &bytes); err != nil {
			return nil, fmt.Errorf("wallet: invalid JSON key array: %w", err)
		}
		if len(bytes) != 64 {
			return nil, fmt.Errorf("wallet: key array must be 64 bytes, got %d", len(bytes))
		}
		return solana.PrivateKey(bytes), nil
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid base58 key: %w", err)
	}
	if len(decoded) != 64 {
		return nil, fmt.Errorf("wallet: key must be 64 bytes, got %d", len(decoded))
	}

	return solana.PrivateKey(decoded), nil
}
