package relay

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// SignedBundle is an ordered set of already-signed transactions submitted
// together, plus the fee payer identity. Immutable once created; ownership
// passes to the race executor for the duration of one race.
type SignedBundle struct {
	Transactions []*solana.Transaction
	FeePayer     solana.PublicKey
}

func NewSignedBundle(feePayer solana.PublicKey, txs ...*solana.Transaction) (*SignedBundle, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("bundle requires at least one transaction")
	}
	for i, tx := range txs {
		if tx == nil || len(tx.Signatures) == 0 {
			return nil, fmt.Errorf("transaction %d is not signed", i)
		}
	}
	return &SignedBundle{Transactions: txs, FeePayer: feePayer}, nil
}

// Signatures returns the first signature of each transaction in order
func (b *SignedBundle) Signatures() []string {
	sigs := make([]string, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		sigs = append(sigs, tx.Signatures[0].String())
	}
	return sigs
}

// EncodeBase58 serializes each transaction for bundle relay APIs
func (b *SignedBundle) EncodeBase58() ([]string, error) {
	encoded := make([]string, 0, len(b.Transactions))
	for i, tx := range b.Transactions {
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize transaction %d: %w", i, err)
		}
		encoded = append(encoded, base58.Encode(raw))
	}
	return encoded, nil
}

// EncodeBase64 serializes each transaction for sendTransaction RPC calls
func (b *SignedBundle) EncodeBase64() ([]string, error) {
	encoded := make([]string, 0, len(b.Transactions))
	for i, tx := range b.Transactions {
		s, err := tx.ToBase64()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize transaction %d: %w", i, err)
		}
		encoded = append(encoded, s)
	}
	return encoded, nil
}
