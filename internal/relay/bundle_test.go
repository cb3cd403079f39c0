package relay

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTransferTx(t *testing.T) (*solana.Transaction, solana.PublicKey) {
	t.Helper()

	payer := solana.NewWallet()
	dest := solana.NewWallet().PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, payer.PublicKey(), dest).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)

	return tx, payer.PublicKey()
}

func TestNewSignedBundle(t *testing.T) {
	tx, payer := signedTransferTx(t)

	b, err := NewSignedBundle(payer, tx)
	require.NoError(t, err)
	assert.Equal(t, payer, b.FeePayer)
	require.Len(t, b.Signatures(), 1)
	assert.Equal(t, tx.Signatures[0].String(), b.Signatures()[0])
}

func TestNewSignedBundle_RejectsEmpty(t *testing.T) {
	_, err := NewSignedBundle(solana.PublicKey{})
	assert.Error(t, err)
}

func TestNewSignedBundle_RejectsUnsigned(t *testing.T) {
	payer := solana.NewWallet()
	unsigned, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)

	_, err = NewSignedBundle(payer.PublicKey(), unsigned)
	assert.Error(t, err)
}

func TestSignedBundle_Encodings(t *testing.T) {
	tx, payer := signedTransferTx(t)

	b, err := NewSignedBundle(payer, tx)
	require.NoError(t, err)

	b58, err := b.EncodeBase58()
	require.NoError(t, err)
	require.Len(t, b58, 1)
	assert.NotEmpty(t, b58[0])

	b64, err := b.EncodeBase64()
	require.NoError(t, err)
	require.Len(t, b64, 1)
	assert.NotEmpty(t, b64[0])

	// Base64 form must round-trip back to the same signature
	decoded, err := solana.TransactionFromBase64(b64[0])
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], decoded.Signatures[0])
}
