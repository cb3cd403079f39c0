package wallet

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet_Base58(t *testing.T) {
	kp := solana.NewWallet()

	w, err := NewWallet(kp.PrivateKey.String())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), w.PublicKey())
}

func TestNewWallet_JSONArray(t *testing.T) {
	kp := solana.NewWallet()

	// json.Marshal encodes []byte as a base64 string; marshal as ints to
	// produce the solana-keygen JSON array format.
	nums := make([]int, len(kp.PrivateKey))
	for i, b := range kp.PrivateKey {
		nums[i] = int(b)
	}
	raw, err := json.Marshal(nums)
	require.NoError(t, err)

	w, err := NewWallet(string(raw))
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), w.PublicKey())
}

func TestNewWallet_Invalid(t *testing.T) {
	_, err := NewWallet("")
	assert.Error(t, err)

	_, err = NewWallet("not-a-key")
	assert.Error(t, err)

	_, err = NewWallet("[1,2,3]")
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	kp := solana.NewWallet()
	w, err := NewWallet(kp.PrivateKey.String())
	require.NoError(t, err)

	dest := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, w.PublicKey(), dest).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(w.PublicKey()),
	)
	require.NoError(t, err)

	require.NoError(t, w.Sign(context.Background(), tx))
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
}

func TestSign_CanceledContext(t *testing.T) {
	kp := solana.NewWallet()
	w, err := NewWallet(kp.PrivateKey.String())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Sign(ctx, &solana.Transaction{})
	assert.ErrorIs(t, err, context.Canceled)
}
