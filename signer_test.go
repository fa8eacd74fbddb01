package drips

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigner(t *testing.T) {
	const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	t.Run("derives the expected address", func(t *testing.T) {
		signer, err := NewSigner(testKeyHex)
		require.NoError(t, err)

		key, err := crypto.HexToECDSA(testKeyHex)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
	})

	t.Run("accepts a 0x prefix", func(t *testing.T) {
		plain, err := NewSigner(testKeyHex)
		require.NoError(t, err)
		prefixed, err := NewSigner("0x" + testKeyHex)
		require.NoError(t, err)

		assert.Equal(t, plain.Address(), prefixed.Address())
	})

	t.Run("rejects invalid hex", func(t *testing.T) {
		_, err := NewSigner("not-a-key")
		assert.Error(t, err)
	})
}

func TestSigner_TransactOpts(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewSignerFromKey(key)

	opts, err := signer.TransactOpts(11_155_111)
	require.NoError(t, err)

	assert.Equal(t, signer.Address(), opts.From)
	assert.NotNil(t, opts.Signer)
}
