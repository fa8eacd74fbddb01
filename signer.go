package drips

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the private key a write-capable client submits transactions
// with. Read-only clients are constructed without one.
type Signer struct {
	privateKey *ecdsa.PrivateKey
}

// NewSigner creates a signer from a hex-encoded private key, with or
// without the 0x prefix.
func NewSigner(privateKeyHex string) (*Signer, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("could not parse private key: %w", err)
	}
	return &Signer{privateKey: privateKey}, nil
}

// NewSignerFromKey wraps an already-parsed ECDSA private key.
func NewSignerFromKey(privateKey *ecdsa.PrivateKey) *Signer {
	return &Signer{privateKey: privateKey}
}

// PublicKey returns the public key associated with the signer.
func (s *Signer) PublicKey() *ecdsa.PublicKey {
	return s.privateKey.Public().(*ecdsa.PublicKey)
}

// Address returns the address derived from the signer's public key.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(*s.PublicKey())
}

// TransactOpts builds EIP-155 transaction options for the given chain.
// Gas pricing is left to the transport's estimation.
func (s *Signer) TransactOpts(chainID uint32) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.privateKey, new(big.Int).SetUint64(uint64(chainID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction signer: %w", err)
	}
	return opts, nil
}
