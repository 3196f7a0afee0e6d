package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var ErrInvalidAddress = errors.New("invalid ethereum address")

// Wallet структура с приватным ключом и адресом
type Wallet struct {
	PrivateKey string
	Address    string
}

// GenerateWallet генерирует новый кошелёк для локальной разработки
func GenerateWallet() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &Wallet{
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(privateKey)),
		Address:    AccountOf(&privateKey.PublicKey),
	}, nil
}

// FromPrivateKey разбирает hex-ключ (с префиксом 0x или без) в формате hardhat PRIVATE_KEY
func FromPrivateKey(privKeyHex string) (*Wallet, *ecdsa.PrivateKey, error) {
	privKeyHex = strings.TrimPrefix(strings.TrimSpace(privKeyHex), "0x")
	privBytes, err := hex.DecodeString(privKeyHex)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode private key hex")
	}

	privKey, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to convert to ECDSA")
	}

	return &Wallet{
		PrivateKey: privKeyHex,
		Address:    AccountOf(&privKey.PublicKey),
	}, privKey, nil
}

// AccountOf returns the lowercase hex account of a public key.
func AccountOf(pub *ecdsa.PublicKey) string {
	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex())
}

// NormalizeAccount validates a hex address and lowercases it the way wallets report accounts.
func NormalizeAccount(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", errors.Wrapf(ErrInvalidAddress, "%q", address)
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}
