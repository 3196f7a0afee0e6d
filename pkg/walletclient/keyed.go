package walletclient

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/internal/wallet"
	"ledger_wallet_session/models"
)

// SignerBackend is the part of ethclient.Client a local signer needs.
type SignerBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// KeyedAdapter signs with a configured private key, the way the deploy account
// is used against a test network. Its single account is always authorized.
type KeyedAdapter struct {
	backend SignerBackend
	key     *ecdsa.PrivateKey
	account string
}

func NewKeyedAdapter(backend SignerBackend, privKeyHex string) (*KeyedAdapter, error) {
	w, key, err := wallet.FromPrivateKey(privKeyHex)
	if err != nil {
		return nil, err
	}
	logrus.WithField("account", w.Address).Info("local signer wallet loaded")
	return &KeyedAdapter{backend: backend, key: key, account: w.Address}, nil
}

func (a *KeyedAdapter) ListAuthorizedAccounts(ctx context.Context) ([]string, error) {
	return []string{a.account}, nil
}

func (a *KeyedAdapter) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{a.account}, nil
}

func (a *KeyedAdapter) SendTransaction(ctx context.Context, req models.TxRequest) (common.Hash, error) {
	if !strings.EqualFold(req.From, a.account) {
		return common.Hash{}, errors.Wrapf(models.ErrUserRejected, "account %s is not managed by this wallet", req.From)
	}
	if !common.IsHexAddress(req.To) {
		return common.Hash{}, errors.Wrapf(models.ErrInvalidRecipient, "%q", req.To)
	}
	from := common.HexToAddress(a.account)
	to := common.HexToAddress(req.To)
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := a.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, classify(err)
	}
	nonce, err := a.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, classify(err)
	}
	gasPrice, err := a.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, classify(err)
	}
	gas := req.Gas
	if gas == 0 {
		gas, err = a.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: req.Data})
		if err != nil {
			return common.Hash{}, classify(err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
	if err != nil {
		return common.Hash{}, errors.Wrap(models.ErrWalletCallFailed, err.Error())
	}
	if err := a.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, classify(err)
	}
	return signed.Hash(), nil
}
