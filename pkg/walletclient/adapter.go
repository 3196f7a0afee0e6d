package walletclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"ledger_wallet_session/internal/wallet"
	"ledger_wallet_session/models"
)

// NativeTransferGas is the fixed gas limit of a plain value transfer (0x5208).
const NativeTransferGas uint64 = 21000

// Adapter is the surface of an injected wallet the session needs.
type Adapter interface {
	// ListAuthorizedAccounts returns the accounts already authorized for this origin (eth_accounts),
	// empty rather than an error when the wallet cannot answer.
	ListAuthorizedAccounts(ctx context.Context) ([]string, error)
	// RequestAccounts asks the user to authorize an account (eth_requestAccounts).
	RequestAccounts(ctx context.Context) ([]string, error)
	// SendTransaction asks the wallet to sign and broadcast req (eth_sendTransaction).
	SendTransaction(ctx context.Context, req models.TxRequest) (common.Hash, error)
}

// SendValue executes a native value transfer through a with the fixed transfer gas limit.
func SendValue(ctx context.Context, a Adapter, from, to string, amount *big.Int) (common.Hash, error) {
	recipient, err := wallet.NormalizeAccount(to)
	if err != nil {
		return common.Hash{}, errors.Wrap(models.ErrInvalidRecipient, err.Error())
	}
	return a.SendTransaction(ctx, models.TxRequest{
		From:  from,
		To:    recipient,
		Gas:   NativeTransferGas,
		Value: amount,
	})
}
