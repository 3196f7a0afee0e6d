package walletclient

import (
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"ledger_wallet_session/models"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected = 4001
	codeUnauthorized = 4100
	codeInvalidInput = -32602
)

// classify maps a wallet failure onto the session's error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected, codeUnauthorized:
			return errors.Wrap(models.ErrUserRejected, err.Error())
		case codeInvalidInput:
			return errors.Wrap(models.ErrInvalidRecipient, err.Error())
		}
	}

	switch {
	case strings.Contains(msg, "insufficient funds"):
		return errors.Wrap(models.ErrInsufficientFunds, err.Error())
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return errors.Wrap(models.ErrUserRejected, err.Error())
	case strings.Contains(msg, "invalid address"):
		return errors.Wrap(models.ErrInvalidRecipient, err.Error())
	}
	return errors.Wrap(models.ErrWalletCallFailed, err.Error())
}
