package models

import "github.com/pkg/errors"

var (
	ErrWalletUnavailable        = errors.New("wallet is not available, please install MetaMask")
	ErrUserRejected             = errors.New("user rejected the request")
	ErrWalletCallFailed         = errors.New("wallet call failed")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInvalidRecipient         = errors.New("invalid recipient address")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrLedgerConfirmationFailed = errors.New("ledger rejected or reorged the transaction")
	ErrBackendNotifyFailed      = errors.New("backend notify failed")
	ErrNoToken                  = errors.New("no token found")
	ErrSubmitInProgress         = errors.New("a transfer is already being submitted")
	ErrNotConnected             = errors.New("no wallet account connected")
	ErrUnknownDraftField        = errors.New("unknown draft field")
)
