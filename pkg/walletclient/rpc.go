package walletclient

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/models"
)

type sendTxArgs struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Gas   hexutil.Uint64 `json:"gas"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data,omitempty"`
}

// RPCAdapter talks to a wallet that exposes the EIP-1193 methods over JSON-RPC.
type RPCAdapter struct {
	client *rpc.Client
}

func NewRPCAdapter(client *rpc.Client) *RPCAdapter {
	return &RPCAdapter{client: client}
}

func DialRPCAdapter(ctx context.Context, url string) (*RPCAdapter, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(models.ErrWalletUnavailable, "dial %s: %s", url, err)
	}
	return NewRPCAdapter(client), nil
}

func (a *RPCAdapter) ListAuthorizedAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := a.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		logrus.WithError(classify(err)).Warn("eth_accounts failed, treating as no accounts")
		return []string{}, nil
	}
	return lower(accounts), nil
}

func (a *RPCAdapter) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := a.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, classify(err)
	}
	if len(accounts) == 0 {
		return nil, errors.Wrap(models.ErrUserRejected, "wallet returned no accounts")
	}
	return lower(accounts), nil
}

func (a *RPCAdapter) SendTransaction(ctx context.Context, req models.TxRequest) (common.Hash, error) {
	args := sendTxArgs{
		From: req.From,
		To:   req.To,
		Gas:  hexutil.Uint64(req.Gas),
		Data: req.Data,
	}
	if req.Value != nil {
		args.Value = (*hexutil.Big)(req.Value)
	}

	var hash common.Hash
	if err := a.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, classify(err)
	}
	return hash, nil
}

func (a *RPCAdapter) Close() {
	a.client.Close()
}

func lower(accounts []string) []string {
	out := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, strings.ToLower(acc))
	}
	return out
}
