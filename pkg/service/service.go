package service

import (
	"context"

	"ledger_wallet_session/models"
	"ledger_wallet_session/pkg/repository"
	"ledger_wallet_session/pkg/walletclient"
)

type Authorization interface {
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool, error)
}

type Transaction interface {
	Open(ctx context.Context) error
	Close()
	SetWallet(wallet walletclient.Adapter)
	Probe(ctx context.Context) error
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context)
	EditDraft(name, value string) error
	Submit(ctx context.Context) (models.SendResult, error)
	RefreshTransfers(ctx context.Context) ([]models.TransferRecord, error)
	TransferCount(ctx context.Context) (uint64, error)
	Snapshot() models.Snapshot
}

type Service struct {
	Authorization
	Transaction
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	deps.Durable = repos.Durable
	return &Service{
		Authorization: NewAuthService(repos.Durable),
		Transaction:   NewTransactionService(deps),
	}
}
