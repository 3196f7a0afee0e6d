package ledgerclient

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/internal/units"
	"ledger_wallet_session/models"
)

const (
	methodGetAll  = "getAllTransactions"
	methodCount   = "getTransactionCount"
	methodAppend  = "addToBlockchain"
	defaultLayout = "1/2/2006, 3:04:05 PM"
)

// Backend is the read side of ethclient.Client the gateway uses.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Transactor submits a prepared transaction on behalf of an account.
type Transactor interface {
	SendTransaction(ctx context.Context, req models.TxRequest) (common.Hash, error)
}

type Config struct {
	Address      string
	Location     *time.Location
	Layout       string
	PollInterval time.Duration
}

type Gateway struct {
	backend  Backend
	address  common.Address
	abi      abi.ABI
	location *time.Location
	layout   string
	poll     time.Duration
}

func NewGateway(backend Backend, cfg Config) (*Gateway, error) {
	if !common.IsHexAddress(cfg.Address) {
		return nil, errors.Errorf("invalid contract address %q", cfg.Address)
	}
	parsed, err := abi.JSON(strings.NewReader(TransactionsABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse contract abi")
	}

	g := &Gateway{
		backend:  backend,
		address:  common.HexToAddress(cfg.Address),
		abi:      parsed,
		location: cfg.Location,
		layout:   cfg.Layout,
		poll:     cfg.PollInterval,
	}
	if g.location == nil {
		g.location = time.Local
	}
	if g.layout == "" {
		g.layout = defaultLayout
	}
	if g.poll <= 0 {
		g.poll = time.Second
	}
	return g, nil
}

func (g *Gateway) call(ctx context.Context, method string) ([]interface{}, error) {
	input, err := g.abi.Pack(method)
	if err != nil {
		return nil, err
	}
	output, err := g.backend.CallContract(ctx, ethereum.CallMsg{To: &g.address, Data: input}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	return g.abi.Unpack(method, output)
}

// ListTransfers reads the whole transfer log, oldest first.
func (g *Gateway) ListTransfers(ctx context.Context) ([]models.TransferRecord, error) {
	out, err := g.call(ctx, methodGetAll)
	if err != nil {
		return nil, err
	}
	raws := *abi.ConvertType(out[0], new([]models.RawTransfer)).(*[]models.RawTransfer)

	records := make([]models.TransferRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, g.toRecord(raw))
	}
	return records, nil
}

func (g *Gateway) TransferCount(ctx context.Context) (uint64, error) {
	out, err := g.call(ctx, methodCount)
	if err != nil {
		return 0, err
	}
	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if !count.IsUint64() {
		return 0, errors.Errorf("transaction count %s overflows", count)
	}
	return count.Uint64(), nil
}

// Append records a transfer in the ledger, signed by from through signer.
func (g *Gateway) Append(ctx context.Context, signer Transactor, from, to string, amount *big.Int, message, keyword string) (Pending, error) {
	if !common.IsHexAddress(to) {
		return nil, errors.Wrapf(models.ErrInvalidRecipient, "%q", to)
	}
	input, err := g.abi.Pack(methodAppend, common.HexToAddress(to), amount, message, keyword)
	if err != nil {
		return nil, errors.Wrap(err, "pack addToBlockchain")
	}
	hash, err := signer.SendTransaction(ctx, models.TxRequest{
		From: from,
		To:   g.address.Hex(),
		Data: input,
	})
	if err != nil {
		return nil, err
	}
	return &PendingTx{hash: hash, backend: g.backend, poll: g.poll}, nil
}

func (g *Gateway) toRecord(raw models.RawTransfer) models.TransferRecord {
	var sentAt time.Time
	if raw.Timestamp != nil && raw.Timestamp.IsInt64() {
		sentAt = time.Unix(raw.Timestamp.Int64(), 0).In(g.location)
	}
	return models.TransferRecord{
		AddressTo:   strings.ToLower(raw.Receiver.Hex()),
		AddressFrom: strings.ToLower(raw.Sender.Hex()),
		Timestamp:   sentAt.Format(g.layout),
		Message:     raw.Message,
		Keyword:     raw.Keyword,
		Amount:      units.FormatEther(raw.Amount),
		SentAt:      sentAt,
	}
}

// Pending is a submitted ledger transaction awaiting confirmation.
type Pending interface {
	Hash() common.Hash
	Await(ctx context.Context) error
}

type PendingTx struct {
	hash    common.Hash
	backend Backend
	poll    time.Duration
}

func (p *PendingTx) Hash() common.Hash {
	return p.hash
}

// Await polls for the receipt until the transaction is mined or ctx ends.
func (p *PendingTx) Await(ctx context.Context) error {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	log := logrus.WithField("tx_hash", p.hash.Hex())
	for {
		receipt, err := p.backend.TransactionReceipt(ctx, p.hash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return errors.Wrapf(models.ErrLedgerConfirmationFailed, "tx %s reverted", p.hash.Hex())
			}
			return nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			log.WithError(err).Debug("receipt retrieval failed")
		} else {
			log.Debug("transaction not yet mined")
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(models.ErrLedgerConfirmationFailed, ctx.Err().Error())
		case <-ticker.C:
		}
	}
}
