package service

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"ledger_wallet_session/models"
	"ledger_wallet_session/pkg/cache"
	"ledger_wallet_session/pkg/ledgerclient"
	"ledger_wallet_session/pkg/repository"
	"ledger_wallet_session/pkg/utils"
)

type fakeWallet struct {
	mu         sync.Mutex
	authorized []string
	grant      []string
	requestErr error
	sendErr    error
	sent       []models.TxRequest
}

func (w *fakeWallet) ListAuthorizedAccounts(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.authorized...), nil
}

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.requestErr != nil {
		return nil, w.requestErr
	}
	w.authorized = w.grant
	return w.grant, nil
}

func (w *fakeWallet) SendTransaction(ctx context.Context, req models.TxRequest) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sendErr != nil {
		return common.Hash{}, w.sendErr
	}
	w.sent = append(w.sent, req)
	return common.HexToHash("0x01"), nil
}

func (w *fakeWallet) sends() []models.TxRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.TxRequest(nil), w.sent...)
}

type fakePending struct {
	hash    common.Hash
	err     error
	release chan struct{}
	onDone  func()
}

func (p *fakePending) Hash() common.Hash { return p.hash }

func (p *fakePending) Await(ctx context.Context) error {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.err == nil && p.onDone != nil {
		p.onDone()
	}
	return p.err
}

type appendCall struct {
	from, to, message, keyword string
	amount                     *big.Int
}

type fakeLedger struct {
	mu        sync.Mutex
	records   []models.TransferRecord
	appendErr error
	awaitErr  error
	countErr  error
	release   chan struct{}
	appends   []appendCall
	listCalls int
}

func (l *fakeLedger) ListTransfers(ctx context.Context) ([]models.TransferRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listCalls++
	return append([]models.TransferRecord(nil), l.records...), nil
}

func (l *fakeLedger) TransferCount(ctx context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.countErr != nil {
		return 0, l.countErr
	}
	return uint64(len(l.records)), nil
}

func (l *fakeLedger) Append(ctx context.Context, signer ledgerclient.Transactor, from, to string, amount *big.Int, message, keyword string) (ledgerclient.Pending, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return nil, l.appendErr
	}
	l.appends = append(l.appends, appendCall{from: from, to: to, amount: amount, message: message, keyword: keyword})
	return &fakePending{
		hash:    common.HexToHash("0xbeef"),
		err:     l.awaitErr,
		release: l.release,
		onDone: func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.records = append(l.records, models.TransferRecord{
				AddressFrom: from,
				AddressTo:   strings.ToLower(to),
				Message:     message,
				Keyword:     keyword,
			})
		},
	}, nil
}

func (l *fakeLedger) listCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listCalls
}

type fakeNotifier struct {
	mu       sync.Mutex
	accounts []string
	err      error
}

func (n *fakeNotifier) NotifyAddress(ctx context.Context, account string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts = append(n.accounts, account)
	return n.err
}

type fakeMailer struct {
	mu       sync.Mutex
	receipts []utils.Receipt
}

func (m *fakeMailer) SendReceipt(ctx context.Context, r utils.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	return nil
}

type fixture struct {
	wallet   *fakeWallet
	ledger   *fakeLedger
	notifier *fakeNotifier
	mailer   *fakeMailer
	durable  *repository.KVMemory
	session  *cache.SessionCache
	svc      *TransactionService
}

func newFixture() *fixture {
	f := &fixture{
		wallet:   &fakeWallet{},
		ledger:   &fakeLedger{},
		notifier: &fakeNotifier{},
		mailer:   &fakeMailer{},
		durable:  repository.NewKVMemory(),
		session:  cache.NewSessionCache(0),
	}
	f.svc = NewTransactionService(Deps{
		Wallet:   f.wallet,
		Ledger:   f.ledger,
		Notifier: f.notifier,
		Durable:  f.durable,
		Session:  f.session,
		Mailer:   f.mailer,
	})
	return f
}
