package service

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ledger_wallet_session/internal/units"
	"ledger_wallet_session/models"
	"ledger_wallet_session/pkg/ledgerclient"
	"ledger_wallet_session/pkg/metrics"
	"ledger_wallet_session/pkg/repository"
	"ledger_wallet_session/pkg/utils"
	"ledger_wallet_session/pkg/walletclient"
)

const backgroundTimeout = 30 * time.Second

// Ledger is the contract gateway the session reads and appends transfers through.
type Ledger interface {
	ListTransfers(ctx context.Context) ([]models.TransferRecord, error)
	TransferCount(ctx context.Context) (uint64, error)
	Append(ctx context.Context, signer ledgerclient.Transactor, from, to string, amount *big.Int, message, keyword string) (ledgerclient.Pending, error)
}

type Notifier interface {
	NotifyAddress(ctx context.Context, account string) error
}

// SessionStore is the session-scoped key-value store; Clear ends the scope.
type SessionStore interface {
	repository.Storage
	Clear()
}

type Deps struct {
	Wallet   walletclient.Adapter // nil when no wallet is injected
	Ledger   Ledger
	Notifier Notifier
	Durable  repository.Storage
	Session  SessionStore
	Mailer   utils.Mailer // optional
}

// TransactionService owns one wallet session: the connected account, the
// draft transfer, the loading flag and the mirrored transfer log.
type TransactionService struct {
	id       string
	ledger   Ledger
	notifier Notifier
	durable  repository.Storage
	session  SessionStore
	mailer   utils.Mailer

	mu        sync.Mutex
	wallet    walletclient.Adapter
	state     models.SessionState
	account   string
	loading   bool
	count     string
	transfers []models.TransferRecord
	draft     models.DraftTransfer

	background sync.WaitGroup
}

func NewTransactionService(deps Deps) *TransactionService {
	return &TransactionService{
		id:        uuid.NewString(),
		wallet:    deps.Wallet,
		ledger:    deps.Ledger,
		notifier:  deps.Notifier,
		durable:   deps.Durable,
		session:   deps.Session,
		mailer:    deps.Mailer,
		state:     models.StateDisconnected,
		transfers: []models.TransferRecord{},
	}
}

func (s *TransactionService) log() *logrus.Entry {
	return logrus.WithField("session_id", s.id)
}

// Open restores the cached transfer count and runs the startup probe.
func (s *TransactionService) Open(ctx context.Context) error {
	count, ok, err := s.durable.Get(ctx, models.KeyTransactionCount)
	if err != nil {
		s.log().WithError(err).Warn("failed to read cached transaction count")
	}
	if ok {
		s.mu.Lock()
		s.count = count
		s.mu.Unlock()
	}
	return s.Probe(ctx)
}

// Close waits for background notifications and ends the session scope.
func (s *TransactionService) Close() {
	s.background.Wait()
	s.session.Clear()
	s.log().Info("session closed")
}

func (s *TransactionService) SetWallet(wallet walletclient.Adapter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = wallet
}

func (s *TransactionService) currentWallet() walletclient.Adapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// Probe runs the three startup checks concurrently. Their failures are logged,
// only a missing wallet is reported.
func (s *TransactionService) Probe(ctx context.Context) error {
	wallet := s.currentWallet()
	if wallet == nil {
		s.log().Warn("Please install MetaMask.")
		return models.ErrWalletUnavailable
	}

	var g errgroup.Group
	g.Go(func() error {
		s.checkWalletConnected(ctx, wallet)
		return nil
	})
	g.Go(func() error {
		s.checkAccount(ctx, wallet)
		return nil
	})
	g.Go(func() error {
		s.checkTransfersExist(ctx)
		return nil
	})
	return g.Wait()
}

func (s *TransactionService) checkWalletConnected(ctx context.Context, wallet walletclient.Adapter) {
	accounts, err := wallet.ListAuthorizedAccounts(ctx)
	if err != nil {
		s.log().WithError(err).Warn("account check failed")
		return
	}
	if len(accounts) > 0 {
		s.adopt(accounts[0])
		s.setSessionFlag(ctx)
		return
	}

	flagged, err := s.sessionFlag(ctx)
	if err != nil {
		s.log().WithError(err).Warn("failed to read session flag")
		return
	}
	if !flagged {
		s.clearAccount()
		s.clearSessionFlag(ctx)
	}
}

func (s *TransactionService) checkAccount(ctx context.Context, wallet walletclient.Adapter) {
	accounts, err := wallet.ListAuthorizedAccounts(ctx)
	if err != nil {
		s.log().WithError(err).Warn("account check failed")
		return
	}
	if len(accounts) == 0 {
		s.log().Info("No accounts found")
		return
	}
	s.adopt(accounts[0])
	if _, err := s.RefreshTransfers(ctx); err != nil {
		s.log().WithError(err).Warn("failed to read transfers")
	}
}

func (s *TransactionService) checkTransfersExist(ctx context.Context) {
	count, err := s.ledger.TransferCount(ctx)
	if err != nil {
		s.log().WithError(err).Warn("failed to read transaction count")
		return
	}
	if err := s.durable.Set(ctx, models.KeyTransactionCount, strconv.FormatUint(count, 10)); err != nil {
		s.log().WithError(err).Warn("failed to cache transaction count")
	}
}

// Connect asks the wallet for an account and adopts it. The backend is told
// about the address in the background; its failures never reach the caller.
func (s *TransactionService) Connect(ctx context.Context) error {
	wallet := s.currentWallet()
	if wallet == nil {
		s.log().Warn("Please install MetaMask.")
		return models.ErrWalletUnavailable
	}

	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		s.log().WithError(err).Error("Error connecting to wallet")
		return err
	}
	if len(accounts) == 0 {
		return errors.Wrap(models.ErrUserRejected, "no accounts granted")
	}

	account := accounts[0]
	s.adopt(account)
	s.setSessionFlag(ctx)
	metrics.Inc(metrics.METRIC_WALLET_CONNECTED)
	s.log().WithField("account", account).Info("wallet connected")

	if s.notifier == nil {
		return nil
	}
	s.goBackground(ctx, func(ctx context.Context) {
		if err := s.notifier.NotifyAddress(ctx, account); err != nil {
			if !errors.Is(err, models.ErrNoToken) {
				metrics.Inc(metrics.METRIC_NOTIFY_FAILED)
			}
			s.log().WithError(err).WithField("account", account).Error("Error updating Ethereum address in backend")
		}
	})
	return nil
}

// Disconnect forgets the account and the session flag.
func (s *TransactionService) Disconnect(ctx context.Context) {
	s.mu.Lock()
	s.account = ""
	s.state = models.StateDisconnected
	s.mu.Unlock()
	s.clearSessionFlag(ctx)
}

func (s *TransactionService) EditDraft(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.draft.With(name, value)
	if err != nil {
		return err
	}
	s.draft = draft
	return nil
}

// Submit sends the draft as a native transfer, records it in the ledger and
// waits for confirmation. The session is back in connected-idle and the
// loading flag is false on every return path.
func (s *TransactionService) Submit(ctx context.Context) (models.SendResult, error) {
	wallet := s.currentWallet()
	if wallet == nil {
		s.log().Warn("No ethereum object")
		return models.UnsuccessResult(), nil
	}

	s.mu.Lock()
	switch {
	case s.state == models.StateSubmitting || s.state == models.StateConfirming:
		s.mu.Unlock()
		return models.UnsuccessResult(), models.ErrSubmitInProgress
	case s.account == "":
		s.mu.Unlock()
		return models.UnsuccessResult(), models.ErrNotConnected
	}
	s.state = models.StateSubmitting
	from, draft := s.account, s.draft
	s.mu.Unlock()

	defer s.finishSubmit()

	log := s.log().WithField("account", from)
	fail := func(err error) (models.SendResult, error) {
		metrics.Inc(metrics.METRIC_TRANSFER_FAILED)
		log.WithError(err).Error("transaction failed")
		return models.UnsuccessResult(), errors.Wrap(err, "send transaction")
	}

	amount, err := units.ParseEther(draft.Amount)
	if err != nil {
		return fail(err)
	}
	if _, err := walletclient.SendValue(ctx, wallet, from, draft.AddressTo, amount); err != nil {
		return fail(err)
	}
	metrics.Inc(metrics.METRIC_TRANSFER_SUBMITTED)

	pending, err := s.ledger.Append(ctx, wallet, from, draft.AddressTo, amount, draft.Message, draft.Keyword)
	if err != nil {
		return fail(err)
	}
	hash := pending.Hash().Hex()
	log = log.WithField("tx_hash", hash)

	s.mu.Lock()
	s.loading = true
	s.state = models.StateConfirming
	s.mu.Unlock()
	log.Info("Loading")

	if err := pending.Await(ctx); err != nil {
		return fail(err)
	}
	log.Info("Success")
	s.setLoading(false)

	count, err := s.ledger.TransferCount(ctx)
	if err != nil {
		return fail(err)
	}
	metrics.Inc(metrics.METRIC_TRANSFER_CONFIRMED)
	if s.updateCount(ctx, count) {
		if err := s.Probe(ctx); err != nil {
			log.WithError(err).Warn("re-probe after count change failed")
		}
	}
	s.sendReceipt(ctx, from, draft, hash)

	return models.SuccessResult(draft, hash), nil
}

func (s *TransactionService) finishSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.state != models.StateSubmitting && s.state != models.StateConfirming {
		return
	}
	// a re-probe during confirmation may have dropped the account
	if s.account == "" {
		s.state = models.StateDisconnected
		return
	}
	s.state = models.StateConnectedIdle
}

// RefreshTransfers re-reads the ledger's transfer log into the session.
func (s *TransactionService) RefreshTransfers(ctx context.Context) ([]models.TransferRecord, error) {
	records, err := s.ledger.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.transfers = records
	s.mu.Unlock()
	s.log().WithField("count", len(records)).Debug("transfers refreshed")
	return append([]models.TransferRecord(nil), records...), nil
}

func (s *TransactionService) TransferCount(ctx context.Context) (uint64, error) {
	return s.ledger.TransferCount(ctx)
}

func (s *TransactionService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Snapshot{
		SessionID:        s.id,
		State:            s.state,
		CurrentAccount:   s.account,
		IsLoading:        s.loading,
		TransactionCount: s.count,
		Transactions:     append([]models.TransferRecord{}, s.transfers...),
		FormData:         s.draft,
	}
}

func (s *TransactionService) adopt(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
	if s.state == models.StateDisconnected {
		s.state = models.StateConnectedIdle
	}
}

func (s *TransactionService) clearAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = ""
	if s.state == models.StateConnectedIdle {
		s.state = models.StateDisconnected
	}
}

func (s *TransactionService) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// updateCount stores the ledger count and reports whether it changed.
func (s *TransactionService) updateCount(ctx context.Context, count uint64) bool {
	value := strconv.FormatUint(count, 10)

	s.mu.Lock()
	changed := s.count != value
	s.count = value
	s.mu.Unlock()

	if err := s.durable.Set(ctx, models.KeyTransactionCount, value); err != nil {
		s.log().WithError(err).Warn("failed to cache transaction count")
	}
	return changed
}

func (s *TransactionService) sessionFlag(ctx context.Context) (bool, error) {
	v, ok, err := s.session.Get(ctx, models.KeyWalletConnected)
	return ok && v == "true", err
}

func (s *TransactionService) setSessionFlag(ctx context.Context) {
	if err := s.session.Set(ctx, models.KeyWalletConnected, "true"); err != nil {
		s.log().WithError(err).Warn("failed to set session flag")
	}
}

func (s *TransactionService) clearSessionFlag(ctx context.Context) {
	if err := s.session.Delete(ctx, models.KeyWalletConnected); err != nil {
		s.log().WithError(err).Warn("failed to clear session flag")
	}
}

func (s *TransactionService) sendReceipt(ctx context.Context, from string, draft models.DraftTransfer, hash string) {
	if s.mailer == nil {
		return
	}
	receipt := utils.Receipt{
		From:    from,
		To:      draft.AddressTo,
		Amount:  draft.Amount,
		Keyword: draft.Keyword,
		Message: draft.Message,
		TxHash:  hash,
	}
	s.goBackground(ctx, func(ctx context.Context) {
		if err := s.mailer.SendReceipt(ctx, receipt); err != nil {
			s.log().WithError(err).WithField("tx_hash", hash).Warn("failed to send receipt mail")
		}
	})
}

// goBackground runs fn detached from the caller's cancellation; Close waits for it.
func (s *TransactionService) goBackground(ctx context.Context, fn func(ctx context.Context)) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()
		fn(bctx)
	}()
}
