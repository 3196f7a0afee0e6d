package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger_wallet_session/models"
)

const (
	accountABC = "0xabc0000000000000000000000000000000000001"
	accountDEF = "0xDEF0000000000000000000000000000000000002"
)

func fillDraft(t *testing.T, svc *TransactionService) {
	require.NoError(t, svc.EditDraft(models.DraftAddressTo, accountDEF))
	require.NoError(t, svc.EditDraft(models.DraftAmount, "1.5"))
	require.NoError(t, svc.EditDraft(models.DraftKeyword, "k"))
	require.NoError(t, svc.EditDraft(models.DraftMessage, "m"))
}

func connected(t *testing.T) *fixture {
	f := newFixture()
	f.wallet.grant = []string{accountABC}
	require.NoError(t, f.svc.Connect(context.Background()))
	return f
}

func TestProbeNoAccountNoFlag(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.Open(context.Background()))

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateDisconnected, snap.State)
	assert.Empty(t, snap.CurrentAccount)
	assert.Empty(t, snap.Transactions)
}

func TestProbeAdoptsAuthorizedAccount(t *testing.T) {
	f := newFixture()
	f.wallet.authorized = []string{accountABC}
	f.ledger.records = []models.TransferRecord{{AddressFrom: accountABC, Amount: 2}}

	require.NoError(t, f.svc.Open(context.Background()))

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.Equal(t, accountABC, snap.CurrentAccount)
	assert.Len(t, snap.Transactions, 1)

	flag, ok, _ := f.session.Get(context.Background(), models.KeyWalletConnected)
	assert.True(t, ok)
	assert.Equal(t, "true", flag)

	count, ok, _ := f.durable.Get(context.Background(), models.KeyTransactionCount)
	assert.True(t, ok)
	assert.Equal(t, "1", count)
}

func TestProbeKeepsAccountWhenSessionFlagged(t *testing.T) {
	f := connected(t)
	f.wallet.authorized = nil

	require.NoError(t, f.svc.Probe(context.Background()))

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.Equal(t, accountABC, snap.CurrentAccount)
}

func TestProbeWithoutWallet(t *testing.T) {
	f := newFixture()
	f.svc.SetWallet(nil)

	err := f.svc.Probe(context.Background())
	assert.True(t, errors.Is(err, models.ErrWalletUnavailable))
}

func TestOpenRestoresCachedCount(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.durable.Set(context.Background(), models.KeyTransactionCount, "7"))

	require.NoError(t, f.svc.Open(context.Background()))
	assert.Equal(t, "7", f.svc.Snapshot().TransactionCount)
}

func TestConnect(t *testing.T) {
	f := connected(t)
	f.svc.Close()

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.Equal(t, accountABC, snap.CurrentAccount)
	assert.Equal(t, []string{accountABC}, f.notifier.accounts)
}

func TestConnectNotifyFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.wallet.grant = []string{accountABC}
	f.notifier.err = models.ErrBackendNotifyFailed

	require.NoError(t, f.svc.Connect(context.Background()))
	f.svc.background.Wait()
	assert.Equal(t, accountABC, f.svc.Snapshot().CurrentAccount)
}

func TestConnectRejected(t *testing.T) {
	f := newFixture()
	f.wallet.requestErr = errors.Wrap(models.ErrUserRejected, "denied")

	err := f.svc.Connect(context.Background())
	assert.True(t, errors.Is(err, models.ErrUserRejected))

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateDisconnected, snap.State)
	assert.Empty(t, snap.CurrentAccount)
	_, ok, _ := f.session.Get(context.Background(), models.KeyWalletConnected)
	assert.False(t, ok)
}

func TestConnectWithoutWallet(t *testing.T) {
	f := newFixture()
	f.svc.SetWallet(nil)

	assert.True(t, errors.Is(f.svc.Connect(context.Background()), models.ErrWalletUnavailable))
	assert.Empty(t, f.svc.Snapshot().CurrentAccount)
}

func TestDisconnect(t *testing.T) {
	f := connected(t)

	f.svc.Disconnect(context.Background())

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateDisconnected, snap.State)
	assert.Empty(t, snap.CurrentAccount)
	_, ok, _ := f.session.Get(context.Background(), models.KeyWalletConnected)
	assert.False(t, ok)
}

func TestConnectDisconnectSequences(t *testing.T) {
	f := newFixture()
	f.wallet.grant = []string{accountABC}
	ctx := context.Background()

	steps := []string{"connect", "disconnect", "disconnect", "connect", "connect", "disconnect", "connect"}
	for _, step := range steps {
		if step == "connect" {
			require.NoError(t, f.svc.Connect(ctx))
			assert.Equal(t, accountABC, f.svc.Snapshot().CurrentAccount)
		} else {
			f.svc.Disconnect(ctx)
			assert.Empty(t, f.svc.Snapshot().CurrentAccount)
		}
	}
	f.svc.Close()
}

func TestEditDraftTouchesOneField(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	before := f.svc.Snapshot()

	require.NoError(t, f.svc.EditDraft(models.DraftKeyword, "other"))

	after := f.svc.Snapshot()
	assert.Equal(t, "other", after.FormData.Keyword)
	assert.Equal(t, before.FormData.AddressTo, after.FormData.AddressTo)
	assert.Equal(t, before.FormData.Amount, after.FormData.Amount)
	assert.Equal(t, before.FormData.Message, after.FormData.Message)
	assert.Equal(t, before.CurrentAccount, after.CurrentAccount)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.IsLoading, after.IsLoading)
}

func TestEditDraftUnknownField(t *testing.T) {
	f := newFixture()
	err := f.svc.EditDraft("amountt", "1")
	assert.True(t, errors.Is(err, models.ErrUnknownDraftField))
}

func TestSubmitSuccess(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)

	res, err := f.svc.Submit(context.Background())
	require.NoError(t, err)
	f.svc.Close()

	assert.Equal(t, models.StatusSuccess, res.Status)
	require.NotNil(t, res.TransactionDetails)
	assert.Equal(t, models.DraftTransfer{AddressTo: accountDEF, Amount: "1.5", Keyword: "k", Message: "m"}, *res.TransactionDetails)

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, "1", snap.TransactionCount)
	assert.Len(t, snap.Transactions, 1, "count change re-reads the transfer log")

	sends := f.wallet.sends()
	require.Len(t, sends, 1)
	assert.Equal(t, accountABC, sends[0].From)
	assert.Equal(t, uint64(21000), sends[0].Gas)
	assert.Equal(t, "1500000000000000000", sends[0].Value.String())

	require.Len(t, f.ledger.appends, 1)
	assert.Equal(t, "m", f.ledger.appends[0].message)
	assert.Equal(t, "k", f.ledger.appends[0].keyword)

	count, _, _ := f.durable.Get(context.Background(), models.KeyTransactionCount)
	assert.Equal(t, "1", count)
	require.Len(t, f.mailer.receipts, 1)
	assert.Equal(t, res.TxHash, f.mailer.receipts[0].TxHash)
}

func TestSubmitReprobeDropsAccount(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.wallet.authorized = nil
	require.NoError(t, f.session.Delete(context.Background(), models.KeyWalletConnected))

	res, err := f.svc.Submit(context.Background())
	require.NoError(t, err)
	f.svc.Close()
	assert.Equal(t, models.StatusSuccess, res.Status)

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateDisconnected, snap.State)
	assert.Empty(t, snap.CurrentAccount)
	assert.False(t, snap.IsLoading)
}

func TestSubmitWithoutWallet(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.svc.SetWallet(nil)
	before := f.svc.Snapshot()

	res, err := f.svc.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsuccess, res.Status)

	after := f.svc.Snapshot()
	assert.Equal(t, before.CurrentAccount, after.CurrentAccount)
	assert.Equal(t, before.Transactions, after.Transactions)
	assert.Equal(t, before.State, after.State)
}

func TestSubmitWalletRejects(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.wallet.sendErr = errors.Wrap(models.ErrUserRejected, "denied")

	res, err := f.svc.Submit(context.Background())
	assert.True(t, errors.Is(err, models.ErrUserRejected))
	assert.Equal(t, models.StatusUnsuccess, res.Status)
	assert.Empty(t, f.ledger.appends)

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.False(t, snap.IsLoading)
}

func TestSubmitInvalidAmount(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	require.NoError(t, f.svc.EditDraft(models.DraftAmount, "one"))

	_, err := f.svc.Submit(context.Background())
	assert.True(t, errors.Is(err, models.ErrInvalidAmount))
	assert.Empty(t, f.wallet.sends())
	assert.Equal(t, models.StateConnectedIdle, f.svc.Snapshot().State)
}

func TestSubmitConfirmationFails(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.ledger.awaitErr = models.ErrLedgerConfirmationFailed

	res, err := f.svc.Submit(context.Background())
	assert.True(t, errors.Is(err, models.ErrLedgerConfirmationFailed))
	assert.Equal(t, models.StatusUnsuccess, res.Status)

	snap := f.svc.Snapshot()
	assert.Equal(t, models.StateConnectedIdle, snap.State)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, f.mailer.receipts)
}

func TestSubmitCountFailureClearsLoading(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.ledger.countErr = errors.New("rpc down")

	_, err := f.svc.Submit(context.Background())
	assert.Error(t, err)
	assert.False(t, f.svc.Snapshot().IsLoading)
	assert.Equal(t, models.StateConnectedIdle, f.svc.Snapshot().State)
}

func TestSubmitNotConnected(t *testing.T) {
	f := newFixture()
	fillDraft(t, f.svc)

	_, err := f.svc.Submit(context.Background())
	assert.True(t, errors.Is(err, models.ErrNotConnected))
}

func TestSubmitWhileConfirming(t *testing.T) {
	f := connected(t)
	fillDraft(t, f.svc)
	f.ledger.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		snap := f.svc.Snapshot()
		return snap.State == models.StateConfirming && snap.IsLoading
	}, time.Second, time.Millisecond)

	_, err := f.svc.Submit(context.Background())
	assert.True(t, errors.Is(err, models.ErrSubmitInProgress))

	close(f.ledger.release)
	require.NoError(t, <-done)
	assert.Equal(t, models.StateConnectedIdle, f.svc.Snapshot().State)
	assert.False(t, f.svc.Snapshot().IsLoading)
}

func TestRefreshTransfers(t *testing.T) {
	f := newFixture()
	f.ledger.records = []models.TransferRecord{{Amount: 1}, {Amount: 2}}

	records, err := f.svc.RefreshTransfers(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, f.ledger.listCount())
	assert.Len(t, f.svc.Snapshot().Transactions, 2)
}

func TestCloseClearsSessionScope(t *testing.T) {
	f := connected(t)

	f.svc.Close()

	_, ok, _ := f.session.Get(context.Background(), models.KeyWalletConnected)
	assert.False(t, ok)
}
