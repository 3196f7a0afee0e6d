package backend

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/models"
)

const updateAddressPath = "/api/users/updateEthereumAddress"

// TokenSource yields the bearer credential left by the external auth flow.
type TokenSource interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Notifier tells the account service which wallet address the user connected.
type Notifier struct {
	client *resty.Client
	tokens TokenSource
}

func NewNotifier(baseURL string, timeout time.Duration, tokens TokenSource) *Notifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Notifier{
		client: client,
		tokens: tokens,
	}
}

func (n *Notifier) NotifyAddress(ctx context.Context, account string) error {
	token, ok, err := n.tokens.Get(ctx, models.KeyToken)
	if err != nil {
		return errors.Wrap(models.ErrBackendNotifyFailed, err.Error())
	}
	if !ok || token == "" {
		logrus.Info("No token found")
		return models.ErrNoToken
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(models.UpdateAddressInput{EthereumAddress: account}).
		Post(updateAddressPath)
	if err != nil {
		return errors.Wrap(models.ErrBackendNotifyFailed, err.Error())
	}
	if resp.IsError() {
		return errors.Wrapf(models.ErrBackendNotifyFailed, "status %d: %s", resp.StatusCode(), resp.String())
	}

	logrus.WithField("account", account).Info("Ethereum address updated successfully in backend")
	return nil
}
