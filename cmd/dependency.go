package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"ledger_wallet_session/pkg/backend"
	"ledger_wallet_session/pkg/cache"
	"ledger_wallet_session/pkg/ledgerclient"
	"ledger_wallet_session/pkg/metrics"
	"ledger_wallet_session/pkg/repository"
	"ledger_wallet_session/pkg/service"
	"ledger_wallet_session/pkg/utils"
	"ledger_wallet_session/pkg/walletclient"
)

type dependencies struct {
	service *service.Service
	closers []func()
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func dialLedger(ctx context.Context) (*ethclient.Client, *ledgerclient.Gateway, error) {
	client, err := ethclient.DialContext(ctx, viper.GetString("ledger.rpc_url"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "dial ledger rpc")
	}

	location := time.Local
	if tz := viper.GetString("display.timezone"); tz != "" {
		if location, err = time.LoadLocation(tz); err != nil {
			client.Close()
			return nil, nil, errors.Wrapf(err, "load timezone %s", tz)
		}
	}

	gateway, err := ledgerclient.NewGateway(client, ledgerclient.Config{
		Address:      viper.GetString("ledger.contract_address"),
		Location:     location,
		Layout:       viper.GetString("display.layout"),
		PollInterval: viper.GetDuration("ledger.confirm_poll"),
	})
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, gateway, nil
}

func newRepository(deps *dependencies) (*repository.Repository, error) {
	if viper.GetString("db.host") == "" {
		logrus.Warn("db.host is empty, durable storage is kept in memory")
		return repository.NewMemoryRepository(), nil
	}

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "init database")
	}
	deps.closers = append(deps.closers, func() { db.Close() })

	if err := repository.EnsureSchema(db); err != nil {
		return nil, errors.Wrap(err, "ensure schema")
	}
	logrus.Info("database connected")
	return repository.NewRepository(db), nil
}

func newWallet(ctx context.Context, deps *dependencies, ledger *ethclient.Client) (walletclient.Adapter, error) {
	if url := viper.GetString("wallet.rpc_url"); url != "" {
		adapter, err := walletclient.DialRPCAdapter(ctx, url)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, adapter.Close)
		return adapter, nil
	}
	if key := viper.GetString("wallet.private_key"); key != "" {
		adapter, err := walletclient.NewKeyedAdapter(ledger, key)
		if err != nil {
			return nil, errors.Wrap(err, "load wallet key")
		}
		return adapter, nil
	}
	logrus.Warn("no wallet configured, wallet operations will report it as unavailable")
	return nil, nil
}

func newMailer() utils.Mailer {
	switch viper.GetString("mail.provider") {
	case "mailjet":
		return utils.NewMailjetMailer(
			viper.GetString("mail.mailjet_api_key"),
			viper.GetString("mail.mailjet_secret_key"),
			viper.GetString("mail.from"),
			viper.GetString("mail.to"),
		)
	case "smtp":
		return utils.NewSMTPMailer(
			viper.GetString("mail.smtp_host"),
			viper.GetInt("mail.smtp_port"),
			viper.GetString("mail.smtp_username"),
			viper.GetString("mail.smtp_password"),
			viper.GetString("mail.from"),
			viper.GetString("mail.to"),
		)
	}
	return nil
}

func defaultDependencyInject(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{}
	metrics.Init()

	repos, err := newRepository(deps)
	if err != nil {
		deps.Close()
		return nil, err
	}

	client, gateway, err := dialLedger(ctx)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.closers = append(deps.closers, client.Close)

	wallet, err := newWallet(ctx, deps, client)
	if err != nil {
		deps.Close()
		return nil, err
	}

	svcDeps := service.Deps{
		Wallet:   wallet,
		Ledger:   gateway,
		Notifier: backend.NewNotifier(viper.GetString("backend.base_url"), viper.GetDuration("backend.timeout"), repos.Durable),
		Session:  cache.NewSessionCache(viper.GetDuration("session.ttl")),
		Mailer:   newMailer(),
	}

	deps.service = service.NewService(repos, svcDeps)
	return deps, nil
}
