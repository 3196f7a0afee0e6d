package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ledgersession "ledger_wallet_session"
	"ledger_wallet_session/models"
	"ledger_wallet_session/pkg/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the wallet session to the UI over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps, err := defaultDependencyInject(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		tx := deps.service.Transaction
		if err := tx.Open(ctx); err != nil {
			if !errors.Is(err, models.ErrWalletUnavailable) {
				return err
			}
			logrus.WithError(err).Warn("session opened without a wallet")
		}
		defer tx.Close()

		h := handler.NewHandler(deps.service, viper.GetStringSlice("server.allowed_origins"))
		srv := new(ledgersession.Server)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Run(viper.GetString("server.port"), h.InitRoute())
		}()
		logrus.Infof("listening on port %s", viper.GetString("server.port"))

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	_ = os.Setenv("GIN_MODE", "release")
}
