package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger_wallet_session/internal/wallet"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a throwaway key for the local signer (wallet.private_key)",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wallet.GenerateWallet()
		if err != nil {
			return err
		}
		fmt.Printf("address:     %s\nprivate key: 0x%s\n", w.Address, w.PrivateKey)
		return nil
	},
}
