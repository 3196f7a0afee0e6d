package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the ledger's transfer log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, gateway, err := dialLedger(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		records, err := gateway.ListTransfers(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tFROM\tTO\tAMOUNT\tKEYWORD\tMESSAGE\tWHEN")
		for i, r := range records {
			fmt.Fprintf(w, "%03d\t%s\t%s\t%s ETH\t%s\t%s\t%s (%s)\n",
				i+1, r.AddressFrom, r.AddressTo, humanize.Ftoa(r.Amount), r.Keyword, r.Message,
				r.Timestamp, humanize.Time(r.SentAt))
		}
		return w.Flush()
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Prints the number of transfers in the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, gateway, err := dialLedger(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		count, err := gateway.TransferCount(ctx)
		if err != nil {
			return err
		}
		fmt.Println(humanize.Comma(int64(count)))
		return nil
	},
}
