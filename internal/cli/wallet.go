package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bizops/internal/core"
)

func newWalletCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Move money between the business cash pools",
	}
	cmd.AddCommand(
		newWalletMoveCmd(e, "credit", "Add money to a wallet", e.credit),
		newWalletMoveCmd(e, "debit", "Take money out of a wallet", e.debit),
		newWalletBalanceCmd(e),
		newWalletListCmd(e),
		newWalletHistoryCmd(e),
		newWalletReconcileCmd(e),
	)
	return cmd
}

type moveFunc func(ctx context.Context, key string, amount core.Money, actor string) (core.LedgerEntry, error)

func (e *env) credit(ctx context.Context, key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	return e.app.Wallets.Credit(ctx, key, amount, actor)
}

func (e *env) debit(ctx context.Context, key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	return e.app.Wallets.Debit(ctx, key, amount, actor)
}

func newWalletMoveCmd(e *env, use, short string, move moveFunc) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   use + " WALLET AMOUNT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParsePositiveMoney(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			entry, err := move(cmd.Context(), args[0], amount, actor)
			if err != nil && entry.ID == "" {
				return err
			}
			e.printf("%s %s %s, balance %s\n", entry.ID, entry.Operation, entry.Amount, e.app.Wallets.BalanceOf(entry.WalletKey))
			return err
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who performed the operation (default System)")
	return cmd
}

func newWalletBalanceCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "balance WALLET",
		Short: "Show a wallet's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e.printf("%s\n", e.app.Wallets.BalanceOf(args[0]))
			return nil
		},
	}
}

func newWalletListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallets with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := e.table()
			fmt.Fprintln(w, "WALLET\tBALANCE\tOPENING")
			for _, a := range e.app.Wallets.Wallets() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Key, a.Balance, a.Initial)
			}
			return w.Flush()
		},
	}
}

func newWalletHistoryCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [WALLET]",
		Short: "Show ledger entries, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			}
			w := e.table()
			fmt.Fprintln(w, "ID\tTIME\tWALLET\tOPERATION\tAMOUNT\tACTOR")
			for _, en := range e.app.Wallets.History(key, limit) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					en.ID, en.Timestamp.In(e.cfg.Location()).Format("2006-01-02 15:04"), en.WalletKey, en.Operation, en.Amount, en.Actor)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newWalletReconcileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile WALLET",
		Short: "Check a wallet's balance against its opening balance and ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.app.Wallets.Reconcile(args[0]); err != nil {
				return err
			}
			e.printf("%s reconciles at %s\n", args[0], e.app.Wallets.BalanceOf(args[0]))
			return nil
		},
	}
}
