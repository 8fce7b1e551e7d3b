package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizops/internal/core"
)

func newExpenseCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and query business expenses",
	}
	cmd.AddCommand(
		newExpenseAddCmd(e),
		newExpenseRemoveCmd(e),
		newExpenseListCmd(e),
		newExpenseCategoriesCmd(e),
	)
	return cmd
}

func newExpenseAddCmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add DESCRIPTION AMOUNT",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseMoney(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			ex, ok, err := e.app.Expenses.Add(cmd.Context(), args[0], amount, category)
			if !ok {
				return fmt.Errorf("expense not recorded: description must not be empty and amount must be positive")
			}
			e.printf("Recorded expense %s %s (%s)\n", ex.ID, ex.Amount, ex.Category)
			return err
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Expense category (default "+core.DefaultExpenseCategory+")")
	return cmd
}

func newExpenseRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := e.app.Expenses.Remove(cmd.Context(), args[0])
			if !removed && err == nil {
				return fmt.Errorf("expense %s: %w", args[0], core.ErrNotFound)
			}
			if removed {
				e.printf("Removed expense %s\n", args[0])
			}
			return err
		},
	}
}

func newExpenseListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := e.table()
			fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
			for _, ex := range e.app.Expenses.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					ex.ID, formatDate(ex.Date.In(e.cfg.Location())), ex.Description, ex.Category, ex.Amount)
			}
			return w.Flush()
		},
	}
}

func newExpenseCategoriesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := e.table()
			fmt.Fprintln(w, "CATEGORY\tAMOUNT")
			for _, c := range e.app.Expenses.CategoryTotals() {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Amount)
			}
			fmt.Fprintf(w, "Total\t%s\n", e.app.Expenses.Total())
			return w.Flush()
		},
	}
}
