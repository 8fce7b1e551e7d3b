package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizops/internal/core"
)

func newBookingCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Record and query bookings",
	}
	cmd.AddCommand(
		newBookingAddCmd(e),
		newBookingListCmd(e),
		newBookingStatusCmd(e),
		newBookingRemoveCmd(e),
		newBookingStatsCmd(e),
		newBookingCustomerCmd(e),
	)
	return cmd
}

func newBookingAddCmd(e *env) *cobra.Command {
	var (
		raw  core.RawBooking
		date string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and record a booking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.parseDate(date)
			if err != nil {
				return err
			}
			raw.Date = d
			b, err := e.app.Bookings.Add(cmd.Context(), raw)
			if err != nil && b.ID == "" {
				return err
			}
			e.printf("Created booking %s for %s, total revenue %s\n", b.ID, b.CustomerName, b.TotalRevenue)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&raw.CustomerName, "customer", "", "Customer name")
	f.StringVar(&raw.Email, "email", "", "Customer email")
	f.StringVar(&raw.ContactNumber, "contact", "", "10-digit contact number")
	f.StringVar(&date, "date", "", "Travel date YYYY-MM-DD (default today)")
	f.StringVar(&raw.BasePay, "base", "", "Base pay")
	f.StringVar(&raw.CommissionAmount, "commission", "", "Commission amount")
	f.StringVar(&raw.MarkupAmount, "markup", "", "Markup amount")
	f.StringVar(&raw.Category, "category", "", "flight, bus, train, cab or hotel")
	f.StringVar(&raw.Platform, "platform", "", "Booking platform (required for flight, hotel, cab)")
	f.StringVar(&raw.Status, "status", "", "pending, confirmed or cancelled (default pending)")
	return cmd
}

func newBookingListCmd(e *env) *cobra.Command {
	var (
		status string
		search string
		recent int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var bookings []core.Booking
			if recent > 0 {
				bookings = e.app.Bookings.Recent(recent)
			} else {
				bookings = e.app.Bookings.Filter(status, search)
			}
			e.printBookings(bookings)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Filter by status (all, pending, confirmed, cancelled)")
	cmd.Flags().StringVar(&search, "search", "", "Match customer name or booking id")
	cmd.Flags().IntVar(&recent, "recent", 0, "Show only the N most recently created bookings")
	return cmd
}

func newBookingStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a booking's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := e.app.Bookings.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil && b.ID == "" {
				return err
			}
			e.printf("Booking %s is now %s\n", b.ID, b.Status)
			return err
		},
	}
}

func newBookingRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := e.app.Bookings.Remove(cmd.Context(), args[0])
			if !removed && err == nil {
				return fmt.Errorf("booking %s: %w", args[0], core.ErrNotFound)
			}
			if removed {
				e.printf("Removed booking %s\n", args[0])
			}
			return err
		},
	}
}

func newBookingStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show booking counts and revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.app.Bookings.Stats()
			w := e.table()
			fmt.Fprintf(w, "Total\t%d\n", s.Total)
			fmt.Fprintf(w, "Pending\t%d\n", s.Pending)
			fmt.Fprintf(w, "Confirmed\t%d\n", s.Confirmed)
			fmt.Fprintf(w, "Cancelled\t%d\n", s.Cancelled)
			fmt.Fprintf(w, "Revenue\t%s\n", s.TotalRevenue)
			fmt.Fprintf(w, "Base pay\t%s\n", s.TotalBasePay)
			return w.Flush()
		},
	}
}

func newBookingCustomerCmd(e *env) *cobra.Command {
	var email, contact string
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "List a customer's bookings by email or contact number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" && contact == "" {
				return fmt.Errorf("one of --email or --contact is required")
			}
			e.printBookings(e.app.Bookings.ForCustomer(email, contact))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Customer email")
	cmd.Flags().StringVar(&contact, "contact", "", "Customer contact number")
	return cmd
}

func (e *env) printBookings(bookings []core.Booking) {
	w := e.table()
	fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tCATEGORY\tPLATFORM\tSTATUS\tREVENUE")
	for _, b := range bookings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, formatDate(b.Date), b.CustomerName, b.Category, b.Platform, b.Status, b.TotalRevenue)
	}
	_ = w.Flush()
}
