package main

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"contoso_hotel/internal/app"
	"contoso_hotel/internal/domain"
)

// session is what one command runs against. Cache is the API's list cache and
// is nil when none is configured; Closer is released when the command ends.
type session struct {
	Repo   domain.Repository
	Cache  domain.Cache
	Closer io.Closer
}

type opener func(ctx context.Context) (session, error)

// cli reads straight from the store and writes through the command service,
// so the listings the API caches are evicted like they are for API writes.
type cli struct {
	open   opener
	out    io.Writer
	repo   domain.Repository
	cmds   *app.CommandService
	closer io.Closer
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	c := &cli{open: open, out: out}
	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Contoso hotel data administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			sess, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.repo, c.closer = sess.Repo, sess.Closer
			c.cmds = app.NewCommandService(sess.Repo, sess.Cache)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.closer == nil {
				return nil
			}
			return c.closer.Close()
		},
	}
	root.SetOut(out)
	root.AddCommand(c.setupCmd(), c.statusCmd(), c.hotelsCmd(), c.visitorsCmd(), c.bookingsCmd())
	return root
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) setupCmd() *cobra.Command {
	var opts domain.SetupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Drop, create and seed the hotel schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := c.cmds.Setup(cmd.Context(), opts)
			if perr := c.print(rep); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.Drop, "drop", false, "drop existing tables first (requires --create)")
	cmd.Flags().BoolVar(&opts.Create, "create", false, "create missing tables")
	cmd.Flags().BoolVar(&opts.Populate, "populate", false, "seed empty tables with sample data")
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether every table exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(map[string]bool{"ready": c.repo.AllTablesExist(cmd.Context())})
		},
	}
}

func (c *cli) deleteCmd(entity string, del func(context.Context, int64) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + entity + " by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return domain.Validation(entity + " id must be an integer")
			}
			ok, err := del(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]bool{"deleted": ok})
		},
	}
}

// optionalID returns the --id flag only when it was given.
func optionalID(cmd *cobra.Command, id int64) *int64 {
	if !cmd.Flags().Changed("id") {
		return nil
	}
	return &id
}

func (c *cli) hotelsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "hotels", Short: "Manage hotels"}

	var f domain.NameFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List hotels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hs, err := c.repo.ListHotels(cmd.Context(), f)
			if err != nil {
				return err
			}
			return c.print(hs)
		},
	}
	list.Flags().StringVar(&f.Name, "name", "", "filter by name (substring, case-insensitive)")
	list.Flags().BoolVar(&f.Exact, "exact", false, "match the name exactly")

	var (
		name  string
		price float64
		id    int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a hotel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := c.cmds.CreateHotel(cmd.Context(), name, price, optionalID(cmd, id))
			if err != nil {
				return err
			}
			return c.print(h)
		},
	}
	create.Flags().StringVar(&name, "name", "", "hotel name")
	create.Flags().Float64Var(&price, "price", 0, "price per night")
	create.Flags().Int64Var(&id, "id", 0, "explicit hotel id")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("price")

	cmd.AddCommand(list, create, c.deleteCmd("hotel", func(ctx context.Context, id int64) (bool, error) {
		return c.cmds.DeleteHotel(ctx, id)
	}))
	return cmd
}

func (c *cli) visitorsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "visitors", Short: "Manage visitors"}

	var f domain.NameFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List visitors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vs, err := c.repo.ListVisitors(cmd.Context(), f)
			if err != nil {
				return err
			}
			return c.print(vs)
		},
	}
	list.Flags().StringVar(&f.Name, "name", "", "filter by first or last name")
	list.Flags().BoolVar(&f.Exact, "exact", false, "match the name exactly")

	var (
		first, last string
		id          int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a visitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := c.cmds.CreateVisitor(cmd.Context(), first, last, optionalID(cmd, id))
			if err != nil {
				return err
			}
			return c.print(v)
		},
	}
	create.Flags().StringVar(&first, "first", "", "first name")
	create.Flags().StringVar(&last, "last", "", "last name")
	create.Flags().Int64Var(&id, "id", 0, "explicit visitor id")
	_ = create.MarkFlagRequired("first")
	_ = create.MarkFlagRequired("last")

	cmd.AddCommand(list, create, c.deleteCmd("visitor", func(ctx context.Context, id int64) (bool, error) {
		return c.cmds.DeleteVisitor(ctx, id)
	}))
	return cmd
}

func parseDateFlag(name, v string) (time.Time, error) {
	t, err := time.Parse(domain.DateFormat, v)
	if err != nil {
		return time.Time{}, domain.Validation("--" + name + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

func (c *cli) bookingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "bookings", Short: "Manage bookings"}

	var (
		visitorID, hotelID int64
		from, until        string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List bookings overlapping an optional date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f domain.BookingFilter
			if cmd.Flags().Changed("visitor") {
				f.VisitorID = &visitorID
			}
			if cmd.Flags().Changed("hotel") {
				f.HotelID = &hotelID
			}
			if from != "" {
				t, err := parseDateFlag("from", from)
				if err != nil {
					return err
				}
				f.From = &t
			}
			if until != "" {
				t, err := parseDateFlag("until", until)
				if err != nil {
					return err
				}
				f.Until = &t
			}
			bs, err := c.repo.ListBookings(cmd.Context(), f)
			if err != nil {
				return err
			}
			return c.print(bs)
		},
	}
	list.Flags().Int64Var(&visitorID, "visitor", 0, "only this visitor's bookings")
	list.Flags().Int64Var(&hotelID, "hotel", 0, "only this hotel's bookings")
	list.Flags().StringVar(&from, "from", "", "bookings checking out on or after this date")
	list.Flags().StringVar(&until, "until", "", "bookings checking in on or before this date")

	cmd.AddCommand(list, c.createBookingCmd(), c.deleteCmd("booking", func(ctx context.Context, id int64) (bool, error) {
		return c.cmds.DeleteBooking(ctx, id)
	}))
	return cmd
}

func (c *cli) createBookingCmd() *cobra.Command {
	var (
		nb                domain.NewBooking
		checkin, checkout string
		id                int64
		rooms             int
		price             float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a booking; rooms and price default from occupancy and the hotel rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if nb.Checkin, err = parseDateFlag("checkin", checkin); err != nil {
				return err
			}
			if nb.Checkout, err = parseDateFlag("checkout", checkout); err != nil {
				return err
			}
			nb.ID = optionalID(cmd, id)
			if cmd.Flags().Changed("rooms") {
				nb.Rooms = &rooms
			}
			if cmd.Flags().Changed("price") {
				nb.Price = &price
			}
			b, err := c.cmds.CreateBooking(cmd.Context(), nb)
			if err != nil {
				return err
			}
			return c.print(b)
		},
	}
	fs := cmd.Flags()
	fs.Int64Var(&nb.HotelID, "hotel", 0, "hotel id")
	fs.Int64Var(&nb.VisitorID, "visitor", 0, "visitor id")
	fs.StringVar(&checkin, "checkin", "", "checkin date (YYYY-MM-DD)")
	fs.StringVar(&checkout, "checkout", "", "checkout date (YYYY-MM-DD)")
	fs.IntVar(&nb.Adults, "adults", 1, "number of adults")
	fs.IntVar(&nb.Kids, "kids", 0, "number of kids")
	fs.IntVar(&nb.Babies, "babies", 0, "number of babies")
	fs.IntVar(&rooms, "rooms", 0, "rooms to book")
	fs.Float64Var(&price, "price", 0, "total price")
	fs.Int64Var(&id, "id", 0, "explicit booking id")
	for _, req := range []string{"hotel", "visitor", "checkin", "checkout"} {
		_ = cmd.MarkFlagRequired(req)
	}
	return cmd
}
