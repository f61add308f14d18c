package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"show-reservations-client/internal/api"
	"show-reservations-client/internal/config"
	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/services"
	"show-reservations-client/internal/session"
	"show-reservations-client/internal/storage"
)

const usage = `Usage: reservations <command> [flags]

Commands:
  login         -username -password        authenticate and store the session
  register      -username -password -email [-first] [-last]
  logout                                   wipe the stored session
  status                                   show session and cart state
  artist        -id                        show an artist profile
  shows         -title                     list representations for a title
  add           -title -schedule -location -price [-quantity]
  cart                                     print the local cart
  checkout                                 run the checkout workflow
  reservations  [-csv file]                booking history, optionally as CSV
  reviews       [-search text]             shows and their reviews
  watch                                    poll session validity until interrupted
`

type app struct {
	config       *config.Config
	logger       *logger.Logger
	store        *session.Store
	client       *api.Client
	auth         *services.AuthService
	catalog      *services.CatalogService
	checkout     *services.CheckoutOrchestrator
	reservations *services.ReservationService
	reviews      *services.ReviewService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("failed to open local storage: %v", err)
	}
	defer st.Close()

	store, err := session.NewStore(st, log)
	if err != nil {
		log.Fatalf("failed to restore session: %v", err)
	}

	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})

	a := &app{
		config:       cfg,
		logger:       log,
		store:        store,
		client:       client,
		auth:         services.NewAuthService(client, store, log),
		catalog:      services.NewCatalogService(client, store, time.Minute, log),
		checkout:     services.NewCheckoutOrchestrator(client, store, log),
		reservations: services.NewReservationService(client, store),
		reviews:      services.NewReviewService(client),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return a.auth.Logout()
	case "status":
		return a.cmdStatus()
	case "artist":
		return a.cmdArtist(ctx, args)
	case "shows":
		return a.cmdShows(ctx, args)
	case "add":
		return a.cmdAdd(args)
	case "cart":
		return a.cmdCart()
	case "checkout":
		return a.cmdCheckout(ctx)
	case "reservations":
		return a.cmdReservations(ctx, args)
	case "reviews":
		return a.cmdReviews(ctx, args)
	case "watch":
		return a.cmdWatch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", user.FullName())
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	email := fs.String("email", "", "account email")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	fs.Parse(args)

	err := a.auth.Register(ctx, &models.RegisterRequest{
		Username:  *username,
		Password:  *password,
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created, you can log in now")
	return nil
}

func (a *app) cmdStatus() error {
	sess, ok := a.store.Get()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Logged in as %s (id %d)\n", sess.User.FullName(), sess.UserID())
	fmt.Printf("Cart: %d line(s), %d ticket(s)\n", len(sess.Cart.Items), sess.Cart.TotalQuantity())
	return nil
}

func (a *app) cmdArtist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("artist", flag.ExitOnError)
	id := fs.Int("id", 0, "artist id")
	fs.Parse(args)

	artist, err := a.catalog.ArtistDetail(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", artist.Firstname, artist.Lastname)
	for _, artistType := range artist.Types {
		fmt.Printf("  type: %s\n", artistType.Type)
	}
	for _, show := range artist.Shows {
		bookable := "not bookable"
		if show.Bookable {
			bookable = "bookable"
		}
		fmt.Printf("  show: %s (%d min, %s)\n", show.Title, show.Duration, bookable)
	}
	return nil
}

func (a *app) cmdShows(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shows", flag.ExitOnError)
	title := fs.String("title", "", "show title")
	fs.Parse(args)

	representations, err := a.catalog.Representations(ctx, *title)
	if err != nil {
		return err
	}
	if len(representations) == 0 {
		fmt.Println("No representations found")
		return nil
	}
	for _, rep := range representations {
		fmt.Printf("%s — %s @ %s\n", rep.Title, rep.Schedule, rep.Location)
	}
	return nil
}

func (a *app) cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "show title")
	schedule := fs.String("schedule", "", "representation schedule")
	location := fs.String("location", "", "representation location")
	price := fs.String("price", "", "price category")
	quantity := fs.Int("quantity", 1, "number of tickets")
	fs.Parse(args)

	err := a.catalog.AddToCart(models.CartLineItem{
		Title:    *title,
		Schedule: *schedule,
		Location: *location,
		Quantity: *quantity,
		Price:    models.PriceRef{Type: *price},
	})
	if err != nil {
		return err
	}
	fmt.Println("Added to cart")
	return nil
}

func (a *app) cmdCart() error {
	sess, ok := a.store.Get()
	if !ok {
		return models.ErrNotLoggedIn
	}
	if !sess.Cart.HasItems() {
		fmt.Println("Cart is empty")
		return nil
	}
	for _, item := range sess.Cart.Items {
		fmt.Printf("%dx %s — %s @ %s (%s)\n",
			item.Quantity, item.Title, item.Schedule, item.Location, item.Price.Type)
	}
	return nil
}

func (a *app) cmdCheckout(ctx context.Context) error {
	result, err := a.checkout.Run(ctx)
	if err != nil {
		return err
	}

	if result.State == services.StateAborted {
		return fmt.Errorf("checkout aborted: %s", result.Reason)
	}

	fmt.Printf("Checkout completed: %d line(s) submitted, %d dropped\n",
		len(result.Submitted), result.Dropped)
	if result.SubmitErr != nil {
		fmt.Println("Warning: the cart was cleared but the order submission failed; check your reservations")
	}
	return nil
}

func (a *app) cmdReservations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reservations", flag.ExitOnError)
	csvPath := fs.String("csv", "", "write the history to this CSV file")
	fs.Parse(args)

	history, err := a.reservations.History(ctx)
	if err != nil {
		return err
	}

	if *csvPath != "" {
		file, err := os.Create(*csvPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *csvPath, err)
		}
		defer file.Close()
		if err := a.reservations.WriteCSV(file, history); err != nil {
			return err
		}
		fmt.Printf("Wrote %d reservation(s) to %s\n", len(history), *csvPath)
		return nil
	}

	if len(history) == 0 {
		fmt.Println("No reservations")
		return nil
	}
	for _, res := range history {
		fmt.Printf("%s — %d place(s), %s (%s)\n",
			res.Title, res.Quantity, res.BookingDate.Format("02/01/2006 15:04"), res.Status)
	}
	return nil
}

func (a *app) cmdReviews(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reviews", flag.ExitOnError)
	search := fs.String("search", "", "filter shows by title")
	fs.Parse(args)

	shows, err := a.reviews.ShowsWithReviews(ctx, *search)
	if err != nil {
		return err
	}

	for _, show := range shows {
		if avg, ok := show.AverageStars(); ok {
			fmt.Printf("%s (%.1f ★)\n", show.Show.Title, avg)
		} else {
			fmt.Printf("%s (no reviews)\n", show.Show.Title)
		}
		for _, review := range show.Reviews {
			fmt.Printf("  %d ★ %s: %s\n", review.Stars, review.User.Username, review.Review)
		}
	}
	return nil
}

func (a *app) cmdWatch(ctx context.Context) error {
	validator := session.NewValidator(a.store, a.client, a.config.Session.PollInterval, a.logger)

	a.store.Subscribe(func(_ models.Session, loggedIn bool) {
		if !loggedIn {
			fmt.Println("Session ended, log in again")
		}
	})

	validator.Start(ctx)
	defer validator.Stop()

	fmt.Printf("Watching session every %s, Ctrl-C to stop\n", a.config.Session.PollInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
