package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Shiv-727-nov/E-commerce/internal/api"
	"github.com/Shiv-727-nov/E-commerce/internal/cart"
	"github.com/Shiv-727-nov/E-commerce/internal/catalog"
	"github.com/Shiv-727-nov/E-commerce/internal/checkout"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/orders"
	"github.com/Shiv-727-nov/E-commerce/internal/payment"
	"github.com/Shiv-727-nov/E-commerce/internal/session"
)

type Config struct {
	APIBaseURL     string
	RedisAddr      string // optional profile store
	RequestTimeout time.Duration
}

func loadConfig() *Config {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080/api"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RequestTimeout: 30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// app bundles the wired stores for the command handlers.
type app struct {
	session *session.Store
	catalog *catalog.Store
	cart    *cart.Store
	orders  *orders.Store
	payment *payment.Flow
}

func newApp(cfg *Config, logger *slog.Logger) *app {
	var creds session.CredentialStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		creds = session.NewRedisCredentialStore(client)
	} else {
		creds = session.NewMemoryCredentialStore()
	}

	notifier := terminalNotifier{}

	// The session store dispatches through the same client it feeds
	// tokens into, so the token source is bound after construction.
	tokens := &lateTokens{}
	client := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
		Tokens:  tokens,
	})
	sessions := session.NewStore(client, creds, notifier, logger)
	tokens.source = sessions

	catalogStore := catalog.NewStore(client, sessions, notifier, logger)
	cartStore := cart.NewStore(client, sessions, catalogStore, notifier, logger)
	orderStore := orders.NewStore(client, sessions, notifier, logger)
	flow := payment.NewFlow(client, orderStore, terminalGateway{}, notifier, logger)

	return &app{
		session: sessions,
		catalog: catalogStore,
		cart:    cartStore,
		orders:  orderStore,
		payment: flow,
	}
}

// lateTokens breaks the construction cycle between the API client and
// the session store that holds its bearer token.
type lateTokens struct {
	source api.TokenSource
}

func (t *lateTokens) Token() string {
	if t.source == nil {
		return ""
	}
	return t.source.Token()
}

// terminalNotifier prints the transient notifications a web UI would
// toast.
type terminalNotifier struct{}

func (terminalNotifier) Success(msg string) { fmt.Println("✔", msg) }
func (terminalNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "✘", msg) }

// terminalGateway stands in for the hosted payment page: it shows the
// intent and reads the gateway's payment id and signature back from
// the operator. An empty line means the payment dialog was closed.
type terminalGateway struct{}

func (terminalGateway) Collect(_ context.Context, intent domain.PaymentIntent) (payment.GatewayResult, error) {
	fmt.Printf("Pay %d %s (gateway order %s), then paste \"<paymentId> <signature>\": ",
		intent.AmountMinorUnits, intent.Currency, intent.GatewayOrderID)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return payment.Abandoned(), nil
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return payment.Abandoned(), nil
	}
	if len(fields) != 2 {
		return payment.Failure("gateway response must be \"<paymentId> <signature>\""), nil
	}
	return payment.Success(fields[0], fields[1]), nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := loadConfig()
	a := newApp(cfg, logger)

	ctx := context.Background()
	a.session.Restore(ctx)

	root := &cobra.Command{
		Use:           "shopfront",
		Short:         "Terminal client for the shoe storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCmd(a), registerCmd(a), logoutCmd(a),
		productsCmd(a), cartCmd(a), checkoutCmd(a),
		ordersCmd(a), adminCmd(a),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:  "login <email> <password>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.cart.Fetch(cmd.Context())
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:  "register <name> <email> <password>",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session.Register(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:  "logout",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Logout(cmd.Context())
			a.cart.Reset()
			a.orders.Reset()
			a.catalog.Reset()
			return nil
		},
	}
}

func productsCmd(a *app) *cobra.Command {
	var gender, category, search string
	cmd := &cobra.Command{
		Use:  "products",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var err error
			switch {
			case search != "":
				if err = a.catalog.Search(ctx, search); err == nil {
					printProducts(a.catalog.SearchResults())
				}
			case gender != "":
				if err = a.catalog.FetchProductsByGender(ctx, gender); err == nil {
					printProducts(a.catalog.Products())
				}
			case category != "":
				if err = a.catalog.FetchProductsByCategory(ctx, category); err == nil {
					printProducts(a.catalog.Products())
				}
			default:
				if err = a.catalog.FetchProducts(ctx); err == nil {
					printProducts(a.catalog.Products())
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&gender, "gender", "", "filter by gender")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&search, "search", "", "keyword search")
	return cmd
}

func printProducts(products []domain.Product) {
	for _, p := range products {
		fmt.Printf("%4d  %-24s %-12s %8.2f  stock %d\n", p.ID, p.Name, p.Brand, p.Price, p.StockQuantity)
	}
}

func cartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "cart",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cart.Fetch(cmd.Context()); err != nil {
				return err
			}
			for _, it := range a.cart.Items() {
				name := ""
				if it.Product != nil {
					name = it.Product.Name
				}
				fmt.Printf("%4d  product %d %-24s x%d  %8.2f\n", it.ID, it.ProductID, name, it.Quantity, it.LineTotal())
			}
			fmt.Printf("subtotal: %.2f\n", a.cart.Subtotal())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "add <productId> <quantity>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				// The catalog must know the product before it can be added
				if _, err := a.catalog.Product(cmd.Context(), productID); err != nil {
					return err
				}
				return a.cart.Add(cmd.Context(), productID, quantity)
			},
		},
		&cobra.Command{
			Use:  "update <itemId> <quantity>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", args[0])
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				return a.cart.Update(cmd.Context(), itemID, quantity)
			},
		},
		&cobra.Command{
			Use:  "remove <itemId>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", args[0])
				}
				return a.cart.Remove(cmd.Context(), itemID)
			},
		},
		&cobra.Command{
			Use:  "clear",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.cart.Clear(cmd.Context())
			},
		},
	)
	return cmd
}

func checkoutCmd(a *app) *cobra.Command {
	var details checkout.ShippingDetails
	cmd := &cobra.Command{
		Use:  "checkout",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.cart.Fetch(ctx); err != nil {
				return err
			}

			quote := checkout.QuoteFor(a.cart.Subtotal())
			fmt.Printf("subtotal %.2f  shipping %.2f  tax %.2f  total %.2f\n",
				quote.Subtotal, quote.Shipping, quote.Tax, quote.Total)

			order, err := a.orders.Create(ctx, a.cart.Items(), details)
			if err != nil {
				return err
			}

			if err := a.payment.Pay(ctx, order.ID); err != nil {
				fmt.Fprintf(os.Stderr, "order %d stays pending, retry with: shopfront orders pay %d\n", order.ID, order.ID)
				return err
			}

			// Payment settled: clear the cart explicitly and pick up the
			// authoritative order status
			if err := a.cart.Clear(ctx); err != nil {
				return err
			}
			return a.orders.FetchOrders(ctx)
		},
	}
	cmd.Flags().StringVar(&details.FullName, "name", "", "recipient name")
	cmd.Flags().StringVar(&details.Address, "address", "", "street address")
	cmd.Flags().StringVar(&details.City, "city", "", "city")
	cmd.Flags().StringVar(&details.State, "state", "", "state")
	cmd.Flags().StringVar(&details.PostalCode, "pincode", "", "postal code")
	cmd.Flags().StringVar(&details.Phone, "phone", "", "contact phone")
	return cmd
}

func ordersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "orders",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.orders.FetchOrders(cmd.Context()); err != nil {
				return err
			}
			printOrders(a.orders.Orders())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "show <orderId>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				orderID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid order id %q", args[0])
				}
				order, err := a.orders.FetchOrder(cmd.Context(), orderID)
				if err != nil {
					return err
				}
				printOrders([]domain.Order{order})
				for _, it := range order.Items {
					fmt.Printf("      %-24s x%d  %8.2f\n", it.ProductName, it.Quantity, it.Price)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:  "pay <orderId>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				orderID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid order id %q", args[0])
				}
				ctx := cmd.Context()
				if err := a.orders.FetchOrders(ctx); err != nil {
					return err
				}
				if err := a.payment.Pay(ctx, orderID); err != nil {
					return err
				}
				if err := a.cart.Clear(ctx); err != nil {
					return err
				}
				return a.orders.FetchOrders(ctx)
			},
		},
	)
	return cmd
}

func printOrders(list []domain.Order) {
	for _, o := range list {
		fmt.Printf("%4d  %-12s %10.2f  %s\n", o.ID, o.Status, o.TotalAmount, o.ShippingAddress)
	}
}

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator view (admin role required)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "orders",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.orders.FetchAllOrders(cmd.Context()); err != nil {
					return err
				}
				printOrders(a.orders.Orders())
				return nil
			},
		},
		&cobra.Command{
			Use:  "status <orderId> <status>",
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				orderID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid order id %q", args[0])
				}
				status := domain.OrderStatus(strings.ToUpper(args[1]))
				return a.orders.UpdateStatus(cmd.Context(), orderID, status)
			},
		},
		&cobra.Command{
			Use:  "dashboard",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				if err := a.orders.FetchAllOrders(ctx); err != nil {
					return err
				}
				if err := a.catalog.FetchProducts(ctx); err != nil {
					return err
				}
				fmt.Printf("orders: %d\nrevenue: %.2f\nlow stock products: %d\n",
					a.orders.Count(), a.orders.Revenue(), a.catalog.LowStockCount(5))
				return nil
			},
		},
		&cobra.Command{
			Use:  "low-stock",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				threshold, err := cmd.Flags().GetInt("threshold")
				if err != nil {
					return err
				}
				products, err := a.catalog.LowStockProducts(cmd.Context(), threshold)
				if err != nil {
					return err
				}
				printProducts(products)
				return nil
			},
		},
	)
	cmd.PersistentFlags().Int("threshold", 10, "low stock threshold")
	return cmd
}
