package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/junaidrashid-git/modelstore-api/checkout"
	"github.com/junaidrashid-git/modelstore-api/config"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `usage: storefront [--api URL] [--data DIR] [--payment-delay D] <command> [args]

commands:
  products [--search T] [--category C]... [--manufacturer M]... [--min N] [--max N] [--sort KEY]
  product <id>
  cart [list | add <id> [--qty N] | remove <id> | set <id> <qty> | clear]
  wishlist [list | toggle <id> | remove <id> | clear]
  register --name N --email E --password P
  login --email E --password P
  logout
  whoami
  checkout --name N --email E --phone P --address A --city C --zip Z [--payment METHOD]
  orders [clear]
  return <orderId> [--reason R] [--item ID]...
  returns [clear]
`

var errUsage = errors.New("invalid usage")

// Main runs the storefront CLI and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadStorefront()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "API base URL")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory for local state")
	fs.DurationVar(&cfg.PaymentDelay, "payment-delay", cfg.PaymentDelay, "simulated payment processing time")
	verbose := fs.BoolP("verbose", "v", false, "log to stderr")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := zap.NewNop()
	if *verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
		}
	}
	defer log.Sync()

	store, err := storage.NewFile(cfg.DataDir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	app, err := New(Options{
		APIURL:       cfg.APIURL,
		Store:        store,
		PaymentDelay: cfg.PaymentDelay,
		Log:          log,
	})
	if app == nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err != nil {
		fmt.Fprintln(stderr, "warning:", err)
	}

	cli := &CLI{App: app, Out: stdout}
	if err := cli.Run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// CLI executes one command against an App.
type CLI struct {
	App *App
	Out io.Writer
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return c.products(rest)
	case "product":
		return c.product(rest)
	case "cart":
		return c.cart(rest)
	case "wishlist":
		return c.wishlist(rest)
	case "register":
		return c.register(ctx, rest)
	case "login":
		return c.login(ctx, rest)
	case "logout":
		if err := c.App.Session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(c.Out, "Sesión cerrada")
		return nil
	case "whoami":
		return c.whoami()
	case "checkout":
		return c.checkout(ctx, rest)
	case "orders":
		return c.orders(ctx, rest)
	case "return":
		return c.requestReturn(ctx, rest)
	case "returns":
		return c.returns(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (c *CLI) products(args []string) error {
	fs := newFlags("products")
	search := fs.String("search", "", "text to search for")
	categories := fs.StringArray("category", nil, "category filter (repeatable)")
	manufacturers := fs.StringArray("manufacturer", nil, "manufacturer filter (repeatable)")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	sortBy := fs.String("sort", "", "name-asc|name-desc|price-asc|price-desc|rating-desc")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	key, err := catalog.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}
	q := catalog.Query{Term: *search, Categories: *categories, Manufacturers: *manufacturers, Sort: key}
	if *minPrice != "" {
		if q.Price.Min, err = decimal.NewFromString(*minPrice); err != nil {
			return fmt.Errorf("invalid --min: %w", err)
		}
	}
	if *maxPrice != "" {
		v, err := decimal.NewFromString(*maxPrice)
		if err != nil {
			return fmt.Errorf("invalid --max: %w", err)
		}
		q.Price.Max = decimal.NewNullDecimal(v)
	}

	res := c.App.Catalog.Query(q)
	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tFABRICANTE\tPRECIO\tRATING")
	for _, p := range res.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", p.ID, p.Name, p.Manufacturer, money(p.Price), p.Rating)
	}
	tw.Flush()
	fmt.Fprintf(c.Out, "%d productos\n", res.Total)
	return nil
}

func (c *CLI) product(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	p, err := c.App.Product(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(c.Out, "  %s · %s\n", p.Manufacturer, p.Category)
	fmt.Fprintf(c.Out, "  %s\n", p.ShortDescription)
	fmt.Fprintf(c.Out, "  Precio: %s  Rating: %.1f (%d reseñas)\n", money(p.Price), p.Rating, p.Reviews)
	fmt.Fprintf(c.Out, "  Formato: %s  Polígonos: %d  Impresión: %s  Tamaño: %s\n",
		p.FileFormat, p.PolygonCount, p.PrintTime, p.FileSize)
	if c.App.Wishlist.Contains(p.ID) {
		fmt.Fprintln(c.Out, "  ♥ En tu lista de deseos")
	}
	if q := c.App.Cart.QuantityOf(p.ID); q > 0 {
		fmt.Fprintf(c.Out, "  En el carrito: %d\n", q)
	}
	return nil
}

func (c *CLI) cart(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var err error
	switch sub {
	case "list":
	case "add":
		fs := newFlags("cart add")
		qty := fs.Int("qty", 1, "quantity to add")
		if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
			return errUsage
		}
		p, perr := c.App.Product(fs.Arg(0))
		if perr != nil {
			return perr
		}
		err = c.App.Cart.Add(p, *qty)
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		err = c.App.Cart.Remove(args[0])
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		qty, perr := strconv.Atoi(args[1])
		if perr != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		err = c.App.Cart.SetQuantity(args[0], qty)
	case "clear":
		err = c.App.Cart.Clear()
	default:
		return errUsage
	}
	if err != nil && !errors.Is(err, storage.ErrPersist) {
		return err
	}
	c.printCart()
	return err
}

func (c *CLI) printCart() {
	lines := c.App.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(c.Out, "Tu carrito está vacío")
		return
	}
	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tCANT.\tPRECIO\tSUBTOTAL")
	for _, l := range lines {
		lineTotal := l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ID, l.Name, l.Quantity, money(l.Price), money(lineTotal))
	}
	tw.Flush()

	s := c.App.Cart.Summary()
	fmt.Fprintf(c.Out, "Subtotal: %s\nIVA (16%%): %s\nEnvío: %s\nTotal: %s\n",
		money(s.Subtotal), money(s.Tax), money(s.Shipping), money(s.Total))
}

func (c *CLI) wishlist(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		items := c.App.Wishlist.Items()
		if len(items) == 0 {
			fmt.Fprintln(c.Out, "Tu lista de deseos está vacía")
			return nil
		}
		for _, e := range items {
			fmt.Fprintf(c.Out, "%s\t%s\t%s\n", e.ID, e.Name, money(e.Price))
		}
		return nil
	case "toggle":
		if len(args) != 1 {
			return errUsage
		}
		p, err := c.App.Product(args[0])
		if err != nil {
			return err
		}
		present, err := c.App.Wishlist.Toggle(p)
		if present {
			fmt.Fprintf(c.Out, "♥ %s agregado a tu lista de deseos\n", p.Name)
		} else {
			fmt.Fprintf(c.Out, "%s eliminado de tu lista de deseos\n", p.Name)
		}
		return err
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		return c.App.Wishlist.Remove(args[0])
	case "clear":
		return c.App.Wishlist.Clear()
	default:
		return errUsage
	}
}

func (c *CLI) register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	user, err := c.App.Session.Register(ctx, models.RegisterRequest{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Bienvenido, %s\n", user.Name)
	return nil
}

func (c *CLI) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	user, err := c.App.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Hola de nuevo, %s\n", user.Name)
	return nil
}

func (c *CLI) whoami() error {
	user, ok := c.App.Session.User()
	if !ok {
		fmt.Fprintln(c.Out, "No has iniciado sesión")
		return nil
	}
	fmt.Fprintf(c.Out, "%s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}

func (c *CLI) checkout(ctx context.Context, args []string) error {
	fs := newFlags("checkout")
	var info models.ShippingInfo
	fs.StringVar(&info.Name, "name", "", "recipient name")
	fs.StringVar(&info.Email, "email", "", "contact email")
	fs.StringVar(&info.Phone, "phone", "", "phone")
	fs.StringVar(&info.Address, "address", "", "street address")
	fs.StringVar(&info.City, "city", "", "city")
	fs.StringVar(&info.ZipCode, "zip", "", "zip code")
	fs.StringVar(&info.PaymentMethod, "payment", models.PaymentCreditCard, "credit-card|debit-card|paypal|transfer")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if !c.App.Session.Authenticated() {
		return checkout.ErrNotAuthenticated
	}

	fmt.Fprintln(c.Out, "Procesando pago...")
	order, err := c.App.Checkout.Checkout(ctx, info)
	var verrs checkout.ValidationErrors
	if errors.As(err, &verrs) {
		for field, msg := range verrs {
			fmt.Fprintf(c.Out, "  %s: %s\n", field, msg)
		}
		return err
	}
	if order.ID == "" {
		return err
	}
	fmt.Fprintf(c.Out, "¡Pedido %s confirmado! Total: %s\n", order.ID, money(order.Total))
	return err
}

func (c *CLI) orders(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		return c.App.History.ClearOrders()
	}
	if len(args) != 0 {
		return errUsage
	}

	orders := c.App.Orders(ctx)
	if len(orders) == 0 {
		fmt.Fprintln(c.Out, "No tienes pedidos")
		return nil
	}
	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PEDIDO\tFECHA\tARTÍCULOS\tTOTAL\tESTADO")
	for _, o := range orders {
		items := 0
		for _, l := range o.Items {
			items += l.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.Date.Local().Format(time.DateOnly), items, money(o.Total), o.Status)
	}
	return tw.Flush()
}

func (c *CLI) requestReturn(ctx context.Context, args []string) error {
	fs := newFlags("return")
	reason := fs.String("reason", "", "why the order is returned")
	items := fs.StringArray("item", nil, "product id to return (repeatable, default all)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	req, created, err := c.App.RequestReturn(ctx, fs.Arg(0), *reason, *items...)
	if req.ID == "" {
		return err
	}
	if created {
		fmt.Fprintf(c.Out, "Devolución %s solicitada para el pedido %s\n", req.ID, req.OrderID)
	} else {
		fmt.Fprintf(c.Out, "El pedido %s ya tiene la devolución %s\n", req.OrderID, req.ID)
	}
	return err
}

func (c *CLI) returns(args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		return c.App.History.ClearReturns()
	}
	if len(args) != 0 {
		return errUsage
	}

	returns := c.App.History.Returns()
	if len(returns) == 0 {
		fmt.Fprintln(c.Out, "No tienes devoluciones")
		return nil
	}
	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVOLUCIÓN\tPEDIDO\tTOTAL\tESTADO\tMOTIVO")
	for _, r := range returns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.OrderID, money(r.Total), r.Status, strings.TrimSpace(r.Reason))
	}
	return tw.Flush()
}
