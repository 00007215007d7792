package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with demo procurement data",
		Commands: []*cli.Command{
			{
				Name:   "vendors",
				Usage:  "Seed the vendor register only",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runVendorSeed,
			},
			{
				Name:  "demo",
				Usage: "Seed vendors plus a spread of LPOs with items and payments",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "lpos",
						Usage: "Number of LPOs to generate",
						Value: 40,
					},
				},
				Action: runDemoSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func connect(c *cli.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(c.Context, c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

type seedVendor struct {
	id      string
	name    string
	email   string
	phone   string
	address string
}

func demoVendors() []seedVendor {
	names := []struct{ name, domain string }{
		{"Acme Supplies", "acme.test"},
		{"Bull Traders", "bull.test"},
		{"Coastal Hardware", "coastal.test"},
		{"Delta Office Mart", "delta.test"},
		{"Everline Logistics", "everline.test"},
	}
	vendors := make([]seedVendor, 0, len(names))
	for i, n := range names {
		vendors = append(vendors, seedVendor{
			id:      uuid.NewString(),
			name:    n.name,
			email:   "sales@" + n.domain,
			phone:   fmt.Sprintf("555-01%02d", i+1),
			address: fmt.Sprintf("%d Industrial Way", (i+1)*7),
		})
	}
	return vendors
}

func copyVendors(ctx context.Context, conn *pgx.Conn, vendors []seedVendor) error {
	rows := make([][]any, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []any{v.id, v.name, v.email, v.phone, v.address})
	}

	count, err := conn.CopyFrom(ctx,
		pgx.Identifier{"vendors"},
		[]string{"id", "name", "email", "phone", "address"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy vendors: %w", err)
	}
	log.Printf("seeded %d vendors", count)
	return nil
}

func runVendorSeed(c *cli.Context) error {
	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close(c.Context)

	return copyVendors(c.Context, conn, demoVendors())
}

var demoItems = []struct {
	description string
	unitPrice   string
}{
	{"A4 copy paper (box)", "24.50"},
	{"Office desk", "180.00"},
	{"Swivel chair", "95.00"},
	{"Laser printer toner", "62.75"},
	{"Network switch 24-port", "310.00"},
	{"LED panel light", "41.20"},
	{"Cleaning supplies kit", "36.00"},
	{"External hard drive 2TB", "88.90"},
}

func runDemoSeed(c *cli.Context) error {
	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close(c.Context)

	ctx := c.Context
	vendors := demoVendors()
	if err := copyVendors(ctx, conn, vendors); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	statuses := []string{"Pending", "Approved", "Rejected"}

	type seedItem struct {
		lpoID       string
		description string
		quantity    int
		unitPrice   decimal.Decimal
	}
	var (
		lpoRows  [][]any
		items    []seedItem
		payments [][]any
	)

	now := time.Now().UTC()
	for i := 0; i < c.Int("lpos"); i++ {
		lpoID := uuid.NewString()
		vendor := vendors[rng.Intn(len(vendors))]
		created := now.AddDate(0, -rng.Intn(6), -rng.Intn(28))

		total := decimal.Zero
		for n := 0; n < 1+rng.Intn(4); n++ {
			tpl := demoItems[rng.Intn(len(demoItems))]
			qty := 1 + rng.Intn(10)
			price := decimal.RequireFromString(tpl.unitPrice)
			items = append(items, seedItem{lpoID, tpl.description, qty, price})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		status := statuses[rng.Intn(len(statuses))]
		paymentStatus := "Unpaid"
		switch rng.Intn(3) {
		case 0:
			paymentStatus = "Paid"
			payments = append(payments, []any{
				uuid.NewString(), lpoID, total.String(), created.AddDate(0, 0, 7), fmt.Sprintf("TRX-%06d", rng.Intn(1000000)),
			})
		case 1:
			paymentStatus = "Partial"
			half := total.Div(decimal.NewFromInt(2)).Round(2)
			payments = append(payments, []any{
				uuid.NewString(), lpoID, half.String(), created.AddDate(0, 0, 7), fmt.Sprintf("TRX-%06d", rng.Intn(1000000)),
			})
		}

		lpoRows = append(lpoRows, []any{
			lpoID, vendor.id, "seed", status, paymentStatus, total.String(), "0", created,
		})
	}

	// lpo_number is omitted so the table default assigns the next serial.
	count, err := conn.CopyFrom(ctx,
		pgx.Identifier{"lpos"},
		[]string{"id", "vendor_id", "created_by", "status", "payment_status", "total_amount", "additional_percentage", "date_created"},
		pgx.CopyFromRows(lpoRows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy lpos: %w", err)
	}
	log.Printf("seeded %d lpos", count)

	itemRows := make([][]any, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, []any{
			uuid.NewString(), item.lpoID, item.description, item.quantity,
			item.unitPrice.String(), item.unitPrice.Mul(decimal.NewFromInt(int64(item.quantity))).String(),
		})
	}
	count, err = conn.CopyFrom(ctx,
		pgx.Identifier{"lpo_items"},
		[]string{"id", "lpo_id", "description", "quantity", "unit_price", "total_price"},
		pgx.CopyFromRows(itemRows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy lpo items: %w", err)
	}
	log.Printf("seeded %d lpo items", count)

	if len(payments) > 0 {
		count, err = conn.CopyFrom(ctx,
			pgx.Identifier{"lpo_payments"},
			[]string{"id", "lpo_id", "amount", "date", "reference"},
			pgx.CopyFromRows(payments),
		)
		if err != nil {
			return fmt.Errorf("failed to copy lpo payments: %w", err)
		}
		log.Printf("seeded %d lpo payments", count)
	}

	return nil
}
