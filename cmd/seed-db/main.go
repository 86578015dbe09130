// Command seed-db runs migrations and loads a demo catalog plus default
// cashier accounts into PostgreSQL.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-backend/internal/domain/auth"
	"github.com/xenking/pos-backend/internal/storage/postgres"
)

type seedProduct struct {
	id          string
	sku         string
	name        string
	price       string
	description string
	stock       int
	colors      []string
}

var seedProducts = []seedProduct{
	{id: "prod-sku001", sku: "SKU001", name: "T-Shirt Classic", price: "29.99", description: "Classic cotton t-shirt", stock: 100, colors: []string{"red", "blue", "white", "black"}},
	{id: "prod-sku002", sku: "SKU002", name: "Jeans Premium", price: "79.99", description: "Premium denim jeans", stock: 50, colors: []string{"blue", "black"}},
	{id: "prod-sku003", sku: "SKU003", name: "Sneakers Sport", price: "99.99", description: "Sport sneakers", stock: 25},
	{id: "prod-sku004", sku: "SKU004", name: "Jacket Winter", price: "149.99", description: "Winter jacket", stock: 30, colors: []string{"black", "brown", "gray"}},
}

type seedCashier struct {
	id       string
	email    string
	password string
	name     string
	role     string
}

var seedCashiers = []seedCashier{
	{id: "cashier-demo", email: "cashier@example.com", password: "password123", name: "John Cashier", role: "cashier"},
	{id: "admin-demo", email: "admin@example.com", password: "admin123", name: "Admin User", role: "admin"},
}

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := upsertProducts(ctx, pool); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := upsertCashiers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed cashiers")
	}
	return nil
}

const upsertProductSQL = `INSERT INTO products (id, sku, name, price, description, stock, colors, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (id) DO UPDATE SET
		sku = EXCLUDED.sku, name = EXCLUDED.name, price = EXCLUDED.price,
		description = EXCLUDED.description, stock = EXCLUDED.stock,
		colors = EXCLUDED.colors, updated_at = EXCLUDED.updated_at`

func upsertProducts(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("upserting products", slog.Int("count", len(seedProducts)))

	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for %s", p.sku)
		}

		colors := p.colors
		if colors == nil {
			colors = []string{}
		}

		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.id, p.sku, p.name, price, p.description, p.stock, colors, time.Now(),
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.sku)
		}

		slog.Info("upserted product", slog.String("sku", p.sku), slog.String("name", p.name))
	}
	return nil
}

const upsertCashierSQL = `INSERT INTO cashiers (id, email, password_hash, name, role, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
	ON CONFLICT (id) DO UPDATE SET
		email = EXCLUDED.email, password_hash = EXCLUDED.password_hash,
		name = EXCLUDED.name, role = EXCLUDED.role, active = TRUE,
		updated_at = EXCLUDED.updated_at`

func upsertCashiers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("upserting cashiers", slog.Int("count", len(seedCashiers)))

	for _, c := range seedCashiers {
		if _, err := pool.Exec(ctx, upsertCashierSQL,
			c.id, c.email, auth.HashPassword(c.password), c.name, c.role, time.Now(),
		); err != nil {
			return errors.Wrapf(err, "upsert cashier %s", c.email)
		}

		slog.Info("upserted cashier", slog.String("email", c.email), slog.String("role", c.role))
	}
	return nil
}
