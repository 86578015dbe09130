// Command catalog-ingest loads product catalog dumps into PostgreSQL.
//
// Dumps are gzip-compressed JSON-lines files (catalog*.gz). Supplier dumps
// overlap: a SKU appearing in more than one dump has conflicting records of
// unknown provenance, so it is skipped. Detection uses one bloom filter per
// file so whole dumps never have to be held in memory.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/pos-backend/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
)

// record is one product line in a catalog dump.
type record struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Stock       int      `json:"stock"`
	Colors      []string `json:"colors"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalog*.gz dump files")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "catalog*.gz"))
	if err != nil {
		return errors.Wrap(err, "glob dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no catalog*.gz files in %s", dataDir)
	}
	sort.Strings(files)

	// Pass 1: one bloom filter of SKUs per dump, built concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: collect records whose SKU appears in exactly one dump.
	slog.Info("pass 2: collecting unique records")

	products, err := collectUniqueRecords(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "collect unique records")
	}

	slog.Info("unique products found", slog.Int("count", len(products)))

	if len(products) == 0 {
		slog.Info("no products to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeProducts(ctx, pool, products); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(rec record) {
			if rec.SKU == "" {
				return
			}
			filter.AddString(rec.SKU)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
		)

		filters[idx] = filter
		return nil
	}
}

// collectUniqueRecords re-streams each file and keeps records whose SKU does
// not test positive in any OTHER file's bloom filter. A false positive drops
// a legitimate record, which is acceptable at the configured FPR; a SKU
// repeated within one file keeps its first occurrence.
func collectUniqueRecords(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]record, error) {
	results := make([][]record, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(collectFromFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []record
	for _, r := range results {
		merged = append(merged, r...)
	}

	return merged, nil
}

func collectFromFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results [][]record,
) func() error {
	return func() error {
		var (
			kept     []record
			count    uint64
			skipped  uint64
			seenSKUs = make(map[string]struct{})
		)

		if err := streamGzFile(ctx, path, func(rec record) {
			if rec.SKU == "" {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}

			if _, ok := seenSKUs[rec.SKU]; ok {
				return
			}
			seenSKUs[rec.SKU] = struct{}{}

			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(rec.SKU) {
					skipped++
					return
				}
			}

			kept = append(kept, rec)
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for unique records", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
			slog.Uint64("conflicting", skipped),
			slog.Int("kept", len(kept)),
		)

		results[idx] = kept
		return nil
	}
}

// streamGzFile opens a gzip-compressed JSON-lines file and calls fn for each
// parsed line. Malformed lines are skipped, not fatal.
func streamGzFile(ctx context.Context, path string, fn func(rec record)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		fn(rec)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products (id, sku, name, price, description, stock, colors, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, price = EXCLUDED.price,
		description = EXCLUDED.description, stock = EXCLUDED.stock,
		colors = EXCLUDED.colors, updated_at = EXCLUDED.updated_at`

// writeProducts upserts all unique products into the database. Product IDs
// are derived from the SKU so re-running the ingest updates rather than
// duplicates.
func writeProducts(ctx context.Context, pool *pgxpool.Pool, products []record) error {
	slog.Info("writing products to database", slog.Int("count", len(products)))

	for i, rec := range products {
		price, err := decimal.NewFromString(rec.Price)
		if err != nil {
			slog.Warn("skipping record with bad price",
				slog.String("sku", rec.SKU),
				slog.String("price", rec.Price),
			)
			continue
		}

		colors := rec.Colors
		if colors == nil {
			colors = []string{}
		}

		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(rec.SKU)).String()
		if _, err := pool.Exec(ctx, upsertProductSQL,
			id, rec.SKU, rec.Name, price, rec.Description, rec.Stock, colors, time.Now(),
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", rec.SKU)
		}

		if (i+1)%100 == 0 || i+1 == len(products) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(products)))
		}
	}

	return nil
}
