package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/postgres"
	"github.com/iho/washledger/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. Tests are skipped when
// the variable is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	migrationsPath := "migrations"
	for _, candidate := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(candidate); err == nil {
			migrationsPath = candidate
			break
		}
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 2)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE audit_logs;
		TRUNCATE TABLE extra_charges;
		TRUNCATE TABLE event_types CASCADE;
		TRUNCATE TABLE customers;
		TRUNCATE TABLE ledger_entries CASCADE;
		TRUNCATE TABLE materials CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// MaterialFixture describes a seeded material. Zero prices default to
// 5 / 10 / 8.
type MaterialFixture struct {
	Name          string
	OriginalPrice decimal.Decimal
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	Stock         int64
}

// CreateTestMaterial inserts a material directly, bypassing the use cases.
func (db *TestDB) CreateTestMaterial(ctx context.Context, f MaterialFixture) *domain.Material {
	db.t.Helper()

	if f.Name == "" {
		f.Name = "Foam shampoo"
	}
	if f.OriginalPrice.IsZero() && f.Price.IsZero() && f.DiscountPrice.IsZero() {
		f.OriginalPrice = decimal.NewFromInt(5)
		f.Price = decimal.NewFromInt(10)
		f.DiscountPrice = decimal.NewFromInt(8)
	}

	now := time.Now().UTC()
	ts := pgtype.Timestamptz{Time: now, Valid: true}

	row, err := db.Queries.CreateMaterial(ctx, generated.CreateMaterialParams{
		ID:            GenerateID(),
		Name:          f.Name,
		OriginalPrice: numeric(f.OriginalPrice),
		Price:         numeric(f.Price),
		DiscountPrice: numeric(f.DiscountPrice),
		StockQuantity: f.Stock,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test material: %v", err)
	}

	return &domain.Material{
		ID:            row.ID,
		Name:          f.Name,
		OriginalPrice: f.OriginalPrice,
		Price:         f.Price,
		DiscountPrice: f.DiscountPrice,
		StockQuantity: f.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Stock reads the current stock of a material.
func (db *TestDB) Stock(ctx context.Context, materialID string) int64 {
	db.t.Helper()

	row, err := db.Queries.GetMaterialByID(ctx, materialID)
	if err != nil {
		db.t.Fatalf("failed to read material %s: %v", materialID, err)
	}
	return row.StockQuantity
}

// AsUser returns ctx carrying an acting user.
func AsUser(ctx context.Context, id string, role domain.Role) context.Context {
	return domain.ContextWithUser(ctx, &domain.User{ID: id, Name: id, Role: role})
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}
