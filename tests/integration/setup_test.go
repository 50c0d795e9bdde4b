package integration

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/washledger/internal/adapter/repository/postgres"
	"github.com/iho/washledger/internal/usecase"
	"github.com/iho/washledger/tests/testutil"
)

type harness struct {
	db        *testutil.TestDB
	cashier   *usecase.CashierUseCase
	materials *usecase.MaterialUseCase
	summary   *usecase.SummaryUseCase
	audit     *postgres.AuditRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := postgres.NewULIDGenerator()
	log := zerolog.Nop()

	return &harness{
		db:        db,
		cashier:   usecase.NewCashierUseCase(txManager, materialRepo, entryRepo, auditRepo, idGen, nil, nil, log),
		materials: usecase.NewMaterialUseCase(txManager, materialRepo, auditRepo, idGen, nil, nil, log),
		summary:   usecase.NewSummaryUseCase(entryRepo),
		audit:     auditRepo,
	}
}
