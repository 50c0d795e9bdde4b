package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

func materialCacheKey(id string) string {
	return "material:" + id
}

// MaterialUseCase manages the material catalog. Stock is only ever changed by
// the cashier pipeline; catalog edits leave it alone.
type MaterialUseCase struct {
	txManager    TransactionManager
	materialRepo MaterialRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	cache        Cache
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewMaterialUseCase creates a new MaterialUseCase. cache and metrics may be nil.
func NewMaterialUseCase(
	txManager TransactionManager,
	materialRepo MaterialRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *MaterialUseCase {
	return &MaterialUseCase{
		txManager:    txManager,
		materialRepo: materialRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		cache:        cache,
		metrics:      metrics,
		logger:       logger.With().Str("component", "material").Logger(),
	}
}

// CreateMaterialInput represents input for creating a material.
type CreateMaterialInput struct {
	Name           string
	Specifications string
	Brand          string
	Functions      string
	Remarks        string
	OriginalPrice  decimal.Decimal
	Price          decimal.Decimal
	DiscountPrice  decimal.Decimal
	// StockQuantity is the opening stock.
	StockQuantity int64
	Actor         string
}

// UpdateMaterialInput carries catalog edits. Nil fields are left unchanged.
type UpdateMaterialInput struct {
	ID             string
	Name           *string
	Specifications *string
	Brand          *string
	Functions      *string
	Remarks        *string
	OriginalPrice  *decimal.Decimal
	Price          *decimal.Decimal
	DiscountPrice  *decimal.Decimal
	Actor          string
}

// ListMaterialsInput represents input for listing materials.
type ListMaterialsInput struct {
	Limit  int
	Offset int
}

// MaterialChoice is one option of a material picker.
type MaterialChoice struct {
	ID    string
	Label string
}

// CreateMaterial adds a material to the catalog.
func (uc *MaterialUseCase) CreateMaterial(ctx context.Context, input CreateMaterialInput) (*domain.Material, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateMaterialName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidatePrices(input.OriginalPrice, input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, domain.ErrInvalidStock
	}
	if err := domain.ValidateRemarks(input.Remarks); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	material := &domain.Material{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Specifications: input.Specifications,
		Brand:          input.Brand,
		Functions:      input.Functions,
		Remarks:        input.Remarks,
		OriginalPrice:  input.OriginalPrice,
		Price:          input.Price,
		DiscountPrice:  input.DiscountPrice,
		StockQuantity:  input.StockQuantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.materialRepo.Create(txCtx, tx, material); err != nil {
		return nil, domain.Persistence("insert material", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionMaterialCreate, material.ID, nil, material, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, domain.Persistence("commit", err)
	}

	if uc.metrics != nil {
		uc.metrics.MaterialsCreated.Inc()
		uc.metrics.MaterialStock.WithLabelValues(material.ID).Set(float64(material.StockQuantity))
	}

	uc.logger.Info().Str("material_id", material.ID).Str("name", material.Name).Msg("material created")

	return material, nil
}

// GetMaterial retrieves a material, served from cache when possible.
func (uc *MaterialUseCase) GetMaterial(ctx context.Context, id string) (*domain.Material, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, materialCacheKey(id)); err == nil && data != nil {
			var cached domain.Material
			if err := json.Unmarshal(data, &cached); err == nil {
				uc.countCache("hit")
				return &cached, nil
			}
		}
		uc.countCache("miss")
	}

	material, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get material", err)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(material); err == nil {
			if err := uc.cache.Set(ctx, materialCacheKey(id), data, MaterialCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("material_id", id).Msg("failed to cache material")
			}
		}
	}

	return material, nil
}

// ListMaterials lists materials with pagination.
func (uc *MaterialUseCase) ListMaterials(ctx context.Context, input ListMaterialsInput) ([]*domain.Material, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	materials, err := uc.materialRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list materials", err)
	}
	return materials, nil
}

// UpdateMaterial edits catalog fields and prices.
func (uc *MaterialUseCase) UpdateMaterial(ctx context.Context, input UpdateMaterialInput) (*domain.Material, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	material, err := uc.materialRepo.GetByIDForUpdate(txCtx, tx, input.ID)
	if err != nil {
		return nil, domain.Persistence("lock material", err)
	}

	before := *material
	applyMaterialChanges(material, input)

	if err := domain.ValidateMaterialName(material.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidatePrices(material.OriginalPrice, material.Price, material.DiscountPrice); err != nil {
		return nil, err
	}
	if err := domain.ValidateRemarks(material.Remarks); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	material.UpdatedAt = now

	if err := uc.materialRepo.UpdateCatalog(txCtx, tx, material); err != nil {
		return nil, domain.Persistence("update material", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionMaterialUpdate, material.ID, &before, material, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, domain.Persistence("commit", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, materialCacheKey(material.ID)); err != nil {
			uc.logger.Warn().Err(err).Str("material_id", material.ID).Msg("failed to invalidate material cache")
		}
	}

	return material, nil
}

// Choices returns every material as an id and display label pair.
func (uc *MaterialUseCase) Choices(ctx context.Context) ([]MaterialChoice, error) {
	const page = 100

	var choices []MaterialChoice
	for offset := 0; ; offset += page {
		materials, err := uc.materialRepo.List(ctx, page, offset)
		if err != nil {
			return nil, domain.Persistence("list materials", err)
		}

		for _, m := range materials {
			choices = append(choices, MaterialChoice{ID: m.ID, Label: m.Label()})
		}

		if len(materials) < page {
			return choices, nil
		}
	}
}

func applyMaterialChanges(m *domain.Material, input UpdateMaterialInput) {
	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.Specifications != nil {
		m.Specifications = *input.Specifications
	}
	if input.Brand != nil {
		m.Brand = *input.Brand
	}
	if input.Functions != nil {
		m.Functions = *input.Functions
	}
	if input.Remarks != nil {
		m.Remarks = *input.Remarks
	}
	if input.OriginalPrice != nil {
		m.OriginalPrice = *input.OriginalPrice
	}
	if input.Price != nil {
		m.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		m.DiscountPrice = *input.DiscountPrice
	}
}

func (uc *MaterialUseCase) audit(
	ctx context.Context,
	tx Transaction,
	actor string,
	action domain.AuditAction,
	materialID string,
	before, after *domain.Material,
	at time.Time,
) error {
	if uc.auditRepo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor,
		Action:       string(action),
		ResourceType: domain.ResourceTypeMaterial,
		ResourceID:   materialID,
		RequestID:    domain.RequestIDFromContext(ctx),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    at,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return domain.Persistence("insert audit log", err)
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
	return nil
}

func (uc *MaterialUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}
