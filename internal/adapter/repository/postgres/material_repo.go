package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/postgres/generated"
	"github.com/iho/washledger/internal/usecase"
)

// MaterialRepository implements usecase.MaterialRepository.
type MaterialRepository struct {
	queries *generated.Queries
}

// NewMaterialRepository creates a new MaterialRepository over a pool.
func NewMaterialRepository(db generated.DBTX) *MaterialRepository {
	return &MaterialRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, tx usecase.Transaction, material *domain.Material) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	row, err := queries.CreateMaterial(ctx, generated.CreateMaterialParams{
		ID:             material.ID,
		Name:           material.Name,
		Specifications: material.Specifications,
		Brand:          material.Brand,
		Functions:      material.Functions,
		Remarks:        material.Remarks,
		OriginalPrice:  decimalToNumeric(material.OriginalPrice),
		Price:          decimalToNumeric(material.Price),
		DiscountPrice:  decimalToNumeric(material.DiscountPrice),
		StockQuantity:  material.StockQuantity,
		Version:        material.Version,
		CreatedAt:      timeToPgTimestamptz(material.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(material.UpdatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrInvalidPrice
		}
		return err
	}

	*material = *rowToMaterial(row)
	return nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepository) GetByID(ctx context.Context, id string) (*domain.Material, error) {
	row, err := r.queries.GetMaterialByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}

		return nil, err
	}

	return rowToMaterial(row), nil
}

// GetByIDForUpdate retrieves a material by ID with a FOR UPDATE lock.
func (r *MaterialRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Material, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetMaterialByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}

		return nil, err
	}

	return rowToMaterial(row), nil
}

// UpdateStock sets the stock count and bumps the version.
func (r *MaterialRepository) UpdateStock(ctx context.Context, tx usecase.Transaction, id string, stock int64, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateMaterialStock(ctx, generated.UpdateMaterialStockParams{
		ID:            id,
		StockQuantity: stock,
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrInvalidStock
		}
		return err
	}
	if n == 0 {
		return domain.ErrMaterialNotFound
	}

	return nil
}

// UpdateCatalog writes descriptive fields and prices.
func (r *MaterialRepository) UpdateCatalog(ctx context.Context, tx usecase.Transaction, material *domain.Material) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateMaterialCatalog(ctx, generated.UpdateMaterialCatalogParams{
		ID:             material.ID,
		Name:           material.Name,
		Specifications: material.Specifications,
		Brand:          material.Brand,
		Functions:      material.Functions,
		Remarks:        material.Remarks,
		OriginalPrice:  decimalToNumeric(material.OriginalPrice),
		Price:          decimalToNumeric(material.Price),
		DiscountPrice:  decimalToNumeric(material.DiscountPrice),
		UpdatedAt:      timeToPgTimestamptz(material.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMaterialNotFound
	}

	return nil
}

// List lists materials ordered by name.
func (r *MaterialRepository) List(ctx context.Context, limit, offset int) ([]*domain.Material, error) {
	rows, err := r.queries.ListMaterials(ctx, generated.ListMaterialsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	materials := make([]*domain.Material, 0, len(rows))
	for _, row := range rows {
		materials = append(materials, rowToMaterial(row))
	}

	return materials, nil
}

func rowToMaterial(row generated.Material) *domain.Material {
	return &domain.Material{
		ID:             row.ID,
		Name:           row.Name,
		Specifications: row.Specifications,
		Brand:          row.Brand,
		Functions:      row.Functions,
		Remarks:        row.Remarks,
		OriginalPrice:  numericToDecimal(row.OriginalPrice),
		Price:          numericToDecimal(row.Price),
		DiscountPrice:  numericToDecimal(row.DiscountPrice),
		StockQuantity:  row.StockQuantity,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
