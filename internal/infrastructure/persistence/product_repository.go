package persistence

import (
	"bytes"
	"context"
	"slices"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by id
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Product", id)
	}
	return m.ToDomain(), nil
}

// FindByIDs returns the products that exist among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return r.find(r.db.WithContext(ctx), ids)
}

// FindByIDsForUpdate locks the products in ascending id order so that two
// transactions touching overlapping products cannot deadlock
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), ids)
}

func (r *GormProductRepository) find(db *gorm.DB, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	sorted = slices.Compact(sorted)

	var rows []models.ProductModel
	if err := db.Where("id IN ?", sorted).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByCode reports whether a product code is taken
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, shared.AsStorageError(err)
}

// Save inserts a new product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.ProductModelFromDomain(p)).Error)
}

// SaveWithLock updates the product if its version is unchanged
func (r *GormProductRepository) SaveWithLock(ctx context.Context, p *catalog.Product) error {
	m := models.ProductModelFromDomain(p)
	m.Version = p.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, p.Version); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// GormStockMovementRepository implements catalog.StockMovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a stock ledger repository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes ledger rows; rows are never updated afterwards
func (r *GormStockMovementRepository) Append(ctx context.Context, movements ...*catalog.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	rows := make([]*models.StockMovementModel, len(movements))
	for i, mv := range movements {
		rows[i] = models.StockMovementModelFromDomain(mv)
	}
	return shared.AsStorageError(r.db.WithContext(ctx).Create(rows).Error)
}

// ListByProduct returns a product's movements, newest first
func (r *GormStockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]catalog.StockMovement, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.list(q)
}

// ListBySource returns the movements one document caused
func (r *GormStockMovementRepository) ListBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]catalog.StockMovement, error) {
	q := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC")
	return r.list(q)
}

func (r *GormStockMovementRepository) list(q *gorm.DB) ([]catalog.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]catalog.StockMovement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ catalog.ProductRepository       = (*GormProductRepository)(nil)
	_ catalog.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
