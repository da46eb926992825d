package stock

import (
	"context"
	"database/sql"
	"time"

	"go-erp/internal/shared/dbtx"
	"go-erp/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=stock_repo.go -destination=mock/stock_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateItem(ctx context.Context, item *Item) error
	ListItems(ctx context.Context, companyID string) ([]Item, error)
	FindItem(ctx context.Context, companyID string, id string) (*Item, error)

	CreateMovementType(ctx context.Context, mt *MovementType) error
	ListMovementTypes(ctx context.Context, companyID string) ([]MovementType, error)
	FindMovementType(ctx context.Context, companyID string, id string) (*MovementType, error)

	CreateMovement(ctx context.Context, m *Movement) error
	FindMovement(ctx context.Context, companyID string, id string) (*Movement, error)
	FindMovementForAdjust(ctx context.Context, id uuid.UUID) (*Movement, error)
	ListMovements(ctx context.Context, companyID string, filter MovementFilter) ([]Movement, error)
	UpdateMovementNotes(ctx context.Context, m *Movement) error

	LockOrCreateLineItem(ctx context.Context, companyID, itemID, branchID uuid.UUID) (*LineItem, bool, error)
	FindLineItem(ctx context.Context, companyID string, id string) (*LineItem, error)
	LockLineItem(ctx context.Context, companyID string, id string) (*LineItem, error)
	ListLineItems(ctx context.Context, companyID string, branchID string) ([]LineItem, error)
	SetQuantities(ctx context.Context, id uuid.UUID, current, reserved decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) CreateItem(ctx context.Context, item *Item) error {
	return r.conn(ctx).Create(item).Error
}

func (r *repository) ListItems(ctx context.Context, companyID string) ([]Item, error) {
	var items []Item
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("code ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindItem(ctx context.Context, companyID string, id string) (*Item, error) {
	var item Item
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&item).Error
	return &item, err
}

func (r *repository) CreateMovementType(ctx context.Context, mt *MovementType) error {
	return r.conn(ctx).Create(mt).Error
}

func (r *repository) ListMovementTypes(ctx context.Context, companyID string) ([]MovementType, error) {
	var types []MovementType
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindMovementType(ctx context.Context, companyID string, id string) (*MovementType, error) {
	var mt MovementType
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&mt).Error
	return &mt, err
}

func (r *repository) CreateMovement(ctx context.Context, m *Movement) error {
	return r.conn(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *repository) FindMovement(ctx context.Context, companyID string, id string) (*Movement, error) {
	var m Movement
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&m).Error
	return &m, err
}

// FindMovementForAdjust loads a movement with its item and type.
func (r *repository) FindMovementForAdjust(ctx context.Context, id uuid.UUID) (*Movement, error) {
	var m Movement
	err := r.conn(ctx).
		Preload("Item").
		Preload("MovementType").
		Where("id = ?", id).
		First(&m).Error
	return &m, err
}

func (r *repository) ListMovements(ctx context.Context, companyID string, filter MovementFilter) ([]Movement, error) {
	var ms []Movement
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	err := q.Order("created_at DESC").Find(&ms).Error
	return ms, err
}

func (r *repository) UpdateMovementNotes(ctx context.Context, m *Movement) error {
	res := r.conn(ctx).
		Model(&Movement{}).
		Where("id = ? AND company_id = ?", m.ID, m.CompanyID).
		Updates(map[string]any{
			"reference":  m.Reference,
			"notes":      m.Notes,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockOrCreateLineItem resolves the (item, branch) row, inserting it with
// zero quantities when missing, and locks it for the rest of the
// transaction. created reports whether this call inserted it.
func (r *repository) LockOrCreateLineItem(ctx context.Context, companyID, itemID, branchID uuid.UUID) (*LineItem, bool, error) {
	fresh := LineItem{
		ID:               uuid.New(),
		CompanyID:        companyID,
		ItemID:           itemID,
		BranchID:         branchID,
		CurrentQuantity:  decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
	res := r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "branch_id"}},
			DoNothing: true,
		}).
		Create(&fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}

	var li LineItem
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND branch_id = ?", itemID, branchID).
		First(&li).Error
	if err != nil {
		return nil, false, err
	}
	return &li, res.RowsAffected > 0, nil
}

func (r *repository) FindLineItem(ctx context.Context, companyID string, id string) (*LineItem, error) {
	var li LineItem
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Item").
		Where("id = ?", id).
		First(&li).Error
	return &li, err
}

func (r *repository) LockLineItem(ctx context.Context, companyID string, id string) (*LineItem, error) {
	var li LineItem
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&li).Error
	return &li, err
}

func (r *repository) ListLineItems(ctx context.Context, companyID string, branchID string) ([]LineItem, error) {
	var items []LineItem
	q := r.conn(ctx).Scopes(tenant.Scope(companyID)).Preload("Item")
	if branchID != "" {
		q = q.Where("branch_id = ?", branchID)
	}
	err := q.Order("updated_at DESC").Find(&items).Error
	return items, err
}

func (r *repository) SetQuantities(ctx context.Context, id uuid.UUID, current, reserved decimal.Decimal) error {
	return r.conn(ctx).
		Model(&LineItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_quantity":  current,
			"reserved_quantity": reserved,
			"updated_at":        time.Now().UTC(),
		}).Error
}
