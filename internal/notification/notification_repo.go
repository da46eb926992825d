package notification

import (
	"context"
	"time"

	"go-erp/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	// Create reports false when a notification for the same movement exists.
	Create(ctx context.Context, n *StockNotification) (bool, error)
	HasUnread(ctx context.Context, companyID, lineItemID uuid.UUID, kind string) (bool, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]StockNotification, error)
	FindByID(ctx context.Context, companyID, id string) (*StockNotification, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *StockNotification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "movement_id"}},
			DoNothing: true,
		}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) HasUnread(ctx context.Context, companyID, lineItemID uuid.UUID, kind string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StockNotification{}).
		Where("company_id = ? AND line_item_id = ? AND kind = ? AND read_at IS NULL", companyID, lineItemID, kind).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter) ([]StockNotification, error) {
	var out []StockNotification
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}
	err := q.Order("created_at DESC").Limit(200).Find(&out).Error
	return out, err
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*StockNotification, error) {
	var n StockNotification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&StockNotification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).Error
}
