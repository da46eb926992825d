package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-erp/internal/events"
	notificationerrors "go-erp/internal/notification/errors"
	"go-erp/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, companyID string, filter ListFilter) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, id string) (NotificationResponse, error)
	HandleStockLevel(ctx context.Context, event events.StockLevelChangedEvent) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) List(ctx context.Context, companyID string, filter ListFilter) ([]NotificationResponse, error) {
	rows, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		res[i] = mapToResponse(n)
	}
	return res, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
	}
	n, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}
	if n.Read() {
		return mapToResponse(*n), nil
	}

	at := s.now()
	if err := s.repo.MarkRead(ctx, n.ID, at); err != nil {
		return NotificationResponse{}, err
	}
	n.ReadAt = &at
	return mapToResponse(*n), nil
}

// HandleStockLevel raises a low_stock alert when a line item ends at or
// below its item's minimum. While an unread alert for the line item exists
// no new one is created.
func (s *service) HandleStockLevel(ctx context.Context, event events.StockLevelChangedEvent) error {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("request_id", event.RequestID),
		zap.String("line_item_id", event.LineItemID),
	)

	newQty, err := decimal.NewFromString(event.NewQuantity)
	if err != nil {
		return fmt.Errorf("%w: new_quantity %q", notificationerrors.ErrInvalidEvent, event.NewQuantity)
	}
	minStock := decimal.Zero
	if strings.TrimSpace(event.MinStock) != "" {
		if minStock, err = decimal.NewFromString(event.MinStock); err != nil {
			return fmt.Errorf("%w: min_stock %q", notificationerrors.ErrInvalidEvent, event.MinStock)
		}
	}
	if newQty.GreaterThan(minStock) {
		return nil
	}

	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return fmt.Errorf("%w: company_id %q", notificationerrors.ErrInvalidEvent, event.CompanyID)
	}
	lineItemID, err := uuid.Parse(event.LineItemID)
	if err != nil {
		return fmt.Errorf("%w: line_item_id %q", notificationerrors.ErrInvalidEvent, event.LineItemID)
	}

	open, err := s.repo.HasUnread(ctx, companyID, lineItemID, KindLowStock)
	if err != nil {
		return err
	}
	if open {
		log.Debug("low stock alert already open")
		return nil
	}

	n := StockNotification{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Kind:       KindLowStock,
		Title:      lowStockTitle(event),
		Message:    lowStockMessage(event, newQty, minStock),
		LineItemID: &lineItemID,
		CreatedAt:  s.now(),
	}
	if movementID, err := uuid.Parse(event.MovementID); err == nil {
		n.MovementID = &movementID
	}

	created, err := s.repo.Create(ctx, &n)
	if err != nil {
		return err
	}
	if created {
		log.Info("low stock alert created",
			zap.String("notification_id", n.ID.String()),
			zap.String("new_quantity", newQty.String()),
			zap.String("min_stock", minStock.String()),
		)
	}
	return nil
}

func lowStockTitle(event events.StockLevelChangedEvent) string {
	if event.ItemCode == "" {
		return "Low stock"
	}
	return "Low stock: " + event.ItemCode
}

func lowStockMessage(event events.StockLevelChangedEvent, qty, minStock decimal.Decimal) string {
	name := event.ItemName
	if name == "" {
		name = "Item " + event.ItemID
	}
	msg := fmt.Sprintf("%s is down to %s (minimum %s).", name, qty.String(), minStock.String())
	if event.Clamped {
		msg += " A movement requested more than was in stock; the quantity was set to zero."
	}
	return msg
}

func mapToResponse(n StockNotification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.LineItemID != nil {
		resp.LineItemID = n.LineItemID.String()
	}
	if n.ReadAt != nil {
		at := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &at
	}
	return resp
}
