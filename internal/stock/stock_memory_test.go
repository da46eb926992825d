package stock_test

import (
	"context"
	"database/sql"
	"errors"

	"go-erp/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type lineKey struct {
	item   uuid.UUID
	branch uuid.UUID
}

// memoryRepository keeps stock state in maps so the reaction and the
// service can be exercised without postgres.
type memoryRepository struct {
	items     map[uuid.UUID]*stock.Item
	types     map[uuid.UUID]*stock.MovementType
	movements map[uuid.UUID]*stock.Movement
	lines     map[lineKey]*stock.LineItem
	setErr    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		items:     map[uuid.UUID]*stock.Item{},
		types:     map[uuid.UUID]*stock.MovementType{},
		movements: map[uuid.UUID]*stock.Movement{},
		lines:     map[lineKey]*stock.LineItem{},
	}
}

func (m *memoryRepository) WithTx(tx *sql.Tx) stock.Repository { return m }

func (m *memoryRepository) addItem(companyID uuid.UUID, code string, min string) *stock.Item {
	item := &stock.Item{
		ID:        uuid.New(),
		CompanyID: companyID,
		Code:      code,
		Name:      code + " name",
		Kind:      stock.KindProduct,
		Unit:      "unit",
		MinStock:  decimal.RequireFromString(min),
		Active:    true,
	}
	m.items[item.ID] = item
	return item
}

func (m *memoryRepository) addType(companyID uuid.UUID, increases bool) *stock.MovementType {
	mt := &stock.MovementType{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Code:           "T",
		Name:           "type",
		IncreasesStock: increases,
		Active:         true,
	}
	m.types[mt.ID] = mt
	return mt
}

func (m *memoryRepository) addLine(companyID, itemID, branchID uuid.UUID, current, reserved string) *stock.LineItem {
	li := &stock.LineItem{
		ID:               uuid.New(),
		CompanyID:        companyID,
		ItemID:           itemID,
		BranchID:         branchID,
		CurrentQuantity:  decimal.RequireFromString(current),
		ReservedQuantity: decimal.RequireFromString(reserved),
	}
	m.lines[lineKey{itemID, branchID}] = li
	return li
}

func (m *memoryRepository) addMovement(item *stock.Item, mt *stock.MovementType, branchID uuid.UUID, qty string) *stock.Movement {
	mv := &stock.Movement{
		ID:             uuid.New(),
		CompanyID:      item.CompanyID,
		Code:           "MOV-000001",
		ItemID:         item.ID,
		BranchID:       branchID,
		MovementTypeID: mt.ID,
		Quantity:       decimal.RequireFromString(qty),
		UnitPrice:      decimal.NewFromInt(1),
	}
	m.movements[mv.ID] = mv
	return mv
}

func (m *memoryRepository) line(itemID, branchID uuid.UUID) *stock.LineItem {
	return m.lines[lineKey{itemID, branchID}]
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return parsed, nil
}

func (m *memoryRepository) CreateItem(ctx context.Context, item *stock.Item) error {
	for _, existing := range m.items {
		if existing.CompanyID == item.CompanyID && existing.Code == item.Code {
			return errors.New("duplicate")
		}
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memoryRepository) ListItems(ctx context.Context, companyID string) ([]stock.Item, error) {
	var out []stock.Item
	for _, item := range m.items {
		if item.CompanyID.String() == companyID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *memoryRepository) FindItem(ctx context.Context, companyID string, id string) (*stock.Item, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[parsed]
	if !ok || item.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memoryRepository) CreateMovementType(ctx context.Context, mt *stock.MovementType) error {
	cp := *mt
	m.types[mt.ID] = &cp
	return nil
}

func (m *memoryRepository) ListMovementTypes(ctx context.Context, companyID string) ([]stock.MovementType, error) {
	var out []stock.MovementType
	for _, mt := range m.types {
		if mt.CompanyID.String() == companyID {
			out = append(out, *mt)
		}
	}
	return out, nil
}

func (m *memoryRepository) FindMovementType(ctx context.Context, companyID string, id string) (*stock.MovementType, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	mt, ok := m.types[parsed]
	if !ok || mt.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *mt
	return &cp, nil
}

func (m *memoryRepository) CreateMovement(ctx context.Context, mv *stock.Movement) error {
	cp := *mv
	m.movements[mv.ID] = &cp
	return nil
}

func (m *memoryRepository) FindMovement(ctx context.Context, companyID string, id string) (*stock.Movement, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	mv, ok := m.movements[parsed]
	if !ok || mv.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *mv
	return &cp, nil
}

func (m *memoryRepository) FindMovementForAdjust(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	mv, ok := m.movements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *mv
	cp.Item = m.items[mv.ItemID]
	cp.MovementType = m.types[mv.MovementTypeID]
	return &cp, nil
}

func (m *memoryRepository) ListMovements(ctx context.Context, companyID string, filter stock.MovementFilter) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, mv := range m.movements {
		if mv.CompanyID.String() != companyID {
			continue
		}
		if filter.ItemID != "" && mv.ItemID.String() != filter.ItemID {
			continue
		}
		if filter.BranchID != "" && mv.BranchID.String() != filter.BranchID {
			continue
		}
		out = append(out, *mv)
	}
	return out, nil
}

func (m *memoryRepository) UpdateMovementNotes(ctx context.Context, mv *stock.Movement) error {
	stored, ok := m.movements[mv.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Reference = mv.Reference
	stored.Notes = mv.Notes
	return nil
}

func (m *memoryRepository) LockOrCreateLineItem(ctx context.Context, companyID, itemID, branchID uuid.UUID) (*stock.LineItem, bool, error) {
	if li, ok := m.lines[lineKey{itemID, branchID}]; ok {
		cp := *li
		return &cp, false, nil
	}
	li := m.addLine(companyID, itemID, branchID, "0", "0")
	cp := *li
	return &cp, true, nil
}

func (m *memoryRepository) findLine(companyID, id string) (*stock.LineItem, error) {
	for _, li := range m.lines {
		if li.ID.String() == id && li.CompanyID.String() == companyID {
			cp := *li
			cp.Item = m.items[li.ItemID]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) FindLineItem(ctx context.Context, companyID string, id string) (*stock.LineItem, error) {
	return m.findLine(companyID, id)
}

func (m *memoryRepository) LockLineItem(ctx context.Context, companyID string, id string) (*stock.LineItem, error) {
	return m.findLine(companyID, id)
}

func (m *memoryRepository) ListLineItems(ctx context.Context, companyID string, branchID string) ([]stock.LineItem, error) {
	var out []stock.LineItem
	for _, li := range m.lines {
		if li.CompanyID.String() != companyID {
			continue
		}
		if branchID != "" && li.BranchID.String() != branchID {
			continue
		}
		cp := *li
		cp.Item = m.items[li.ItemID]
		out = append(out, cp)
	}
	return out, nil
}

func (m *memoryRepository) SetQuantities(ctx context.Context, id uuid.UUID, current, reserved decimal.Decimal) error {
	if m.setErr != nil {
		return m.setErr
	}
	for _, li := range m.lines {
		if li.ID == id {
			li.CurrentQuantity = current
			li.ReservedQuantity = reserved
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
