package evaluation_test

import (
	"context"
	"database/sql"
	"errors"

	"go-erp/internal/evaluation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryRepository is an in-memory evaluation store shared by the service
// and reaction tests.
type memoryRepository struct {
	evaluations map[uuid.UUID]*evaluation.Evaluation
	criteria    []*evaluation.Criterion
	employees   map[string]bool
	updateErr   error
	derivedRuns int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		evaluations: map[uuid.UUID]*evaluation.Evaluation{},
		employees:   map[string]bool{},
	}
}

func (m *memoryRepository) WithTx(tx *sql.Tx) evaluation.Repository { return m }

func (m *memoryRepository) Create(ctx context.Context, ev *evaluation.Evaluation) error {
	cp := *ev
	cp.Criteria = nil
	m.evaluations[ev.ID] = &cp
	for i := range ev.Criteria {
		c := ev.Criteria[i]
		m.criteria = append(m.criteria, &c)
	}
	return nil
}

func (m *memoryRepository) withCriteria(ev *evaluation.Evaluation) *evaluation.Evaluation {
	cp := *ev
	cp.Criteria = nil
	for _, c := range m.criteria {
		if c.EvaluationID == ev.ID {
			cp.Criteria = append(cp.Criteria, *c)
		}
	}
	return &cp
}

func (m *memoryRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*evaluation.Evaluation, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	ev, ok := m.evaluations[parsed]
	if !ok || ev.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withCriteria(ev), nil
}

func (m *memoryRepository) FindWithCriteria(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	ev, ok := m.evaluations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withCriteria(ev), nil
}

func (m *memoryRepository) List(ctx context.Context, companyID string, filter evaluation.ListFilter) ([]evaluation.Evaluation, error) {
	var out []evaluation.Evaluation
	for _, ev := range m.evaluations {
		if ev.CompanyID.String() != companyID {
			continue
		}
		if filter.Status != "" && string(ev.Status) != filter.Status {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (m *memoryRepository) ListIDs(ctx context.Context, companyID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, ev := range m.evaluations {
		if ev.Status == evaluation.StatusCancelled {
			continue
		}
		if companyID != "" && ev.CompanyID.String() != companyID {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryRepository) Update(ctx context.Context, ev *evaluation.Evaluation) error {
	stored, ok := m.evaluations[ev.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Kind = ev.Kind
	stored.PeriodStart = ev.PeriodStart
	stored.PeriodEnd = ev.PeriodEnd
	stored.Notes = ev.Notes
	return nil
}

func (m *memoryRepository) UpdateDerived(ctx context.Context, ev *evaluation.Evaluation) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.evaluations[ev.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.derivedRuns++
	stored.Status = ev.Status
	stored.OverallScore = ev.OverallScore
	stored.Rating = ev.Rating
	stored.EvaluatedOn = ev.EvaluatedOn
	return nil
}

func (m *memoryRepository) SetStatus(ctx context.Context, id uuid.UUID, status evaluation.Status) error {
	stored, ok := m.evaluations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func (m *memoryRepository) CreateCriterion(ctx context.Context, c *evaluation.Criterion) error {
	for _, existing := range m.criteria {
		if existing.EvaluationID == c.EvaluationID && existing.Name == c.Name {
			return errors.New("duplicate criterion")
		}
	}
	cp := *c
	m.criteria = append(m.criteria, &cp)
	return nil
}

func (m *memoryRepository) FindCriterion(ctx context.Context, evaluationID uuid.UUID, criterionID string) (*evaluation.Criterion, error) {
	for _, c := range m.criteria {
		if c.EvaluationID == evaluationID && c.ID.String() == criterionID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) FindCriterionByID(ctx context.Context, id uuid.UUID) (*evaluation.Criterion, error) {
	for _, c := range m.criteria {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) UpdateCriterion(ctx context.Context, c *evaluation.Criterion) error {
	for _, stored := range m.criteria {
		if stored.ID == c.ID {
			stored.Score = c.Score
			stored.Notes = c.Notes
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryRepository) EmployeeExists(ctx context.Context, companyID string, employeeID string) (bool, error) {
	return m.employees[companyID+"/"+employeeID], nil
}

func (m *memoryRepository) addEmployee(companyID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.employees[companyID.String()+"/"+id.String()] = true
	return id
}
