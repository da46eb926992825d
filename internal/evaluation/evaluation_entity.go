package evaluation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Kind string

const (
	KindAnnual     Kind = "annual"
	KindSemiannual Kind = "semiannual"
	KindQuarterly  Kind = "quarterly"
	KindMonthly    Kind = "monthly"
	KindPeriodic   Kind = "periodic"
	KindSpecial    Kind = "special"
)

type Rating string

const (
	RatingNone           Rating = ""
	RatingExcellent      Rating = "excellent"
	RatingVeryGood       Rating = "very_good"
	RatingGood           Rating = "good"
	RatingSatisfactory   Rating = "satisfactory"
	RatingFair           Rating = "fair"
	RatingUnsatisfactory Rating = "unsatisfactory"
)

type Evaluation struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	EvaluatorID  uuid.UUID           `gorm:"type:uuid;not null"`
	Kind         Kind                `gorm:"type:varchar(20);not null;default:annual"`
	Status       Status              `gorm:"type:varchar(20);not null;default:pending"`
	PeriodStart  time.Time           `gorm:"type:date;not null"`
	PeriodEnd    time.Time           `gorm:"type:date;not null"`
	EvaluatedOn  *time.Time          `gorm:"type:date"`
	OverallScore decimal.NullDecimal `gorm:"type:numeric(5,2)"`
	Rating       Rating              `gorm:"type:varchar(20);not null;default:''"`
	Notes        string              `gorm:"type:text"`
	Criteria     []Criterion         `gorm:"foreignKey:EvaluationID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// Criterion is one scored line of an evaluation. A criterion without a
// score has not been assessed yet.
type Criterion struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	EvaluationID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name         string              `gorm:"type:varchar(200);not null"`
	Weight       decimal.Decimal     `gorm:"type:numeric(5,2);not null;default:1"`
	Score        decimal.NullDecimal `gorm:"type:numeric(5,2)"`
	Notes        string              `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Criterion) TableName() string {
	return "evaluation_criteria"
}

func (c Criterion) Scored() bool {
	return c.Score.Valid
}
