package fleet

import (
	"time"

	"github.com/google/uuid"
)

type ChecklistKind string

const (
	KindPreTrip     ChecklistKind = "pre_trip"
	KindPostTrip    ChecklistKind = "post_trip"
	KindMaintenance ChecklistKind = "maintenance"
	KindInspection  ChecklistKind = "inspection"
	KindWeekly      ChecklistKind = "weekly"
	KindMonthly     ChecklistKind = "monthly"
)

type FinalStatus string

const (
	StatusApproved    FinalStatus = "approved"
	StatusConditional FinalStatus = "conditional"
	StatusRejected    FinalStatus = "rejected"
)

// VehicleChecklist is one inspection of a vehicle. Every item defaults to
// passed; FinalStatus is derived from the mandatory items on create.
type VehicleChecklist struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Code        string        `gorm:"type:varchar(20);not null"`
	VehicleID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Kind        ChecklistKind `gorm:"type:varchar(20);not null"`
	InspectorID *uuid.UUID    `gorm:"type:uuid"`
	Driver      string        `gorm:"type:varchar(200);not null"`
	InspectedAt time.Time     `gorm:"not null"`
	Location    string        `gorm:"type:varchar(200);not null"`
	Odometer    int64         `gorm:"not null;default:0"`

	BrakesWorking     bool `gorm:"not null;default:true"`
	BrakeFluidOK      bool `gorm:"column:brake_fluid_ok;not null;default:true"`
	BrakePadsOK       bool `gorm:"column:brake_pads_ok;not null;default:true"`
	SteeringWorking   bool `gorm:"not null;default:true"`
	SteeringFluidOK   bool `gorm:"column:steering_fluid_ok;not null;default:true"`
	BatteryOK         bool `gorm:"column:battery_ok;not null;default:true"`
	AlternatorOK      bool `gorm:"column:alternator_ok;not null;default:true"`
	HeadlightsWorking bool `gorm:"not null;default:true"`
	SignalLights      bool `gorm:"not null;default:true"`
	TyrePressureOK    bool `gorm:"column:tyre_pressure_ok;not null;default:true"`
	TyreWearOK        bool `gorm:"column:tyre_wear_ok;not null;default:true"`
	WheelsOK          bool `gorm:"column:wheels_ok;not null;default:true"`
	EngineWorking     bool `gorm:"not null;default:true"`
	EngineOilOK       bool `gorm:"column:engine_oil_ok;not null;default:true"`
	RadiatorWaterOK   bool `gorm:"column:radiator_water_ok;not null;default:true"`
	FuelOK            bool `gorm:"column:fuel_ok;not null;default:true"`
	DocumentsOK       bool `gorm:"column:documents_ok;not null;default:true"`
	InsuranceOK       bool `gorm:"column:insurance_ok;not null;default:true"`
	RegistrationOK    bool `gorm:"column:registration_ok;not null;default:true"`
	InteriorClean     bool `gorm:"not null;default:true"`
	ExteriorClean     bool `gorm:"not null;default:true"`
	ExtinguisherOK    bool `gorm:"column:extinguisher_ok;not null;default:true"`
	WarningTriangleOK bool `gorm:"column:warning_triangle_ok;not null;default:true"`
	JackOK            bool `gorm:"column:jack_ok;not null;default:true"`
	WheelWrenchOK     bool `gorm:"column:wheel_wrench_ok;not null;default:true"`

	FinalStatus     FinalStatus `gorm:"type:varchar(20);not null"`
	Notes           string      `gorm:"type:text"`
	Recommendations string      `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (VehicleChecklist) TableName() string {
	return "vehicle_checklists"
}
