package fleet

import "math"

// ChecklistField names one boolean inspection item. The string form is the
// column and JSON name.
type ChecklistField string

const (
	FieldBrakesWorking     ChecklistField = "brakes_working"
	FieldBrakeFluidOK      ChecklistField = "brake_fluid_ok"
	FieldBrakePadsOK       ChecklistField = "brake_pads_ok"
	FieldSteeringWorking   ChecklistField = "steering_working"
	FieldSteeringFluidOK   ChecklistField = "steering_fluid_ok"
	FieldBatteryOK         ChecklistField = "battery_ok"
	FieldAlternatorOK      ChecklistField = "alternator_ok"
	FieldHeadlightsWorking ChecklistField = "headlights_working"
	FieldSignalLights      ChecklistField = "signal_lights"
	FieldTyrePressureOK    ChecklistField = "tyre_pressure_ok"
	FieldTyreWearOK        ChecklistField = "tyre_wear_ok"
	FieldWheelsOK          ChecklistField = "wheels_ok"
	FieldEngineWorking     ChecklistField = "engine_working"
	FieldEngineOilOK       ChecklistField = "engine_oil_ok"
	FieldRadiatorWaterOK   ChecklistField = "radiator_water_ok"
	FieldFuelOK            ChecklistField = "fuel_ok"
	FieldDocumentsOK       ChecklistField = "documents_ok"
	FieldInsuranceOK       ChecklistField = "insurance_ok"
	FieldRegistrationOK    ChecklistField = "registration_ok"
	FieldInteriorClean     ChecklistField = "interior_clean"
	FieldExteriorClean     ChecklistField = "exterior_clean"
	FieldExtinguisherOK    ChecklistField = "extinguisher_ok"
	FieldWarningTriangleOK ChecklistField = "warning_triangle_ok"
	FieldJackOK            ChecklistField = "jack_ok"
	FieldWheelWrenchOK     ChecklistField = "wheel_wrench_ok"
)

type fieldDef struct {
	field  ChecklistField
	label  string
	group  string
	access func(c *VehicleChecklist) *bool
}

var fieldDefs = []fieldDef{
	{FieldBrakesWorking, "Brakes working", "Brakes", func(c *VehicleChecklist) *bool { return &c.BrakesWorking }},
	{FieldBrakeFluidOK, "Brake fluid level", "Brakes", func(c *VehicleChecklist) *bool { return &c.BrakeFluidOK }},
	{FieldBrakePadsOK, "Brake pads", "Brakes", func(c *VehicleChecklist) *bool { return &c.BrakePadsOK }},
	{FieldSteeringWorking, "Steering working", "Steering", func(c *VehicleChecklist) *bool { return &c.SteeringWorking }},
	{FieldSteeringFluidOK, "Steering fluid level", "Steering", func(c *VehicleChecklist) *bool { return &c.SteeringFluidOK }},
	{FieldBatteryOK, "Battery", "Electrical", func(c *VehicleChecklist) *bool { return &c.BatteryOK }},
	{FieldAlternatorOK, "Alternator", "Electrical", func(c *VehicleChecklist) *bool { return &c.AlternatorOK }},
	{FieldHeadlightsWorking, "Headlights", "Electrical", func(c *VehicleChecklist) *bool { return &c.HeadlightsWorking }},
	{FieldSignalLights, "Signal lights", "Electrical", func(c *VehicleChecklist) *bool { return &c.SignalLights }},
	{FieldTyrePressureOK, "Tyre pressure", "Tyres and wheels", func(c *VehicleChecklist) *bool { return &c.TyrePressureOK }},
	{FieldTyreWearOK, "Tyre wear", "Tyres and wheels", func(c *VehicleChecklist) *bool { return &c.TyreWearOK }},
	{FieldWheelsOK, "Wheels", "Tyres and wheels", func(c *VehicleChecklist) *bool { return &c.WheelsOK }},
	{FieldEngineWorking, "Engine working", "Engine and fluids", func(c *VehicleChecklist) *bool { return &c.EngineWorking }},
	{FieldEngineOilOK, "Engine oil level", "Engine and fluids", func(c *VehicleChecklist) *bool { return &c.EngineOilOK }},
	{FieldRadiatorWaterOK, "Radiator water level", "Engine and fluids", func(c *VehicleChecklist) *bool { return &c.RadiatorWaterOK }},
	{FieldFuelOK, "Fuel", "Engine and fluids", func(c *VehicleChecklist) *bool { return &c.FuelOK }},
	{FieldDocumentsOK, "Vehicle documents", "Documents", func(c *VehicleChecklist) *bool { return &c.DocumentsOK }},
	{FieldInsuranceOK, "Insurance", "Documents", func(c *VehicleChecklist) *bool { return &c.InsuranceOK }},
	{FieldRegistrationOK, "Registration", "Documents", func(c *VehicleChecklist) *bool { return &c.RegistrationOK }},
	{FieldInteriorClean, "Interior clean", "Cleanliness", func(c *VehicleChecklist) *bool { return &c.InteriorClean }},
	{FieldExteriorClean, "Exterior clean", "Cleanliness", func(c *VehicleChecklist) *bool { return &c.ExteriorClean }},
	{FieldExtinguisherOK, "Fire extinguisher", "Safety kit", func(c *VehicleChecklist) *bool { return &c.ExtinguisherOK }},
	{FieldWarningTriangleOK, "Warning triangle", "Safety kit", func(c *VehicleChecklist) *bool { return &c.WarningTriangleOK }},
	{FieldJackOK, "Jack", "Safety kit", func(c *VehicleChecklist) *bool { return &c.JackOK }},
	{FieldWheelWrenchOK, "Wheel wrench", "Safety kit", func(c *VehicleChecklist) *bool { return &c.WheelWrenchOK }},
}

// mandatoryFields decide FinalStatus.
var mandatoryFields = []ChecklistField{
	FieldBrakesWorking, FieldBrakeFluidOK, FieldSteeringWorking,
	FieldBatteryOK, FieldEngineWorking, FieldEngineOilOK,
	FieldTyrePressureOK, FieldTyreWearOK, FieldDocumentsOK,
	FieldExtinguisherOK, FieldWarningTriangleOK,
}

// conditionalLimit is the most mandatory failures still approved with
// conditions.
const conditionalLimit = 2

var defByField = func() map[ChecklistField]fieldDef {
	m := make(map[ChecklistField]fieldDef, len(fieldDefs))
	for _, s := range fieldDefs {
		m[s.field] = s
	}
	return m
}()

// Fields returns every checklist field in display order.
func Fields() []ChecklistField {
	out := make([]ChecklistField, len(fieldDefs))
	for i, s := range fieldDefs {
		out[i] = s.field
	}
	return out
}

func MandatoryFields() []ChecklistField {
	return append([]ChecklistField(nil), mandatoryFields...)
}

func ParseField(name string) (ChecklistField, bool) {
	_, ok := defByField[ChecklistField(name)]
	return ChecklistField(name), ok
}

func (f ChecklistField) Label() string {
	if s, ok := defByField[f]; ok {
		return s.label
	}
	return string(f)
}

func (f ChecklistField) Group() string {
	return defByField[f].group
}

// Value reports the item and whether field is known.
func (c *VehicleChecklist) Value(field ChecklistField) (bool, bool) {
	s, ok := defByField[field]
	if !ok || c == nil {
		return false, false
	}
	return *s.access(c), true
}

// Set reports false for an unknown field.
func (c *VehicleChecklist) Set(field ChecklistField, v bool) bool {
	s, ok := defByField[field]
	if !ok || c == nil {
		return false
	}
	*s.access(c) = v
	return true
}

// Lookup lets templates read items by name.
func (c *VehicleChecklist) Lookup(name string) (bool, bool) {
	return c.Value(ChecklistField(name))
}

// ResetItems marks every item as passed.
func (c *VehicleChecklist) ResetItems() {
	for _, s := range fieldDefs {
		*s.access(c) = true
	}
}

func (c *VehicleChecklist) PassedCount() int {
	n := 0
	for _, s := range fieldDefs {
		if *s.access(c) {
			n++
		}
	}
	return n
}

// Score is the passed share of all items, 0-100 rounded to one decimal.
func (c *VehicleChecklist) Score() float64 {
	pct := float64(c.PassedCount()) / float64(len(fieldDefs)) * 100
	return math.Round(pct*10) / 10
}

func (c *VehicleChecklist) FailedMandatory() []ChecklistField {
	var failed []ChecklistField
	for _, f := range mandatoryFields {
		if v, _ := c.Value(f); !v {
			failed = append(failed, f)
		}
	}
	return failed
}

func (c *VehicleChecklist) DeriveFinalStatus() FinalStatus {
	switch n := len(c.FailedMandatory()); {
	case n == 0:
		return StatusApproved
	case n <= conditionalLimit:
		return StatusConditional
	default:
		return StatusRejected
	}
}
