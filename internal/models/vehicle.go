package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleType represents the kind of vehicle.
type VehicleType string

const (
	VehicleTruck   VehicleType = "truck"
	VehicleVan     VehicleType = "van"
	VehicleTrailer VehicleType = "trailer"
	VehiclePickup  VehicleType = "pickup"
)

// VehicleStatus represents the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleInUse       VehicleStatus = "in-use"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleOffline     VehicleStatus = "offline"
)

// IsValidVehicleType reports whether t is a known vehicle type.
func IsValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTruck, VehicleVan, VehicleTrailer, VehiclePickup:
		return true
	}
	return false
}

// MaintenanceSoonDays is the window within which a vehicle is flagged as
// needing maintenance.
const MaintenanceSoonDays = 30

// MaintenanceInterval is how far out the next service is scheduled after a
// completed maintenance.
const MaintenanceInterval = 6 // months

// Vehicle represents a fleet vehicle document.
type Vehicle struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Plate           string              `bson:"plate" json:"plate" validate:"required"`
	Type            VehicleType         `bson:"type" json:"type" validate:"required,oneof=truck van trailer pickup"`
	Capacity        float64             `bson:"capacity" json:"capacity" validate:"required,gt=0"` // kg
	Status          VehicleStatus       `bson:"status" json:"status"`
	Driver          *primitive.ObjectID `bson:"driver,omitempty" json:"driver,omitempty"`
	LastMaintenance time.Time           `bson:"lastMaintenance" json:"lastMaintenance" validate:"required"`
	NextMaintenance time.Time           `bson:"nextMaintenance" json:"nextMaintenance" validate:"required"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DaysUntilMaintenance returns the days until the next scheduled maintenance,
// rounded up. Negative when the date has passed.
func (v *Vehicle) DaysUntilMaintenance(now time.Time) int {
	return ceilDays(v.NextMaintenance.Sub(now))
}

// NeedsMaintenanceSoon reports whether the next maintenance falls within the
// soon window.
func (v *Vehicle) NeedsMaintenanceSoon(now time.Time) bool {
	return v.DaysUntilMaintenance(now) <= MaintenanceSoonDays
}

// DaysSinceLastMaintenance returns the days elapsed since the last service,
// rounded up.
func (v *Vehicle) DaysSinceLastMaintenance(now time.Time) int {
	return ceilDays(now.Sub(v.LastMaintenance))
}

// CapacityInfo formats the capacity in tons for display.
func (v *Vehicle) CapacityInfo() string {
	return fmt.Sprintf("%.1f t", v.Capacity/1000)
}

// VehicleView is a vehicle plus its computed fields, as returned by the API.
type VehicleView struct {
	Vehicle
	DaysUntilMaintenance int    `json:"daysUntilMaintenance"`
	NeedsMaintenanceSoon bool   `json:"needsMaintenanceSoon"`
	CapacityInfo         string `json:"capacityInfo"`
}

// NewVehicleView computes the derived fields for a vehicle at a given time.
func NewVehicleView(v Vehicle, now time.Time) VehicleView {
	return VehicleView{
		Vehicle:              v,
		DaysUntilMaintenance: v.DaysUntilMaintenance(now),
		NeedsMaintenanceSoon: v.NeedsMaintenanceSoon(now),
		CapacityInfo:         v.CapacityInfo(),
	}
}

// NewVehicleViews maps a result page to views.
func NewVehicleViews(vehicles []Vehicle, now time.Time) []VehicleView {
	views := make([]VehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		views = append(views, NewVehicleView(v, now))
	}
	return views
}
