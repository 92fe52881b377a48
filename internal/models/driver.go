package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverStatus represents the duty state of a driver.
type DriverStatus string

const (
	DriverAvailable  DriverStatus = "available"
	DriverOnDelivery DriverStatus = "on-delivery"
	DriverOffDuty    DriverStatus = "off-duty"
	DriverSuspended  DriverStatus = "suspended"
)

// IsValidDriverStatus reports whether s is a known driver status.
func IsValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverAvailable, DriverOnDelivery, DriverOffDuty, DriverSuspended:
		return true
	}
	return false
}

// Experience levels derived from the delivery count.
const (
	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvanced     = "Advanced"
	ExperienceExpert       = "Expert"
)

// Reliability grades derived from rating and on-time rate.
const (
	ReliabilityExcellent = "Excellent"
	ReliabilityGood      = "Good"
	ReliabilityFair      = "Fair"
	ReliabilityPoor      = "Needs improvement"
)

// Driver represents a driver document.
type Driver struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name" validate:"required"`
	License          string              `bson:"license" json:"license" validate:"required"`
	Phone            string              `bson:"phone" json:"phone" validate:"required"`
	Email            string              `bson:"email" json:"email" validate:"required,email"`
	Status           DriverStatus        `bson:"status" json:"status"`
	CurrentVehicle   *primitive.ObjectID `bson:"currentVehicle,omitempty" json:"currentVehicle,omitempty"`
	Rating           float64             `bson:"rating" json:"rating"`
	TotalDeliveries  int                 `bson:"totalDeliveries" json:"totalDeliveries"`
	OnTimeDeliveries int                 `bson:"onTimeDeliveries" json:"onTimeDeliveries"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ClampRating bounds a rating to the valid [0,5] range.
func ClampRating(v float64) float64 {
	return math.Max(0, math.Min(5, v))
}

// OnTimeDeliveryRate returns the on-time percentage, rounded. Zero when the
// driver has no deliveries.
func (d *Driver) OnTimeDeliveryRate() int {
	return onTimeRate(d.OnTimeDeliveries, d.TotalDeliveries)
}

// ExperienceLevel buckets the driver by total deliveries.
func (d *Driver) ExperienceLevel() string {
	switch {
	case d.TotalDeliveries >= 500:
		return ExperienceExpert
	case d.TotalDeliveries >= 200:
		return ExperienceAdvanced
	case d.TotalDeliveries >= 50:
		return ExperienceIntermediate
	default:
		return ExperienceBeginner
	}
}

// Reliability grades the driver from rating and on-time rate.
func (d *Driver) Reliability() string {
	rate := d.OnTimeDeliveryRate()
	switch {
	case d.Rating >= 4.5 && rate >= 90:
		return ReliabilityExcellent
	case d.Rating >= 4.0 && rate >= 80:
		return ReliabilityGood
	case d.Rating >= 3.5 && rate >= 70:
		return ReliabilityFair
	default:
		return ReliabilityPoor
	}
}

// ContactInfo formats the driver contact line for display.
func (d *Driver) ContactInfo() string {
	return fmt.Sprintf("%s - %s (%s)", d.Name, d.Phone, d.Email)
}

// DriverView is a driver plus its computed fields, as returned by the API.
type DriverView struct {
	Driver
	OnTimeDeliveryRate int    `json:"onTimeDeliveryRate"`
	ExperienceLevel    string `json:"experienceLevel"`
	Reliability        string `json:"reliability"`
}

// NewDriverView computes the derived fields for a driver.
func NewDriverView(d Driver) DriverView {
	return DriverView{
		Driver:             d,
		OnTimeDeliveryRate: d.OnTimeDeliveryRate(),
		ExperienceLevel:    d.ExperienceLevel(),
		Reliability:        d.Reliability(),
	}
}

// NewDriverViews maps a result page to views.
func NewDriverViews(drivers []Driver) []DriverView {
	views := make([]DriverView, 0, len(drivers))
	for _, d := range drivers {
		views = append(views, NewDriverView(d))
	}
	return views
}

func onTimeRate(onTime, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(onTime) / float64(total) * 100))
}
