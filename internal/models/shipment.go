package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShipmentStatus represents the delivery state of a shipment.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentInTransit ShipmentStatus = "in-transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentDelayed   ShipmentStatus = "delayed"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

// IsValidShipmentStatus checks if a shipment status is one of the known values.
func IsValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case ShipmentPending, ShipmentInTransit, ShipmentDelivered, ShipmentDelayed, ShipmentCancelled:
		return true
	default:
		return false
	}
}

// Priority represents the urgency of a shipment.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Customer is the contact embedded in a shipment.
type Customer struct {
	Name  string `bson:"name" json:"name" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required,email"`
	Phone string `bson:"phone" json:"phone" validate:"required"`
}

// DriverRef is a denormalized snapshot of the assigned driver. It is copied
// at assignment time and is not kept in sync with the drivers collection.
type DriverRef struct {
	ID      *primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
	Name    string              `bson:"name,omitempty" json:"name,omitempty"`
	Phone   string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Vehicle string              `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
}

// Route holds the planned route of a shipment.
type Route struct {
	Distance      float64 `bson:"distance" json:"distance" validate:"required,gt=0"`
	EstimatedTime float64 `bson:"estimatedTime" json:"estimatedTime" validate:"required,gt=0"`
}

// Shipment represents a tracked shipment document.
type Shipment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingNumber    string             `bson:"trackingNumber" json:"trackingNumber" validate:"required"`
	Origin            string             `bson:"origin" json:"origin" validate:"required"`
	Destination       string             `bson:"destination" json:"destination" validate:"required"`
	Status            ShipmentStatus     `bson:"status" json:"status"`
	Priority          Priority           `bson:"priority" json:"priority"`
	Weight            float64            `bson:"weight" json:"weight" validate:"required,gt=0"`
	Customer          Customer           `bson:"customer" json:"customer"`
	Driver            *DriverRef         `bson:"driver,omitempty" json:"driver,omitempty"`
	EstimatedDelivery time.Time          `bson:"estimatedDelivery" json:"estimatedDelivery" validate:"required"`
	ActualDelivery    *time.Time         `bson:"actualDelivery,omitempty" json:"actualDelivery,omitempty"`
	Route             Route              `bson:"route" json:"route"`
	Notes             []string           `bson:"notes" json:"notes"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DaysDelayed returns how many days past the estimate a delayed shipment is.
// Zero unless the shipment status is delayed.
func (s *Shipment) DaysDelayed(now time.Time) int {
	if s.Status != ShipmentDelayed {
		return 0
	}
	return ceilDays(now.Sub(s.EstimatedDelivery))
}

// TimeRemaining returns the milliseconds until the estimated delivery for an
// in-transit shipment, floored at zero. The second return is false for any
// other status.
func (s *Shipment) TimeRemaining(now time.Time) (int64, bool) {
	if s.Status != ShipmentInTransit {
		return 0, false
	}
	ms := s.EstimatedDelivery.Sub(now).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return ms, true
}

// IsOnTime reports whether the shipment was delivered on or before the
// estimated date. False if it has not been delivered.
func (s *Shipment) IsOnTime() bool {
	if s.ActualDelivery == nil {
		return false
	}
	return !s.ActualDelivery.After(s.EstimatedDelivery)
}

// DeliveryTime returns the milliseconds between creation and actual delivery.
// The second return is false if the shipment has not been delivered.
func (s *Shipment) DeliveryTime() (int64, bool) {
	if s.ActualDelivery == nil {
		return 0, false
	}
	return s.ActualDelivery.Sub(s.CreatedAt).Milliseconds(), true
}

// ShipmentView is a shipment plus its computed fields, as returned by the API.
type ShipmentView struct {
	Shipment
	DaysDelayed   int    `json:"daysDelayed"`
	TimeRemaining *int64 `json:"timeRemaining,omitempty"`
}

// NewShipmentView computes the derived fields for a shipment at a given time.
func NewShipmentView(s Shipment, now time.Time) ShipmentView {
	view := ShipmentView{
		Shipment:    s,
		DaysDelayed: s.DaysDelayed(now),
	}
	if ms, ok := s.TimeRemaining(now); ok {
		view.TimeRemaining = &ms
	}
	return view
}

// NewShipmentViews maps a result page to views.
func NewShipmentViews(shipments []Shipment, now time.Time) []ShipmentView {
	views := make([]ShipmentView, 0, len(shipments))
	for _, s := range shipments {
		views = append(views, NewShipmentView(s, now))
	}
	return views
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
