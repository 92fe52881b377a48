package models

import "time"

// ShipmentUpdate is a partial update to a shipment. Nil fields are left
// untouched. Status transitions and delivery dates have dedicated lifecycle
// endpoints; they are accepted here for direct corrections.
type ShipmentUpdate struct {
	TrackingNumber    *string         `json:"trackingNumber" validate:"omitempty,min=1"`
	Origin            *string         `json:"origin" validate:"omitempty,min=1"`
	Destination       *string         `json:"destination" validate:"omitempty,min=1"`
	Status            *ShipmentStatus `json:"status" validate:"omitempty,oneof=pending in-transit delivered delayed cancelled"`
	Priority          *Priority       `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Weight            *float64        `json:"weight" validate:"omitempty,gt=0"`
	Customer          *Customer       `json:"customer"`
	Driver            *DriverRef      `json:"driver"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery"`
	Route             *Route          `json:"route"`
}

// VehicleUpdate is a partial update to a vehicle. Nil fields are left
// untouched.
type VehicleUpdate struct {
	Plate           *string        `json:"plate" validate:"omitempty,min=1"`
	Type            *VehicleType   `json:"type" validate:"omitempty,oneof=truck van trailer pickup"`
	Capacity        *float64       `json:"capacity" validate:"omitempty,gt=0"`
	Status          *VehicleStatus `json:"status" validate:"omitempty,oneof=available in-use maintenance offline"`
	LastMaintenance *time.Time     `json:"lastMaintenance"`
	NextMaintenance *time.Time     `json:"nextMaintenance"`
}

// DriverUpdate is a partial update to a driver. Nil fields are left
// untouched. Delivery counters are only changed through record-delivery.
type DriverUpdate struct {
	Name    *string       `json:"name" validate:"omitempty,min=1"`
	License *string       `json:"license" validate:"omitempty,min=1"`
	Phone   *string       `json:"phone" validate:"omitempty,min=1"`
	Email   *string       `json:"email" validate:"omitempty,email"`
	Status  *DriverStatus `json:"status" validate:"omitempty,oneof=available on-delivery off-duty suspended"`
	Rating  *float64      `json:"rating" validate:"omitempty,min=0,max=5"`
}
