package models

import "math"

// ShipmentStats holds per-status counts over the shipments collection.
type ShipmentStats struct {
	TotalShipments int `bson:"totalShipments" json:"totalShipments"`
	InTransit      int `bson:"inTransit" json:"inTransit"`
	Delivered      int `bson:"delivered" json:"delivered"`
	Pending        int `bson:"pending" json:"pending"`
	Delayed        int `bson:"delayed" json:"delayed"`
	Cancelled      int `bson:"cancelled" json:"cancelled"`
}

// VehicleStats holds per-status counts over the vehicles collection.
type VehicleStats struct {
	TotalVehicles int `bson:"totalVehicles" json:"totalVehicles"`
	Available     int `bson:"available" json:"available"`
	InUse         int `bson:"inUse" json:"inUse"`
	Maintenance   int `bson:"maintenance" json:"maintenance"`
	Offline       int `bson:"offline" json:"offline"`
}

// DriverStats holds per-status counts plus fleet-wide delivery aggregates.
// OnTimeDeliveryRate is computed from the summed counters at read time, not
// stored per document.
type DriverStats struct {
	TotalDrivers       int     `bson:"totalDrivers" json:"totalDrivers"`
	Available          int     `bson:"available" json:"available"`
	OnDelivery         int     `bson:"onDelivery" json:"onDelivery"`
	OffDuty            int     `bson:"offDuty" json:"offDuty"`
	Suspended          int     `bson:"suspended" json:"suspended"`
	AvgRating          float64 `bson:"avgRating" json:"avgRating"`
	TotalDeliveries    int     `bson:"totalDeliveries" json:"totalDeliveries"`
	OnTimeDeliveries   int     `bson:"onTimeDeliveries" json:"onTimeDeliveries"`
	OnTimeDeliveryRate int     `bson:"-" json:"onTimeDeliveryRate"`
}

// ComputeRate fills OnTimeDeliveryRate from the summed counters.
func (s *DriverStats) ComputeRate() {
	s.OnTimeDeliveryRate = onTimeRate(s.OnTimeDeliveries, s.TotalDeliveries)
}

// DashboardStats is the merged snapshot of the three per-entity aggregates.
type DashboardStats struct {
	TotalShipments int `json:"totalShipments"`
	InTransit      int `json:"inTransit"`
	Delivered      int `json:"delivered"`
	Pending        int `json:"pending"`
	Delayed        int `json:"delayed"`
	Cancelled      int `json:"cancelled"`

	TotalVehicles       int `json:"totalVehicles"`
	AvailableVehicles   int `json:"availableVehicles"`
	InUseVehicles       int `json:"inUseVehicles"`
	MaintenanceVehicles int `json:"maintenanceVehicles"`
	OfflineVehicles     int `json:"offlineVehicles"`

	TotalDrivers      int `json:"totalDrivers"`
	AvailableDrivers  int `json:"availableDrivers"`
	OnDeliveryDrivers int `json:"onDeliveryDrivers"`
	OffDutyDrivers    int `json:"offDutyDrivers"`
	SuspendedDrivers  int `json:"suspendedDrivers"`

	OnTimeDeliveryRate int     `json:"onTimeDeliveryRate"`
	AvgDriverRating    float64 `json:"avgDriverRating"`

	LastUpdated string `json:"lastUpdated"`
}

// NewDashboardStats merges the three aggregates into one flat snapshot.
func NewDashboardStats(s ShipmentStats, v VehicleStats, d DriverStats, lastUpdated string) DashboardStats {
	return DashboardStats{
		TotalShipments: s.TotalShipments,
		InTransit:      s.InTransit,
		Delivered:      s.Delivered,
		Pending:        s.Pending,
		Delayed:        s.Delayed,
		Cancelled:      s.Cancelled,

		TotalVehicles:       v.TotalVehicles,
		AvailableVehicles:   v.Available,
		InUseVehicles:       v.InUse,
		MaintenanceVehicles: v.Maintenance,
		OfflineVehicles:     v.Offline,

		TotalDrivers:      d.TotalDrivers,
		AvailableDrivers:  d.Available,
		OnDeliveryDrivers: d.OnDelivery,
		OffDutyDrivers:    d.OffDuty,
		SuspendedDrivers:  d.Suspended,

		OnTimeDeliveryRate: d.OnTimeDeliveryRate,
		AvgDriverRating:    math.Round(d.AvgRating*10) / 10,

		LastUpdated: lastUpdated,
	}
}

// PerformanceMetrics summarizes delivery performance across shipments.
type PerformanceMetrics struct {
	DeliverySuccessRate  int     `json:"deliverySuccessRate"`
	ActiveShipments      int     `json:"activeShipments"`
	AvgDeliveryTimeHours float64 `json:"avgDeliveryTimeHours"`
	LastUpdated          string  `json:"lastUpdated"`
}

// ShipmentStatusDistribution counts shipments per status.
type ShipmentStatusDistribution struct {
	Pending     int    `json:"pending"`
	InTransit   int    `json:"inTransit"`
	Delivered   int    `json:"delivered"`
	Delayed     int    `json:"delayed"`
	Cancelled   int    `json:"cancelled"`
	Total       int    `json:"total"`
	LastUpdated string `json:"lastUpdated"`
}

// VehicleTypeDistribution counts vehicles per type.
type VehicleTypeDistribution struct {
	Truck       int    `json:"truck"`
	Van         int    `json:"van"`
	Trailer     int    `json:"trailer"`
	Pickup      int    `json:"pickup"`
	Total       int    `json:"total"`
	LastUpdated string `json:"lastUpdated"`
}

// DriverExperienceDistribution counts drivers per experience bucket.
type DriverExperienceDistribution struct {
	Beginner     int    `json:"beginner"`
	Intermediate int    `json:"intermediate"`
	Advanced     int    `json:"advanced"`
	Expert       int    `json:"expert"`
	Total        int    `json:"total"`
	LastUpdated  string `json:"lastUpdated"`
}
