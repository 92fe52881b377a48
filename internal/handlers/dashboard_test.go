package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/models"
)

func newDashboardHandler(shipments *MockShipmentCollection, vehicles *MockVehicleCollection, drivers *MockDriverCollection) *DashboardHandler {
	return NewDashboardHandler(shipments, vehicles, drivers, cache.New(cache.DashboardTTL))
}

func TestDashboardHandler_Stats(t *testing.T) {
	e := newTestEcho()

	t.Run("merges the three aggregates", func(t *testing.T) {
		mockShipments := new(MockShipmentCollection)
		mockVehicles := new(MockVehicleCollection)
		mockDrivers := new(MockDriverCollection)
		handler := newDashboardHandler(mockShipments, mockVehicles, mockDrivers)

		mockShipments.On("Stats", mock.Anything).
			Return(models.ShipmentStats{TotalShipments: 25, Pending: 5, InTransit: 8, Delivered: 9, Delayed: 2, Cancelled: 1}, nil)
		mockVehicles.On("Stats", mock.Anything).
			Return(models.VehicleStats{TotalVehicles: 5, Available: 3, InUse: 1, Maintenance: 1}, nil)
		driverStats := models.DriverStats{TotalDrivers: 5, Available: 3, OnDelivery: 1, OffDuty: 1, AvgRating: 4.6799, TotalDeliveries: 891, OnTimeDeliveries: 858}
		driverStats.ComputeRate()
		mockDrivers.On("Stats", mock.Anything).Return(driverStats, nil)

		c, rec := newTestContext(e, http.MethodGet, "/api/dashboard/stats", "")
		assert.NoError(t, handler.Stats(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stats models.DashboardStats
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 25, stats.TotalShipments)
		assert.Equal(t, 3, stats.AvailableVehicles)
		assert.Equal(t, 4.7, stats.AvgDriverRating)
		assert.Equal(t, 96, stats.OnTimeDeliveryRate)
		assert.NotEmpty(t, stats.LastUpdated)
	})

	t.Run("serves the cached snapshot byte for byte", func(t *testing.T) {
		mockShipments := new(MockShipmentCollection)
		mockVehicles := new(MockVehicleCollection)
		mockDrivers := new(MockDriverCollection)
		handler := newDashboardHandler(mockShipments, mockVehicles, mockDrivers)

		mockShipments.On("Stats", mock.Anything).Return(models.ShipmentStats{TotalShipments: 1}, nil).Once()
		mockVehicles.On("Stats", mock.Anything).Return(models.VehicleStats{TotalVehicles: 1}, nil).Once()
		mockDrivers.On("Stats", mock.Anything).Return(models.DriverStats{TotalDrivers: 1}, nil).Once()

		c1, rec1 := newTestContext(e, http.MethodGet, "/api/dashboard/stats", "")
		assert.NoError(t, handler.Stats(c1))
		c2, rec2 := newTestContext(e, http.MethodGet, "/api/dashboard/stats", "")
		assert.NoError(t, handler.Stats(c2))

		assert.Equal(t, rec1.Body.String(), rec2.Body.String())
		mockShipments.AssertExpectations(t)
		mockVehicles.AssertExpectations(t)
		mockDrivers.AssertExpectations(t)
	})

	t.Run("fails the whole snapshot when one aggregator fails", func(t *testing.T) {
		mockShipments := new(MockShipmentCollection)
		mockVehicles := new(MockVehicleCollection)
		mockDrivers := new(MockDriverCollection)
		handler := newDashboardHandler(mockShipments, mockVehicles, mockDrivers)

		mockShipments.On("Stats", mock.Anything).Return(models.ShipmentStats{}, assert.AnError).Maybe()
		mockVehicles.On("Stats", mock.Anything).Return(models.VehicleStats{}, nil).Maybe()
		mockDrivers.On("Stats", mock.Anything).Return(models.DriverStats{}, nil).Maybe()

		c, _ := newTestContext(e, http.MethodGet, "/api/dashboard/stats", "")
		assert.Error(t, handler.Stats(c))
	})
}

func TestDashboardHandler_Performance(t *testing.T) {
	e := newTestEcho()
	mockShipments := new(MockShipmentCollection)
	handler := newDashboardHandler(mockShipments, new(MockVehicleCollection), new(MockDriverCollection))

	mockShipments.On("DeliveredOnTimeCounts", mock.Anything).Return(9, 8, nil)
	mockShipments.On("AvgDeliveryTimeHours", mock.Anything).Return(51.984, nil)
	mockShipments.On("FindByStatus", mock.Anything, models.ShipmentInTransit).
		Return([]models.Shipment{testShipment(models.ShipmentInTransit)}, nil)

	c, rec := newTestContext(e, http.MethodGet, "/api/dashboard/performance", "")
	assert.NoError(t, handler.Performance(c))

	var metrics models.PerformanceMetrics
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 89, metrics.DeliverySuccessRate)
	assert.Equal(t, 1, metrics.ActiveShipments)
	assert.Equal(t, 52.0, metrics.AvgDeliveryTimeHours)
	mockShipments.AssertExpectations(t)
}

func TestDashboardHandler_RecentShipments(t *testing.T) {
	e := newTestEcho()
	mockShipments := new(MockShipmentCollection)
	handler := newDashboardHandler(mockShipments, new(MockVehicleCollection), new(MockDriverCollection))

	mockShipments.On("FindRecent", mock.Anything, 5).
		Return([]models.Shipment{testShipment(models.ShipmentPending)}, nil).Once()

	c1, rec1 := newTestContext(e, http.MethodGet, "/api/dashboard/recent-shipments", "")
	assert.NoError(t, handler.RecentShipments(c1))
	c2, rec2 := newTestContext(e, http.MethodGet, "/api/dashboard/recent-shipments", "")
	assert.NoError(t, handler.RecentShipments(c2))

	assert.Equal(t, rec1.Body.String(), rec2.Body.String())
	mockShipments.AssertExpectations(t)
}

func TestDashboardHandler_VehiclesByType(t *testing.T) {
	e := newTestEcho()
	mockVehicles := new(MockVehicleCollection)
	handler := newDashboardHandler(new(MockShipmentCollection), mockVehicles, new(MockDriverCollection))

	mockVehicles.On("TypeCounts", mock.Anything).
		Return(map[models.VehicleType]int{models.VehicleTruck: 2, models.VehicleVan: 1, models.VehiclePickup: 1}, nil)

	c, rec := newTestContext(e, http.MethodGet, "/api/dashboard/vehicles-by-type", "")
	assert.NoError(t, handler.VehiclesByType(c))

	var distribution models.VehicleTypeDistribution
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &distribution))
	assert.Equal(t, 2, distribution.Truck)
	assert.Equal(t, 0, distribution.Trailer)
	assert.Equal(t, 4, distribution.Total)
	mockVehicles.AssertExpectations(t)
}

func TestDashboardHandler_DriversByExperience(t *testing.T) {
	e := newTestEcho()
	mockDrivers := new(MockDriverCollection)
	handler := newDashboardHandler(new(MockShipmentCollection), new(MockVehicleCollection), mockDrivers)

	mockDrivers.On("ExperienceCounts", mock.Anything).
		Return(models.DriverExperienceDistribution{Beginner: 1, Intermediate: 2, Advanced: 2, Total: 5}, nil)

	c, rec := newTestContext(e, http.MethodGet, "/api/dashboard/drivers-by-experience", "")
	assert.NoError(t, handler.DriversByExperience(c))

	var distribution models.DriverExperienceDistribution
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &distribution))
	assert.Equal(t, 2, distribution.Intermediate)
	assert.Equal(t, 5, distribution.Total)
	assert.NotEmpty(t, distribution.LastUpdated)
	mockDrivers.AssertExpectations(t)
}

func TestDashboardHandler_AvailableResources(t *testing.T) {
	e := newTestEcho()
	mockVehicles := new(MockVehicleCollection)
	mockDrivers := new(MockDriverCollection)
	handler := newDashboardHandler(new(MockShipmentCollection), mockVehicles, mockDrivers)

	mockVehicles.On("FindAvailable", mock.Anything).
		Return([]models.Vehicle{testVehicle(models.VehicleAvailable)}, nil)
	mockDrivers.On("FindAvailable", mock.Anything).
		Return([]models.Driver{testDriver(models.DriverAvailable)}, nil)

	c, rec := newTestContext(e, http.MethodGet, "/api/dashboard/available-resources", "")
	assert.NoError(t, handler.AvailableResources(c))

	var response availableResources
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Vehicles, 1)
	assert.Len(t, response.Drivers, 1)
	mockVehicles.AssertExpectations(t)
	mockDrivers.AssertExpectations(t)
}
