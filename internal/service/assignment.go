// Package service coordinates operations that span more than one entity.
package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
)

// Assignment pairs the two sides of the driver/vehicle reference. The store
// has no cross-document transaction, so each pairing is two single-document
// writes with a compensating write if the second one fails. The references
// stay eventually consistent at best.
type Assignment struct {
	drivers  db.DriverCollection
	vehicles db.VehicleCollection
}

// NewAssignment creates the coordinator.
func NewAssignment(drivers db.DriverCollection, vehicles db.VehicleCollection) *Assignment {
	return &Assignment{drivers: drivers, vehicles: vehicles}
}

// AssignVehicleToDriver puts the driver on delivery with the vehicle and the
// vehicle in use with the driver. If the vehicle write fails, the driver is
// released again.
func (a *Assignment) AssignVehicleToDriver(ctx context.Context, driverID, vehicleID string) (*models.Driver, error) {
	driver, err := a.drivers.AssignVehicle(ctx, driverID, vehicleID)
	if err != nil {
		return nil, err
	}
	if _, err := a.vehicles.AssignDriver(ctx, vehicleID, driverID); err != nil {
		if _, rbErr := a.drivers.Release(ctx, driverID); rbErr != nil {
			log.WithFields(log.Fields{"driver": driverID, "vehicle": vehicleID}).
				WithError(rbErr).Error("failed to roll back driver assignment")
			return nil, fmt.Errorf("assign vehicle: %w (driver rollback also failed)", err)
		}
		return nil, err
	}
	return driver, nil
}

// AssignDriverToVehicle is the vehicle-side entry point for the same
// pairing. If the driver write fails, the vehicle is released again.
func (a *Assignment) AssignDriverToVehicle(ctx context.Context, vehicleID, driverID string) (*models.Vehicle, error) {
	vehicle, err := a.vehicles.AssignDriver(ctx, vehicleID, driverID)
	if err != nil {
		return nil, err
	}
	if _, err := a.drivers.AssignVehicle(ctx, driverID, vehicleID); err != nil {
		if _, rbErr := a.vehicles.Release(ctx, vehicleID); rbErr != nil {
			log.WithFields(log.Fields{"driver": driverID, "vehicle": vehicleID}).
				WithError(rbErr).Error("failed to roll back vehicle assignment")
			return nil, fmt.Errorf("assign driver: %w (vehicle rollback also failed)", err)
		}
		return nil, err
	}
	return vehicle, nil
}

// ReleaseDriver makes the driver available again and, when a vehicle is
// linked, releases that vehicle too. A vehicle that no longer exists is
// ignored.
func (a *Assignment) ReleaseDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	current, err := a.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	driver, err := a.drivers.Release(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if current.CurrentVehicle != nil {
		if _, err := a.vehicles.Release(ctx, current.CurrentVehicle.Hex()); err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
	}
	return driver, nil
}

// ReleaseVehicle makes the vehicle available again and, when a driver is
// linked, releases that driver too. A driver that no longer exists is
// ignored.
func (a *Assignment) ReleaseVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	current, err := a.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	vehicle, err := a.vehicles.Release(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if current.Driver != nil {
		if _, err := a.drivers.Release(ctx, current.Driver.Hex()); err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
	}
	return vehicle, nil
}
