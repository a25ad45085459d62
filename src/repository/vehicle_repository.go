package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ngo-Miingg/Parking-Smart/src/db"
	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/lib/pq"
)

// VehicleRepository handles database operations for registered (monthly)
// vehicles.
type VehicleRepository struct {
	db *db.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(database *db.DB) *VehicleRepository {
	return &VehicleRepository{
		db: database,
	}
}

// List returns all registered vehicles, newest first.
func (r *VehicleRepository) List(ctx context.Context) ([]models.RegisteredVehicle, error) {
	query := `
		SELECT id, plate, vehicle_type, owner, expiry_date
		FROM registered_vehicles
		ORDER BY id DESC
	`

	rows, err := r.db.GetConnection().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]models.RegisteredVehicle, 0)
	for rows.Next() {
		var v models.RegisteredVehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.VehicleType, &v.Owner, &v.ExpiryDate); err != nil {
			return nil, fmt.Errorf("failed to scan registered vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registered vehicles: %w", err)
	}

	return vehicles, nil
}

// Create inserts a registered vehicle. A duplicate plate surfaces as
// models.ErrDuplicatePlate with no partial write.
func (r *VehicleRepository) Create(ctx context.Context, vehicle models.RegisteredVehicle) (*models.RegisteredVehicle, error) {
	query := `
		INSERT INTO registered_vehicles (plate, vehicle_type, owner, expiry_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		vehicle.Plate,
		vehicle.VehicleType,
		vehicle.Owner,
		vehicle.ExpiryDate,
	).Scan(&vehicle.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePlate, vehicle.Plate)
		}
		return nil, fmt.Errorf("failed to create registered vehicle: %w", err)
	}

	slog.Info("Registered vehicle",
		"plate", vehicle.Plate,
		"owner", vehicle.Owner)

	return &vehicle, nil
}

// Delete removes a registered vehicle by plate. Deleting an absent plate is
// not an error, matching the administrative API contract.
func (r *VehicleRepository) Delete(ctx context.Context, plate string) error {
	query := `DELETE FROM registered_vehicles WHERE plate = $1`

	if _, err := r.db.GetConnection().ExecContext(ctx, query, plate); err != nil {
		return fmt.Errorf("failed to delete registered vehicle: %w", err)
	}
	return nil
}
