package calculator

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store loads the data for a calculation and persists its result.
type Store interface {
	// Invoice returns the invoice with the given ID. A missing invoice is
	// reported with models.ErrResourceNotFound.
	Invoice(ctx context.Context, id uuid.UUID) (models.UtilityInvoice, error)

	// GroupUnits returns the units of a meter group with their weights.
	GroupUnits(ctx context.Context, meterGroupID uuid.UUID) ([]models.MeterGroupUnit, error)

	// Reading returns the reading of a unit for a period. The boolean is
	// false if there is no reading.
	Reading(ctx context.Context, meterGroupID, unitID uuid.UUID, period types.Month) (decimal.Decimal, bool, error)

	// Charges returns the charges of an invoice in the order they appear on it.
	Charges(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceCharge, error)

	// SaveAllocations replaces the allocations for the same invoice and
	// unit and returns the persisted rows including their unit.
	SaveAllocations(ctx context.Context, allocations []models.InvoiceAllocation) ([]models.InvoiceAllocation, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the database.
func NewStore(db *gorm.DB) Store {
	return gormStore{db: db}
}

func (s gormStore) Invoice(ctx context.Context, id uuid.UUID) (models.UtilityInvoice, error) {
	var invoice models.UtilityInvoice
	err := s.db.WithContext(ctx).Preload("MeterGroup").First(&invoice, "id = ?", id).Error
	return invoice, err
}

func (s gormStore) GroupUnits(ctx context.Context, meterGroupID uuid.UUID) ([]models.MeterGroupUnit, error) {
	var units []models.MeterGroupUnit
	err := s.db.WithContext(ctx).
		Preload("Unit").
		Where("meter_group_id = ?", meterGroupID).
		Order("created_at ASC").
		Find(&units).Error

	return units, err
}

func (s gormStore) Reading(ctx context.Context, meterGroupID, unitID uuid.UUID, period types.Month) (decimal.Decimal, bool, error) {
	var readings []models.MeterReading
	err := s.db.WithContext(ctx).
		Where("meter_group_id = ? AND unit_id = ? AND period = ?", meterGroupID, unitID, period).
		Limit(1).
		Find(&readings).Error
	if err != nil || len(readings) == 0 {
		return decimal.Zero, false, err
	}

	return readings[0].Value, true, nil
}

func (s gormStore) Charges(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceCharge, error) {
	var charges []models.InvoiceCharge
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position ASC").
		Find(&charges).Error

	return charges, err
}

func (s gormStore) SaveAllocations(ctx context.Context, allocations []models.InvoiceAllocation) ([]models.InvoiceAllocation, error) {
	if len(allocations) == 0 {
		return []models.InvoiceAllocation{}, nil
	}

	db := s.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invoice_id"}, {Name: "unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "breakdown", "updated_at"}),
	}).Create(&allocations).Error
	if err != nil {
		return nil, err
	}

	// IDs of replaced rows are not the ones generated for the insert,
	// so the rows are read back
	unitIDs := make([]uuid.UUID, len(allocations))
	for i, a := range allocations {
		unitIDs[i] = a.UnitID
	}

	var persisted []models.InvoiceAllocation
	err = db.
		Preload("Unit").
		Where("invoice_id = ? AND unit_id IN ?", allocations[0].InvoiceID, unitIDs).
		Find(&persisted).Error
	if err != nil {
		return nil, err
	}

	// Return the rows in the order they were passed in
	byUnit := make(map[uuid.UUID]models.InvoiceAllocation, len(persisted))
	for _, p := range persisted {
		byUnit[p.UnitID] = p
	}

	ordered := make([]models.InvoiceAllocation, 0, len(persisted))
	for _, id := range unitIDs {
		if p, ok := byUnit[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}
