package models

import (
	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MeterReading is the value of a meter for one unit at the end of a period.
type MeterReading struct {
	DefaultModel
	MeterGroup   *MeterGroup     `json:"meter_group,omitempty"`
	Unit         *Unit           `json:"unit,omitempty"`
	MeterGroupID uuid.UUID       `json:"meter_group_id" gorm:"type:uuid;uniqueIndex:idx_reading_period"`
	UnitID       uuid.UUID       `json:"unit_id" gorm:"type:uuid;uniqueIndex:idx_reading_period"`
	Period       types.Month     `json:"period" gorm:"uniqueIndex:idx_reading_period" swaggertype:"string" example:"2024-05-01"`
	Value        decimal.Decimal `json:"reading_value" gorm:"type:DECIMAL(20,8)" example:"1520.5"`
	PhotoPath    string          `json:"photo_path" example:"readings/1714600000000_medidor.jpg"`
}

func (r *MeterReading) BeforeSave(_ *gorm.DB) error {
	if r.Value.IsNegative() {
		return ErrReadingNegative
	}

	return nil
}
