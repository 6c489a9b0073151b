package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceTypeWater       ServiceType = "WATER"
	ServiceTypeElectricity ServiceType = "ELECTRICITY"
	ServiceTypeGas         ServiceType = "GAS"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTypeWater, ServiceTypeElectricity, ServiceTypeGas:
		return true
	}

	return false
}

// MeterGroup is a set of units sharing one meter and therefore one invoice.
type MeterGroup struct {
	DefaultModel
	MeterGroupEditable
}

type MeterGroupEditable struct {
	Code        string      `json:"code" gorm:"uniqueIndex" example:"WATER_MAIN"`     // Unique code of the meter group
	ServiceType ServiceType `json:"service_type" example:"WATER"`                     // The utility measured by the meter
	Name        string      `json:"name" example:"Water, main building"`              // Display name
	Provider    string      `json:"provider" example:"Empresas Públicas de Medellín"` // Utility company issuing the invoices
}

func (m *MeterGroup) BeforeSave(_ *gorm.DB) error {
	m.Code = strings.TrimSpace(m.Code)
	m.Name = strings.TrimSpace(m.Name)
	m.Provider = strings.TrimSpace(m.Provider)
	m.ServiceType = ServiceType(strings.ToUpper(strings.TrimSpace(string(m.ServiceType))))

	if m.Code == "" {
		return ErrMeterGroupCodeEmpty
	}

	if !m.ServiceType.Valid() {
		return ErrServiceTypeInvalid
	}

	return nil
}

// MeterGroupUnit is the membership of a unit in a meter group.
//
// The weight is used by EQUAL_SPLIT charges.
type MeterGroupUnit struct {
	DefaultModel
	MeterGroup   *MeterGroup `json:"meter_group,omitempty"`
	Unit         *Unit       `json:"unit,omitempty"`
	MeterGroupUnitEditable
}

type MeterGroupUnitEditable struct {
	MeterGroupID uuid.UUID       `json:"meter_group_id" gorm:"type:uuid;uniqueIndex:idx_meter_group_unit" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`
	UnitID       uuid.UUID       `json:"unit_id" gorm:"type:uuid;uniqueIndex:idx_meter_group_unit" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Weight       decimal.Decimal `json:"weight" gorm:"type:DECIMAL(20,8)" example:"1"`
}

func (m *MeterGroupUnit) BeforeSave(_ *gorm.DB) error {
	if m.Weight.IsNegative() {
		return ErrWeightNegative
	}

	return nil
}
