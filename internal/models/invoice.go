package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/allocation"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UtilityInvoice is the invoice of a utility provider for one meter group
// and period.
type UtilityInvoice struct {
	DefaultModel
	MeterGroup   *MeterGroup         `json:"meter_group,omitempty"`
	MeterGroupID uuid.UUID           `json:"meter_group_id" gorm:"type:uuid;uniqueIndex:idx_invoice_period"`
	Period       types.Month         `json:"period" gorm:"uniqueIndex:idx_invoice_period" swaggertype:"string" example:"2024-05-01"`
	Provider     string              `json:"provider" example:"EPM"`
	InvoiceRef   string              `json:"invoice_ref" example:"FAC-2024-0512"`
	TotalAmount  decimal.Decimal     `json:"total_amount" gorm:"type:DECIMAL(20,8)" example:"184320"`
	DueDate      *types.Date         `json:"due_date" swaggertype:"string" example:"2024-06-10"`
	PhotoPath    string              `json:"photo_path" example:"invoices/1714600000000_factura.pdf"`
	Charges      []InvoiceCharge     `json:"charges,omitempty" gorm:"foreignKey:InvoiceID"`
	Allocations  []InvoiceAllocation `json:"allocations,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (i *UtilityInvoice) BeforeSave(_ *gorm.DB) error {
	i.Provider = strings.TrimSpace(i.Provider)
	i.InvoiceRef = strings.TrimSpace(i.InvoiceRef)

	return nil
}

// InvoiceCharge is a line item of an invoice together with the rule used
// to split it across the units of the meter group.
type InvoiceCharge struct {
	DefaultModel
	InvoiceID uuid.UUID `json:"invoice_id" gorm:"type:uuid;index"`
	Position  int       `json:"-"` // Order of the charge on the invoice
	InvoiceChargeEditable
}

type InvoiceChargeEditable struct {
	Description string                                  `json:"description" example:"Cargo fijo"`
	Amount      decimal.Decimal                         `json:"amount" gorm:"type:DECIMAL(20,8)" example:"12500"`
	Method      allocation.Method                       `json:"allocation_method" example:"EQUAL_SPLIT"`
	Metadata    datatypes.JSONType[allocation.Metadata] `json:"metadata" swaggertype:"object"`
}

func (c *InvoiceCharge) BeforeSave(_ *gorm.DB) error {
	c.Description = strings.TrimSpace(c.Description)

	if c.Description == "" {
		return ErrChargeEmpty
	}

	if !c.Method.Valid() {
		return ErrMethodInvalid
	}

	return nil
}

// Rule returns the allocation rule configured for the charge.
func (c InvoiceCharge) Rule() (allocation.Rule, error) {
	return allocation.RuleFor(c.Method, c.Metadata.Data())
}

// InvoiceAllocation is the amount a unit owes for an invoice.
//
// There is at most one allocation per invoice and unit, recalculating an
// invoice replaces the existing allocations.
type InvoiceAllocation struct {
	DefaultModel
	Unit      *Unit                                        `json:"unit,omitempty"`
	InvoiceID uuid.UUID                                    `json:"invoice_id" gorm:"type:uuid;uniqueIndex:idx_allocation_invoice_unit"`
	UnitID    uuid.UUID                                    `json:"unit_id" gorm:"type:uuid;uniqueIndex:idx_allocation_invoice_unit"`
	Amount    decimal.Decimal                              `json:"amount" gorm:"type:DECIMAL(20,2)" example:"50000"`
	Breakdown datatypes.JSONType[map[string]decimal.Decimal] `json:"breakdown" swaggertype:"object"` // Unrounded amount per charge description
}
