package test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/allocation"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// Months used by most tests. Readings are taken for April and May,
// invoices are for May.
var (
	April = types.NewMonth(2024, 4)
	May   = types.NewMonth(2024, 5)
)

// CreateUnit creates a unit with the given code in models.DB.
func CreateUnit(t *testing.T, code string) models.Unit {
	unit := models.Unit{UnitEditable: models.UnitEditable{Code: code, Name: code}}
	require.Nil(t, models.DB.Create(&unit).Error)

	return unit
}

// CreateMeterGroup creates a water meter group. An empty code is
// replaced by a random one.
func CreateMeterGroup(t *testing.T, code string) models.MeterGroup {
	if code == "" {
		code = uuid.NewString()
	}

	group := models.MeterGroup{MeterGroupEditable: models.MeterGroupEditable{
		Code:        code,
		ServiceType: models.ServiceTypeWater,
		Name:        "Water " + code,
		Provider:    "EPM",
	}}
	require.Nil(t, models.DB.Create(&group).Error)

	return group
}

// AddUnit adds a unit to a meter group.
func AddUnit(t *testing.T, group models.MeterGroup, unit models.Unit, weight string) models.MeterGroupUnit {
	membership := models.MeterGroupUnit{MeterGroupUnitEditable: models.MeterGroupUnitEditable{
		MeterGroupID: group.ID,
		UnitID:       unit.ID,
		Weight:       decimal.RequireFromString(weight),
	}}
	require.Nil(t, models.DB.Create(&membership).Error)

	return membership
}

// CreateReading stores a reading without a photo.
func CreateReading(t *testing.T, group models.MeterGroup, unit models.Unit, period types.Month, value string) models.MeterReading {
	reading := models.MeterReading{
		MeterGroupID: group.ID,
		UnitID:       unit.ID,
		Period:       period,
		Value:        decimal.RequireFromString(value),
	}
	require.Nil(t, models.DB.Create(&reading).Error)

	return reading
}

// Charge returns a charge to be passed to CreateInvoice.
func Charge(description, amount string, method allocation.Method, metadata allocation.Metadata) models.InvoiceChargeEditable {
	return models.InvoiceChargeEditable{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Method:      method,
		Metadata:    datatypes.NewJSONType(metadata),
	}
}

// CreateInvoice creates an invoice for May with its charges in the order
// they are passed.
func CreateInvoice(t *testing.T, group models.MeterGroup, charges ...models.InvoiceChargeEditable) models.UtilityInvoice {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}

	invoice := models.UtilityInvoice{
		MeterGroupID: group.ID,
		Period:       May,
		Provider:     "EPM",
		InvoiceRef:   "FAC-" + uuid.NewString()[:8],
		TotalAmount:  total,
	}
	require.Nil(t, models.DB.Create(&invoice).Error)

	for i, c := range charges {
		charge := models.InvoiceCharge{
			InvoiceID:             invoice.ID,
			Position:              i,
			InvoiceChargeEditable: c,
		}
		require.Nil(t, models.DB.Create(&charge).Error)
		invoice.Charges = append(invoice.Charges, charge)
	}

	return invoice
}

// Building is a meter group with its units, keyed by unit code.
type Building struct {
	Group models.MeterGroup
	Units map[string]models.Unit
}

// CreateBuilding creates a meter group and one unit with weight 1 per code.
// Readings are given as pairs of April and May values per code.
func CreateBuilding(t *testing.T, readings map[string][2]string, codes ...string) Building {
	b := Building{
		Group: CreateMeterGroup(t, ""),
		Units: make(map[string]models.Unit, len(codes)),
	}

	for _, code := range codes {
		unit := CreateUnit(t, code)
		AddUnit(t, b.Group, unit, "1")
		b.Units[code] = unit

		if values, ok := readings[code]; ok {
			CreateReading(t, b.Group, unit, April, values[0])
			CreateReading(t, b.Group, unit, May, values[1])
		}
	}

	return b
}
