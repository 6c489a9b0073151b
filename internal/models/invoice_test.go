package models_test

import (
	"github.com/rentals-co/servicios/internal/allocation"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/test"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func (suite *TestSuiteStandard) TestInvoiceChargeValidation() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	invoice := test.CreateInvoice(suite.T(), group)

	tests := []struct {
		name   string
		charge models.InvoiceChargeEditable
		err    error
	}{
		{"Empty description", models.InvoiceChargeEditable{Description: " ", Method: allocation.EqualSplitMethod}, models.ErrChargeEmpty},
		{"Unknown method", models.InvoiceChargeEditable{Description: "Cargo fijo", Method: "BY_AREA"}, models.ErrMethodInvalid},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := models.DB.Create(&models.InvoiceCharge{InvoiceID: invoice.ID, InvoiceChargeEditable: tt.charge}).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestInvoiceChargeRule() {
	charge := models.InvoiceCharge{InvoiceChargeEditable: models.InvoiceChargeEditable{
		Description: "Alumbrado",
		Amount:      decimal.NewFromInt(5000),
		Method:      allocation.FixedAmountMethod,
		Metadata:    datatypes.NewJSONType(allocation.Metadata{TargetUnitCode: "LOCAL_3"}),
	}}

	rule, err := charge.Rule()
	suite.Require().Nil(err)
	suite.Assert().Equal(allocation.FixedAmount{TargetUnitCode: "LOCAL_3"}, rule)
}

func (suite *TestSuiteStandard) TestInvoiceChargeMetadataRoundTrip() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	invoice := test.CreateInvoice(suite.T(), group,
		test.Charge("Reparto", "900", allocation.PercentageMethod, allocation.Metadata{
			Percentages: map[string]decimal.Decimal{"LOCAL_1A": decimal.NewFromInt(60), "LOCAL_1B": decimal.NewFromInt(40)},
		}),
	)

	var charge models.InvoiceCharge
	suite.Require().Nil(models.DB.First(&charge, "invoice_id = ?", invoice.ID).Error)
	suite.Assert().True(decimal.NewFromInt(60).Equal(charge.Metadata.Data().Percentages["LOCAL_1A"]))
}

func (suite *TestSuiteStandard) TestNegativeValues() {
	unit := test.CreateUnit(suite.T(), "LOCAL_1A")
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")

	err := models.DB.Create(&models.MeterReading{MeterGroupID: group.ID, UnitID: unit.ID, Period: test.May, Value: decimal.NewFromInt(-1)}).Error
	suite.Assert().ErrorIs(err, models.ErrReadingNegative)

	err = models.DB.Create(&models.MeterGroupUnit{MeterGroupUnitEditable: models.MeterGroupUnitEditable{MeterGroupID: group.ID, UnitID: unit.ID, Weight: decimal.NewFromInt(-2)}}).Error
	suite.Assert().ErrorIs(err, models.ErrWeightNegative)
}
