package models_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/models"
)

func (suite *TestSuiteStandard) TestModelTimeUTC() {
	tz, _ := time.LoadLocation("America/Bogota")

	model := models.DefaultModel{
		Timestamps: models.Timestamps{
			CreatedAt: time.Date(2000, 1, 2, 3, 4, 5, 6, tz),
			UpdatedAt: time.Date(2001, 2, 3, 4, 5, 6, 7, tz),
		},
	}

	suite.Require().Nil(model.AfterFind(models.DB))
	suite.Assert().Equal(time.UTC, model.CreatedAt.Location(), "Timezone for model is not UTC")
	suite.Assert().Equal(time.UTC, model.UpdatedAt.Location(), "Timezone for model is not UTC")
}

func (suite *TestSuiteStandard) TestModelIDGenerated() {
	unit := models.Unit{UnitEditable: models.UnitEditable{Code: "LOCAL_1A"}}
	unit.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	suite.Require().Nil(models.DB.Create(&unit).Error)
	suite.Assert().NotEqual(uuid.MustParse("00000000-0000-0000-0000-000000000001"), unit.ID, "IDs cannot be set by clients")
}

func (suite *TestSuiteStandard) TestTrimWhitespace() {
	unit := models.Unit{UnitEditable: models.UnitEditable{Code: "\t LOCAL_1A ", Name: " Local 1A  ", Description: " Ground floor\n"}}
	suite.Require().Nil(models.DB.Create(&unit).Error)

	suite.Assert().Equal("LOCAL_1A", unit.Code)
	suite.Assert().Equal("Local 1A", unit.Name)
	suite.Assert().Equal("Ground floor", unit.Description)

	group := models.MeterGroup{MeterGroupEditable: models.MeterGroupEditable{Code: " GAS ", ServiceType: " gas", Provider: " Vanti "}}
	suite.Require().Nil(models.DB.Create(&group).Error)

	suite.Assert().Equal("GAS", group.Code)
	suite.Assert().Equal(models.ServiceTypeGas, group.ServiceType)
	suite.Assert().Equal("Vanti", group.Provider)
}
