package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/rentals-co/servicios/internal/controllers/v1"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestMeterGroupsCreate() {
	tests := []struct {
		name   string
		body   any
		status int
		err    string
	}{
		{"Water", models.MeterGroupEditable{Code: "WATER_MAIN", ServiceType: "water", Provider: "EPM"}, http.StatusCreated, ""},
		{"Duplicate", models.MeterGroupEditable{Code: "WATER_MAIN", ServiceType: models.ServiceTypeWater}, http.StatusConflict, "a meter group with this code already exists"},
		{"Unknown service type", models.MeterGroupEditable{Code: "INTERNET", ServiceType: "FIBER"}, http.StatusBadRequest, "the service type must be one of"},
		{"No code", models.MeterGroupEditable{ServiceType: models.ServiceTypeGas}, http.StatusBadRequest, "the meter group code must not be empty"},
		{"Broken body", `{ "code": 1 }`, http.StatusBadRequest, "cannot unmarshal"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/meter-groups", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.Response[models.MeterGroup]
			test.DecodeResponse(t, &r, &response)

			if tt.err != "" {
				assert.Contains(t, response.Error, tt.err)
				return
			}

			assert.Equal(t, models.ServiceTypeWater, response.Data.ServiceType, "service type is normalized")
		})
	}
}

func (suite *TestSuiteStandard) TestMeterGroupsGet() {
	water := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	gas := test.CreateMeterGroup(suite.T(), "GAS_MAIN")
	unit := test.CreateUnit(suite.T(), "LOCAL_1A")
	test.AddUnit(suite.T(), gas, unit, "1")

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"All", "", []string{"WATER_MAIN", "GAS_MAIN"}},
		{"By code", "code=WATER_MAIN", []string{"WATER_MAIN"}},
		{"By unit", fmt.Sprintf("unit=%s", unit.ID), []string{"GAS_MAIN"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/meter-groups?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.Response[[]models.MeterGroup]
			test.DecodeResponse(t, &r, &response)

			codes := make([]string, 0)
			for _, g := range *response.Data {
				codes = append(codes, g.Code)
			}
			assert.ElementsMatch(t, tt.codes, codes)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/meter-groups/%s", water.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[models.MeterGroup]
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(water.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestMeterGroupsGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meter-groups/9b3a0f5c-0c6e-4a8e-b1c1-2a7b0ff0c9d3", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestMeterGroupUnitsCreate() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	unit := test.CreateUnit(suite.T(), "LOCAL_1A")

	body := models.MeterGroupUnitEditable{MeterGroupID: group.ID, UnitID: unit.ID, Weight: decimal.RequireFromString("1.5")}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/meter-group-units", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[models.MeterGroupUnit]
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data.Unit)
	suite.Assert().Equal("LOCAL_1A", response.Data.Unit.Code)
	suite.Assert().True(decimal.RequireFromString("1.5").Equal(response.Data.Weight))

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/meter-group-units", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	var conflict v1.Response[models.MeterGroupUnit]
	test.DecodeResponse(suite.T(), &r, &conflict)
	suite.Assert().Equal(models.ErrMeterGroupUnitNotUnique.Error(), conflict.Error)
}

func (suite *TestSuiteStandard) TestMeterGroupUnitsCreateFails() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	unit := test.CreateUnit(suite.T(), "LOCAL_1A")

	tests := []struct {
		name string
		body models.MeterGroupUnitEditable
		err  error
	}{
		{"Negative weight", models.MeterGroupUnitEditable{MeterGroupID: group.ID, UnitID: unit.ID, Weight: decimal.NewFromInt(-1)}, models.ErrWeightNegative},
		{"Unknown unit", models.MeterGroupUnitEditable{MeterGroupID: group.ID, UnitID: group.ID, Weight: decimal.NewFromInt(1)}, models.ErrReferenceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/meter-group-units", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.Response[models.MeterGroupUnit]
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.err.Error(), response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestMeterGroupUnitsGet() {
	b := test.CreateBuilding(suite.T(), nil, "LOCAL_1A", "LOCAL_1B")
	other := test.CreateMeterGroup(suite.T(), "GAS_MAIN")
	test.AddUnit(suite.T(), other, b.Units["LOCAL_1A"], "2")

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 3},
		{"By meter group", fmt.Sprintf("meterGroup=%s", b.Group.ID), 2},
		{"By unit", fmt.Sprintf("unit=%s", b.Units["LOCAL_1A"].ID), 2},
		{"By both", fmt.Sprintf("meterGroup=%s&unit=%s", other.ID, b.Units["LOCAL_1A"].ID), 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/meter-group-units?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.Response[[]models.MeterGroupUnit]
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, *response.Data, tt.count)

			for _, m := range *response.Data {
				assert.NotNil(t, m.Unit)
			}
		})
	}
}
