package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rentals-co/servicios/internal/allocation"
	v1 "github.com/rentals-co/servicios/internal/controllers/v1"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/test"
	"github.com/stretchr/testify/assert"
)

const invoiceCharges = `[
	{ "description": "Consumo acueducto", "amount": "150000", "allocation_method": "PROPORTIONAL_CONSUMPTION" },
	{ "description": "Cargo fijo", "amount": 20000, "allocation_method": "EQUAL_SPLIT" },
	{ "description": "Reconexión", "amount": "14320", "allocation_method": "FIXED_AMOUNT", "metadata": { "targetUnitCode": "LOCAL_3" } }
]`

func uploadInvoice(t *testing.T, fields map[string]string, photo *test.File, expectedStatus int) v1.Response[v1.Invoice] {
	files := map[string]test.File{}
	if photo != nil {
		files["photo"] = *photo
	}

	body, headers := test.Multipart(t, fields, files)
	r := test.Request(t, http.MethodPost, "http://example.com/v1/invoices", body, headers)
	test.AssertHTTPStatus(t, &r, expectedStatus)

	var response v1.Response[v1.Invoice]
	test.DecodeResponse(t, &r, &response)

	return response
}

func invoiceFields(group models.MeterGroup) map[string]string {
	return map[string]string{
		"meterGroupId": group.ID.String(),
		"period":       "2024-05",
		"provider":     " EPM ",
		"invoiceRef":   "FAC-2024-0512",
		"totalAmount":  "184320",
		"dueDate":      "2024-06-10",
		"charges":      invoiceCharges,
	}
}

func (suite *TestSuiteStandard) TestInvoicesCreate() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")

	response := uploadInvoice(suite.T(), invoiceFields(group), &test.File{Name: "factura.pdf", Content: test.PDF}, http.StatusCreated)
	suite.Require().True(response.Success)

	invoice := response.Data
	suite.Assert().Equal("EPM", invoice.Provider)
	suite.Assert().Equal("2024-06-10", invoice.DueDate.String())
	suite.Assert().Regexp(`^invoices/\d+_factura\.pdf$`, invoice.PhotoPath)
	suite.Assert().Equal("http://example.com/files/"+invoice.PhotoPath, invoice.PhotoURL)

	suite.Require().Len(invoice.Charges, 3)
	suite.Assert().Equal("Consumo acueducto", invoice.Charges[0].Description)
	suite.Assert().Equal(allocation.FixedAmountMethod, invoice.Charges[2].Method)
	suite.Assert().Equal("LOCAL_3", invoice.Charges[2].Metadata.Data().TargetUnitCode)

	// The detail endpoint returns the charges in the same order
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices/%s", invoice.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var detail v1.Response[v1.Invoice]
	test.DecodeResponse(suite.T(), &r, &detail)
	suite.Require().Len(detail.Data.Charges, 3)
	for i, description := range []string{"Consumo acueducto", "Cargo fijo", "Reconexión"} {
		suite.Assert().Equal(description, detail.Data.Charges[i].Description)
	}
	suite.Require().NotNil(detail.Data.MeterGroup)
	suite.Assert().Equal("WATER_MAIN", detail.Data.MeterGroup.Code)
	suite.Assert().Empty(detail.Data.Allocations, "no allocations before calculation")
}

func (suite *TestSuiteStandard) TestInvoicesCreateConflict() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")

	uploadInvoice(suite.T(), invoiceFields(group), &test.File{Name: "factura.pdf", Content: test.PDF}, http.StatusCreated)
	response := uploadInvoice(suite.T(), invoiceFields(group), &test.File{Name: "factura.pdf", Content: test.PDF}, http.StatusConflict)
	suite.Assert().Equal(models.ErrInvoiceNotUnique.Error(), response.Error)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.InvoiceCharge{}).Count(&count).Error)
	suite.Assert().Equal(int64(3), count, "charges of the rejected invoice are not stored")
}

func (suite *TestSuiteStandard) TestInvoicesCreateFails() {
	group := test.CreateMeterGroup(suite.T(), "WATER_MAIN")
	pdf := &test.File{Name: "factura.pdf", Content: test.PDF}

	tests := []struct {
		name   string
		modify func(map[string]string)
		photo  *test.File
		err    string
	}{
		{"Missing fields", func(f map[string]string) { delete(f, "provider"); delete(f, "charges") }, pdf, "required fields are missing: provider, charges"},
		{"Negative total", func(f map[string]string) { f["totalAmount"] = "-10" }, pdf, "the total amount must not be negative"},
		{"Invalid due date", func(f map[string]string) { f["dueDate"] = "10/06/2024" }, pdf, "could not parse the date"},
		{"Charges not JSON", func(f map[string]string) { f["charges"] = "Cargo fijo: 1000" }, pdf, "the charges are not valid JSON"},
		{"No charges", func(f map[string]string) { f["charges"] = "[]" }, pdf, "an invoice needs at least one charge"},
		{"Charge without method", func(f map[string]string) {
			f["charges"] = `[{ "description": "Cargo fijo", "amount": 100 }]`
		}, pdf, "every charge needs a description"},
		{"Negative charge", func(f map[string]string) {
			f["charges"] = `[{ "description": "Descuento", "amount": -100, "allocation_method": "EQUAL_SPLIT" }]`
		}, pdf, "the amount of a charge must not be negative"},
		{"Unknown method", func(f map[string]string) {
			f["charges"] = `[{ "description": "Cargo fijo", "amount": 100, "allocation_method": "BY_AREA" }]`
		}, pdf, `the allocation method must be one of PROPORTIONAL_CONSUMPTION, EQUAL_SPLIT, FIXED_AMOUNT, PERCENTAGE, got "BY_AREA"`},
		{"Unknown meter group", func(f map[string]string) { f["meterGroupId"] = "0f4c8e8a-93a7-4bd4-8d43-6f1c0cfe2a11" }, pdf, models.ErrReferenceNotFound.Error()},
		{"No photo", func(map[string]string) {}, nil, "required fields are missing: photo"},
		{"Text file", func(map[string]string) {}, &test.File{Name: "factura.pdf", Content: test.Text}, "the file must be an image"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			fields := invoiceFields(group)
			tt.modify(fields)

			response := uploadInvoice(t, fields, tt.photo, http.StatusBadRequest)
			assert.False(t, response.Success)
			assert.Contains(t, response.Error, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestInvoicesGet() {
	b := test.CreateBuilding(suite.T(), map[string][2]string{
		"LOCAL_1A": {"100", "110"},
		"LOCAL_1B": {"200", "230"},
	}, "LOCAL_1A", "LOCAL_1B")
	invoice := test.CreateInvoice(suite.T(), b.Group, test.Charge("Cargo fijo", "1000", allocation.EqualSplitMethod, allocation.Metadata{}))
	other := test.CreateMeterGroup(suite.T(), "GAS_MAIN")
	test.CreateInvoice(suite.T(), other, test.Charge("Cargo fijo", "1000", allocation.EqualSplitMethod, allocation.Metadata{}))

	calculate(suite.T(), invoice.ID)

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 2},
		{"By meter group", fmt.Sprintf("meterGroup=%s", b.Group.ID), 1},
		{"By period", "period=2024-05", 2},
		{"Other period", "period=2024-04", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.Response[[]v1.Invoice]
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, *response.Data, tt.count)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices/%s", invoice.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.Invoice]
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data.Allocations, 2, "allocations are included after calculation")
	for _, a := range response.Data.Allocations {
		suite.Require().NotNil(a.Unit)
		assertDecimal(suite.T(), "500", a.Amount)
	}
}

func (suite *TestSuiteStandard) TestInvoicesGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/invoices/0f4c8e8a-93a7-4bd4-8d43-6f1c0cfe2a11", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	var response v1.Response[v1.Invoice]
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("there is no utility invoice matching your query", response.Error)
}
