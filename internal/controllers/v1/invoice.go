package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/storage"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/rentals-co/servicios/internal/uuid"
	"gorm.io/gorm"
)

// Invoice is a utility invoice with the address of its photo.
type Invoice struct {
	models.UtilityInvoice
	PhotoURL string `json:"photo_url" example:"https://example.com/files/invoices/1714600000000_factura.pdf"` // Download address of the photo or PDF
}

type InvoiceQueryFilter struct {
	MeterGroupID uuid.UUID   `form:"meterGroup"` // By ID of the meter group
	Period       types.Month `form:"period"`     // By period, YYYY-MM
}

func (co Controller) RegisterInvoiceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsInvoiceList)
		r.GET("", co.GetInvoices)
		r.POST("", co.CreateInvoice)
	}

	// Invoice with ID
	{
		r.OPTIONS("/:id", OptionsInvoiceDetail)
		r.GET("/:id", co.GetInvoice)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Router			/v1/invoices [options]
func OptionsInvoiceList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [options]
func OptionsInvoiceDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.First(&models.UtilityInvoice{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGet(c)
}

// invoices returns a query for invoices including their meter group,
// charges and allocations.
func invoices() *gorm.DB {
	return models.DB.
		Preload("MeterGroup").
		Preload("Charges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Allocations.Unit")
}

// @Summary		Get invoices
// @Description	Returns invoices with their charges and allocations, the most recent period first
// @Tags			Invoices
// @Produce		json
// @Success		200			{object}	Response[[]Invoice]
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			meterGroup	query		string	false	"Filter by meter group ID"
// @Param			period		query		string	false	"Filter by period (YYYY-MM)"
// @Router			/v1/invoices [get]
func (co Controller) GetInvoices(c *gin.Context) {
	var filter InvoiceQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	q := invoices().Order("period DESC").Order("created_at ASC")
	if !filter.MeterGroupID.IsNil() {
		q = q.Where("meter_group_id = ?", filter.MeterGroupID.UUID)
	}

	if !filter.Period.IsZero() {
		q = q.Where("period = ?", filter.Period)
	}

	var found []models.UtilityInvoice
	err = q.Find(&found).Error
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Invoice, 0, len(found))
	for _, invoice := range found {
		data = append(data, co.newInvoice(invoice))
	}

	respond(c, http.StatusOK, data)
}

// @Summary		Get invoice
// @Description	Returns a specific invoice with its charges and allocations
// @Tags			Invoices
// @Produce		json
// @Success		200	{object}	Response[Invoice]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [get]
func (co Controller) GetInvoice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	var invoice models.UtilityInvoice
	err = invoices().First(&invoice, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, co.newInvoice(invoice))
}

// @Summary		Upload invoice
// @Description	Stores an invoice with its charges and a photo or PDF of it.
// @Description	The invoice and its charges are created together or not at all.
// @Tags			Invoices
// @Accept			multipart/form-data
// @Produce		json
// @Success		201				{object}	Response[Invoice]
// @Failure		400				{object}	httpError
// @Failure		409				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			meterGroupId	formData	string	true	"ID of the meter group"
// @Param			period			formData	string	true	"Period (YYYY-MM)"
// @Param			provider		formData	string	true	"Utility company"
// @Param			invoiceRef		formData	string	false	"Reference number printed on the invoice"
// @Param			totalAmount		formData	number	true	"Total amount of the invoice"
// @Param			dueDate			formData	string	false	"Due date (YYYY-MM-DD)"
// @Param			charges			formData	string	true	"JSON array of charges: description, amount, allocation_method, metadata"
// @Param			photo			formData	file	true	"Photo or PDF of the invoice"
// @Router			/v1/invoices [post]
func (co Controller) CreateInvoice(c *gin.Context) {
	invoice, err := invoiceFromForm(c)
	if err != nil {
		fail(c, err)
		return
	}

	charges, err := chargesFromForm(c)
	if err != nil {
		fail(c, err)
		return
	}

	photo, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		fail(c, fmt.Errorf("%w: photo", errFieldsMissing))
		return
	} else if err != nil {
		fail(c, err)
		return
	}

	invoice.PhotoPath, err = storage.Upload(c.Request.Context(), co.Storage, storage.FolderInvoices, photo, co.MaxUploadSize)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&invoice).Error
		if err != nil {
			return err
		}

		for i := range charges {
			charges[i].InvoiceID = invoice.ID
			charges[i].Position = i
		}

		return tx.Create(&charges).Error
	})
	if err != nil {
		fail(c, err)
		return
	}

	invoice.Charges = charges
	respond(c, http.StatusCreated, co.newInvoice(invoice))
}

// invoiceFromForm parses and validates the form fields of an invoice.
func invoiceFromForm(c *gin.Context) (models.UtilityInvoice, error) {
	var missing []string
	for _, field := range []string{"meterGroupId", "period", "provider", "charges"} {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return models.UtilityInvoice{}, fmt.Errorf("%w: %s", errFieldsMissing, strings.Join(missing, ", "))
	}

	meterGroupID, err := httputil.UUIDFromString(strings.TrimSpace(c.PostForm("meterGroupId")))
	if err != nil {
		return models.UtilityInvoice{}, err
	}

	period, err := types.ParseMonth(c.PostForm("period"))
	if err != nil {
		return models.UtilityInvoice{}, err
	}

	total, err := httputil.DecimalFromForm(c, "totalAmount")
	if err != nil {
		return models.UtilityInvoice{}, err
	}

	if total.IsNegative() {
		return models.UtilityInvoice{}, errAmountNegative
	}

	invoice := models.UtilityInvoice{
		MeterGroupID: meterGroupID,
		Period:       period,
		Provider:     c.PostForm("provider"),
		InvoiceRef:   c.PostForm("invoiceRef"),
		TotalAmount:  total,
	}

	if dueDate := strings.TrimSpace(c.PostForm("dueDate")); dueDate != "" {
		d, err := types.ParseDate(dueDate)
		if err != nil {
			return models.UtilityInvoice{}, err
		}
		invoice.DueDate = &d
	}

	return invoice, nil
}

// chargesFromForm decodes the JSON encoded charges of an invoice.
//
// The allocation metadata is only checked when the invoice is calculated.
func chargesFromForm(c *gin.Context) ([]models.InvoiceCharge, error) {
	var editables []models.InvoiceChargeEditable
	err := json.Unmarshal([]byte(c.PostForm("charges")), &editables)
	if err != nil {
		return nil, errChargesInvalid
	}

	if len(editables) == 0 {
		return nil, errChargesMissing
	}

	charges := make([]models.InvoiceCharge, 0, len(editables))
	for _, editable := range editables {
		if strings.TrimSpace(editable.Description) == "" || editable.Method == "" {
			return nil, errChargeIncomplete
		}

		if editable.Amount.IsNegative() {
			return nil, errChargeAmountNegative
		}

		if !editable.Method.Valid() {
			return nil, fmt.Errorf("%w, got %q", models.ErrMethodInvalid, editable.Method)
		}

		charges = append(charges, models.InvoiceCharge{InvoiceChargeEditable: editable})
	}

	return charges, nil
}

func (co Controller) newInvoice(invoice models.UtilityInvoice) Invoice {
	i := Invoice{UtilityInvoice: invoice}
	if invoice.PhotoPath != "" {
		i.PhotoURL = co.Storage.URL(invoice.PhotoPath)
	}

	return i
}
