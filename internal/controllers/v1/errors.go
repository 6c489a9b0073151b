package v1

import "errors"

var (
	errInvoiceIDMissing = errors.New("invoiceId is required")
	errFieldsMissing    = errors.New("required fields are missing")
	errAmountNegative   = errors.New("the total amount must not be negative")
)

// Charge errors
var (
	errChargesMissing       = errors.New("an invoice needs at least one charge")
	errChargesInvalid       = errors.New("the charges are not valid JSON")
	errChargeAmountNegative = errors.New("the amount of a charge must not be negative")
	errChargeIncomplete     = errors.New("every charge needs a description, an amount and an allocation method")
)
