// Package calculator splits utility invoices across the units of their meter
// group and stores the resulting allocations.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/allocation"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Consumption is the consumption of a unit during the invoice period.
type Consumption struct {
	UnitID      uuid.UUID       `json:"unit_id" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`
	Consumption decimal.Decimal `json:"consumption" example:"12.5"`
}

// Result is the outcome of a calculation.
type Result struct {
	Allocations      []models.InvoiceAllocation `json:"allocations"`
	Consumptions     []Consumption              `json:"consumptions"`
	TotalConsumption decimal.Decimal            `json:"totalConsumption" example:"40"`
	Warnings         []string                   `json:"-"` // Non-fatal problems, already logged
}

// Service calculates invoice allocations.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Calculate allocates all charges of an invoice to the units of its meter
// group and saves the allocations, replacing existing ones.
//
// Every check runs before the allocations are written. If any of them fails,
// nothing is written.
func (s *Service) Calculate(ctx context.Context, invoiceID uuid.UUID) (result Result, err error) {
	defer func() {
		calculations.WithLabelValues(outcome(err)).Inc()
	}()

	invoice, err := s.store.Invoice(ctx, invoiceID)
	if errors.Is(err, models.ErrResourceNotFound) {
		return Result{}, notFound("invoice not found")
	} else if err != nil {
		return Result{}, err
	}

	groupUnits, err := s.store.GroupUnits(ctx, invoice.MeterGroupID)
	if err != nil {
		return Result{}, err
	}

	if len(groupUnits) == 0 {
		return Result{}, notFound("no units found for the meter group of this invoice")
	}

	units, err := s.units(ctx, invoice, groupUnits)
	if err != nil {
		return Result{}, err
	}

	charges, err := s.store.Charges(ctx, invoice.ID)
	if err != nil {
		return Result{}, err
	}

	if len(charges) == 0 {
		return Result{}, notFound("no charges found for this invoice")
	}

	allocated, err := allocate(units, charges)
	if err != nil {
		return Result{}, err
	}

	for _, w := range allocated.Warnings {
		log.Warn().Str("invoice", invoice.ID.String()).Msg(w)
	}

	rows := make([]models.InvoiceAllocation, len(allocated.Shares))
	for i, share := range allocated.Shares {
		rows[i] = models.InvoiceAllocation{
			InvoiceID: invoice.ID,
			UnitID:    share.UnitID,
			Amount:    share.Amount,
			Breakdown: datatypes.NewJSONType(share.Breakdown),
		}
	}

	saved, err := s.store.SaveAllocations(ctx, rows)
	if err != nil {
		return Result{}, err
	}

	consumptions := make([]Consumption, len(units))
	for i, u := range units {
		consumptions[i] = Consumption{UnitID: u.ID, Consumption: u.Consumption}
	}

	return Result{
		Allocations:      saved,
		Consumptions:     consumptions,
		TotalConsumption: allocation.TotalConsumption(units),
		Warnings:         allocated.Warnings,
	}, nil
}

// units loads the current and previous reading for every unit and returns
// the units with their consumption.
func (s *Service) units(ctx context.Context, invoice models.UtilityInvoice, groupUnits []models.MeterGroupUnit) ([]allocation.Unit, error) {
	type readings struct {
		current, previous decimal.Decimal
	}

	values := make([]readings, len(groupUnits))
	var missing []string

	for i, gu := range groupUnits {
		code := unitCode(gu)

		current, ok, err := s.store.Reading(ctx, invoice.MeterGroupID, gu.UnitID, invoice.Period)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, fmt.Sprintf("%s (current)", code))
		}

		previous, ok, err := s.store.Reading(ctx, invoice.MeterGroupID, gu.UnitID, invoice.Period.Previous())
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, fmt.Sprintf("%s (previous)", code))
		}

		values[i] = readings{current: current, previous: previous}
	}

	if len(missing) > 0 {
		return nil, invalid("missing readings", fmt.Sprintf("the following readings are missing: %s", strings.Join(missing, ", ")))
	}

	units := make([]allocation.Unit, len(groupUnits))
	for i, gu := range groupUnits {
		consumption, err := allocation.Consumption(values[i].current, values[i].previous)
		if err != nil {
			return nil, invalid(
				"reading lower than the previous one",
				fmt.Sprintf("the current reading of %s (%s) is lower than the previous one (%s)", unitCode(gu), values[i].current, values[i].previous),
			)
		}

		units[i] = allocation.Unit{
			ID:          gu.UnitID,
			Code:        unitCode(gu),
			Weight:      gu.Weight,
			Consumption: consumption,
		}
	}

	return units, nil
}

// allocate resolves the rules of the charges and runs the allocation.
func allocate(units []allocation.Unit, charges []models.InvoiceCharge) (allocation.Result, error) {
	input := make([]allocation.Charge, len(charges))
	for i, c := range charges {
		rule, err := c.Rule()
		if err != nil {
			return allocation.Result{}, invalid(err.Error(), fmt.Sprintf("charge %q", c.Description))
		}

		input[i] = allocation.Charge{
			Description: c.Description,
			Amount:      c.Amount,
			Rule:        rule,
		}
	}

	result, err := allocation.Allocate(units, input)
	if err != nil {
		return allocation.Result{}, invalid(err.Error(), "")
	}

	return result, nil
}

func unitCode(gu models.MeterGroupUnit) string {
	if gu.Unit == nil {
		return gu.UnitID.String()
	}

	return gu.Unit.Code
}
