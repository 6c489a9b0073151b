// Package allocation splits the charges of a utility invoice across the units
// of a meter group.
//
// Everything in this package is pure computation over values that have already
// been loaded and validated, persistence is handled by the calculator package.
package allocation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// percentageTolerance is the allowed deviation of the percentages of a
// PERCENTAGE charge from 100 before a warning is emitted.
var percentageTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Unit is a unit of the meter group with its consumption for the period.
type Unit struct {
	ID          uuid.UUID
	Code        string
	Weight      decimal.Decimal
	Consumption decimal.Decimal
}

// Charge is a line item of an invoice.
type Charge struct {
	Description string
	Amount      decimal.Decimal
	Rule        Rule
}

// Share is the part of the invoice a unit owes.
type Share struct {
	UnitID uuid.UUID
	Amount decimal.Decimal // Sum of the breakdown, rounded to the cent

	// Breakdown maps the charge description to the unrounded amount
	// attributed to the unit. A later charge with the same description
	// replaces the entry of an earlier one.
	Breakdown map[string]decimal.Decimal
}

// Result is the outcome of Allocate.
type Result struct {
	Shares   []Share  // One share per unit, in the order of the units
	Warnings []string // Non-fatal problems with the input
}

type totals struct {
	consumption decimal.Decimal
	weight      decimal.Decimal
}

// Consumption returns current - previous. Meters do not roll backwards, so a
// current reading below the previous one is an error.
func Consumption(current, previous decimal.Decimal) (decimal.Decimal, error) {
	if current.LessThan(previous) {
		return decimal.Zero, fmt.Errorf("%w (%s < %s)", ErrDecreasingReading, current, previous)
	}

	return current.Sub(previous), nil
}

// TotalConsumption sums the consumption of all units.
func TotalConsumption(units []Unit) decimal.Decimal {
	total := decimal.Zero
	for _, u := range units {
		total = total.Add(u.Consumption)
	}

	return total
}

// Allocate distributes every charge across the units.
//
// Charges are processed in the order they are passed in. The first charge that
// cannot be allocated aborts the allocation, no partial result is returned.
func Allocate(units []Unit, charges []Charge) (Result, error) {
	if len(units) == 0 {
		return Result{}, ErrNoUnits
	}

	t := totals{
		consumption: TotalConsumption(units),
		weight:      decimal.Zero,
	}
	for _, u := range units {
		t.weight = t.weight.Add(u.Weight)
	}

	sums := make([]decimal.Decimal, len(units))
	breakdowns := make([]map[string]decimal.Decimal, len(units))
	for i := range units {
		sums[i] = decimal.Zero
		breakdowns[i] = make(map[string]decimal.Decimal)
	}

	var warnings []string
	for _, charge := range charges {
		if charge.Rule == nil {
			return Result{}, fmt.Errorf("%w for charge %q", ErrUnknownMethod, charge.Description)
		}

		amounts, w, err := charge.Rule.split(charge.Amount, units, t)
		if err != nil {
			return Result{}, err
		}

		for _, msg := range w {
			warnings = append(warnings, fmt.Sprintf("%s: %s", charge.Description, msg))
		}

		for i, amount := range amounts {
			// nil entries are units the charge does not touch at all
			if amount == nil {
				continue
			}

			sums[i] = sums[i].Add(*amount)
			breakdowns[i][charge.Description] = *amount
		}
	}

	result := Result{
		Shares:   make([]Share, len(units)),
		Warnings: warnings,
	}
	for i, u := range units {
		result.Shares[i] = Share{
			UnitID:    u.ID,
			Amount:    RoundCents(sums[i]),
			Breakdown: breakdowns[i],
		}
	}

	return result, nil
}

// RoundCents rounds half up to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(decimal.New(5, -1)).Floor().Shift(-2)
}

func equally(amount decimal.Decimal, units []Unit) []*decimal.Decimal {
	share := amount.Div(decimal.NewFromInt(int64(len(units))))

	amounts := make([]*decimal.Decimal, len(units))
	for i := range units {
		amounts[i] = &share
	}

	return amounts
}
