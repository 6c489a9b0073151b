package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func (ProportionalConsumption) split(amount decimal.Decimal, units []Unit, t totals) ([]*decimal.Decimal, []string, error) {
	// Without any consumption there is nothing to be proportional to
	if t.consumption.IsZero() {
		return equally(amount, units), nil, nil
	}

	amounts := make([]*decimal.Decimal, len(units))
	for i, u := range units {
		share := amount.Mul(u.Consumption).Div(t.consumption)
		amounts[i] = &share
	}

	return amounts, nil, nil
}

func (EqualSplit) split(amount decimal.Decimal, units []Unit, t totals) ([]*decimal.Decimal, []string, error) {
	if !t.weight.IsPositive() {
		return equally(amount, units), nil, nil
	}

	amounts := make([]*decimal.Decimal, len(units))
	for i, u := range units {
		share := amount.Mul(u.Weight).Div(t.weight)
		amounts[i] = &share
	}

	return amounts, nil, nil
}

func (r FixedAmount) split(amount decimal.Decimal, units []Unit, _ totals) ([]*decimal.Decimal, []string, error) {
	amounts := make([]*decimal.Decimal, len(units))
	for i, u := range units {
		if u.Code == r.TargetUnitCode {
			amounts[i] = &amount
			return amounts, nil, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: %s", ErrTargetUnitNotFound, r.TargetUnitCode)
}

func (r Percentage) split(amount decimal.Decimal, units []Unit, _ totals) ([]*decimal.Decimal, []string, error) {
	if r.Percentages == nil {
		return nil, nil, ErrPercentagesMissing
	}

	sum := decimal.Zero
	amounts := make([]*decimal.Decimal, len(units))
	for i, u := range units {
		// Units without a percentage receive nothing
		pct := r.Percentages[u.Code]
		sum = sum.Add(pct)

		share := amount.Mul(pct).Div(hundred)
		amounts[i] = &share
	}

	var warnings []string
	if sum.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		warnings = append(warnings, fmt.Sprintf("percentages sum up to %s%% instead of 100%%", sum))
	}

	return amounts, warnings, nil
}
