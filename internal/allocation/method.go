package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Method is the rule used to distribute the amount of one charge across the
// units of a meter group.
type Method string

const (
	ProportionalConsumptionMethod Method = "PROPORTIONAL_CONSUMPTION"
	EqualSplitMethod              Method = "EQUAL_SPLIT"
	FixedAmountMethod             Method = "FIXED_AMOUNT"
	PercentageMethod              Method = "PERCENTAGE"
)

// Valid reports if m is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case ProportionalConsumptionMethod, EqualSplitMethod, FixedAmountMethod, PercentageMethod:
		return true
	}

	return false
}

// Metadata is the method specific configuration stored with a charge.
type Metadata struct {
	TargetUnitCode string                     `json:"targetUnitCode,omitempty" example:"LOCAL_3"`   // Unit receiving a FIXED_AMOUNT charge
	Percentages    map[string]decimal.Decimal `json:"percentages,omitempty" swaggertype:"object"` // Unit code to percentage (0-100) for PERCENTAGE charges
}

// Rule distributes the amount of a single charge. The set of rules is closed,
// RuleFor is the only way to obtain one from persisted data.
type Rule interface {
	Method() Method
	split(amount decimal.Decimal, units []Unit, t totals) ([]*decimal.Decimal, []string, error)
}

// ProportionalConsumption splits by each unit's share of the metered consumption.
type ProportionalConsumption struct{}

// EqualSplit splits by unit weight, or evenly if no unit has a weight.
type EqualSplit struct{}

// FixedAmount assigns the whole amount to a single unit.
type FixedAmount struct {
	TargetUnitCode string
}

// Percentage assigns a fixed percentage of the amount to each unit.
type Percentage struct {
	Percentages map[string]decimal.Decimal
}

func (ProportionalConsumption) Method() Method { return ProportionalConsumptionMethod }
func (EqualSplit) Method() Method              { return EqualSplitMethod }
func (FixedAmount) Method() Method             { return FixedAmountMethod }
func (Percentage) Method() Method              { return PercentageMethod }

// RuleFor returns the rule for a method and its metadata.
func RuleFor(method Method, metadata Metadata) (Rule, error) {
	switch method {
	case ProportionalConsumptionMethod:
		return ProportionalConsumption{}, nil
	case EqualSplitMethod:
		return EqualSplit{}, nil
	case FixedAmountMethod:
		return FixedAmount{TargetUnitCode: metadata.TargetUnitCode}, nil
	case PercentageMethod:
		if metadata.Percentages == nil {
			return nil, ErrPercentagesMissing
		}
		return Percentage{Percentages: metadata.Percentages}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}
