package models

import (
	"strings"

	"gorm.io/gorm"
)

// Unit is a billable tenant space, e.g. a shop or an apartment.
type Unit struct {
	DefaultModel
	UnitEditable
}

type UnitEditable struct {
	Code        string `json:"code" gorm:"uniqueIndex" example:"LOCAL_1A"`      // Unique code of the unit
	Name        string `json:"name" example:"Local 1A"`                         // Display name
	Description string `json:"description" example:"Ground floor, street side"` // Free text description
}

// Known unit codes. Other codes are accepted, these are the ones the
// property currently has.
const (
	UnitLocal1A = "LOCAL_1A"
	UnitLocal1B = "LOCAL_1B"
	UnitLocal3  = "LOCAL_3"
	UnitCommon  = "COMMON"
)

func (u *Unit) BeforeSave(_ *gorm.DB) error {
	u.Code = strings.TrimSpace(u.Code)
	u.Name = strings.TrimSpace(u.Name)
	u.Description = strings.TrimSpace(u.Description)

	if u.Code == "" {
		return ErrUnitCodeEmpty
	}

	return nil
}
