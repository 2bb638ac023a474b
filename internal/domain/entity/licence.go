package entity

import "github.com/garyjia/charge-information/internal/domain/chargeversion"

// Licence is the subset of an abstraction licence the charge information flow needs
type Licence struct {
	ID         string              `json:"id" yaml:"id"`
	LicenceRef string              `json:"licence_ref" yaml:"licence_ref"`
	RegionCode int                 `json:"region_code" yaml:"region_code"`
	StartDate  chargeversion.Date  `json:"start_date" yaml:"-"`
	EndDate    *chargeversion.Date `json:"end_date,omitempty" yaml:"-"`
}
