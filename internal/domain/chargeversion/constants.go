package chargeversion

// Scheme identifies the charging regime a draft is built under
type Scheme string

const (
	SchemeALCS Scheme = "alcs"
	SchemeSROC Scheme = "sroc"
)

// IsValid reports whether the scheme is one of the known schemes
func (s Scheme) IsValid() bool {
	return s == SchemeALCS || s == SchemeSROC
}

// Status is the lifecycle status of a draft charge version
type Status string

const (
	StatusDraft            Status = "draft"
	StatusReview           Status = "review"
	StatusChangesRequested Status = "changes_requested"
	StatusCurrent          Status = "current"
)

// ElementStatus marks charge elements that are still being built
type ElementStatus string

const (
	ElementStatusDraft ElementStatus = "draft"
)

// Season labels
const (
	SeasonSummer  = "summer"
	SeasonWinter  = "winter"
	SeasonAllYear = "all year"
)

// Loss factors
const (
	LossHigh          = "high"
	LossMedium        = "medium"
	LossLow           = "low"
	LossVeryLow       = "very low"
	LossNonChargeable = "non-chargeable"
)

// Sources
const (
	SourceUnsupported = "unsupported"
	SourceSupported   = "supported"
	SourceKielder     = "kielder"
	SourceTidal       = "tidal"
	SourceNonTidal    = "non-tidal"

	// EiucSourceOther is the EIUC classification of every non-tidal source
	EiucSourceOther = "other"
)
