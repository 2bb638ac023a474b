package port

import (
	"context"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/entity"
)

// WorkflowService is the persistence service behind the approval workflow
type WorkflowService interface {
	CreateWorkflow(ctx context.Context, licenceID string, draft chargeversion.Draft, createdBy string) (*entity.ChargeVersionWorkflow, error)
	GetWorkflow(ctx context.Context, id string) (*entity.ChargeVersionWorkflow, error)
	PatchWorkflow(ctx context.Context, id string, patch entity.WorkflowPatch) error
	DeleteWorkflow(ctx context.Context, id string) error
	CreateChargeVersionFromWorkflow(ctx context.Context, id string) (*entity.ChargeVersion, error)
}

// CategoryQuery holds the answers an sroc charge category reference is chosen by
type CategoryQuery struct {
	Source            string
	Loss              string
	WaterAvailability string
	WaterModel        string
	Volume            float64
}

// SupportedSource is a named supported source an sroc category may draw from
type SupportedSource struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PurposeOption is a primary, secondary and use purpose combination a licence may be charged for
type PurposeOption struct {
	Primary   *chargeversion.Purpose   `json:"primary,omitempty" yaml:"primary"`
	Secondary *chargeversion.Purpose   `json:"secondary,omitempty" yaml:"secondary"`
	Use       chargeversion.PurposeUse `json:"use" yaml:"use"`
}

// ReferenceData serves the lookup lists the step mappers resolve ids against
type ReferenceData interface {
	ChangeReasons(ctx context.Context, reasonType string) ([]chargeversion.ChangeReason, error)
	Purposes(ctx context.Context) ([]PurposeOption, error)
	SupportedSources(ctx context.Context) ([]SupportedSource, error)
	ChargeCategory(ctx context.Context, q CategoryQuery) (*chargeversion.ChargeCategoryRef, error)
}

// LicenceService serves licence records and the data derived from them
type LicenceService interface {
	GetLicence(ctx context.Context, licenceID string) (*entity.Licence, error)
	DefaultChargeFacts(ctx context.Context, licenceID string) ([]chargeversion.ChargePurpose, error)
	BillingAccounts(ctx context.Context, licenceID string) ([]chargeversion.BillingAccount, error)
}

// FileStorage defines file storage operations
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	GetFullPath(relativePath string) string
}
