package navigation

import (
	"net/url"
	"path"

	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

// Query parameter names
const (
	ParamWorkflowID        = "chargeVersionWorkflowId"
	ParamReturnToCheckData = "returnToCheckData"
	ParamCategoryID        = "categoryId"
)

// BaseURL returns the root of a licence's charge information pages
func BaseURL(licenceID string) string {
	return path.Join("/licences", url.PathEscape(licenceID), "charge-information")
}

// CheckURL returns the check answers page, or the reviewer page when the
// draft is awaiting review
func CheckURL(req Request) string {
	if req.Draft.Status == chargeversion.StatusReview && req.WorkflowID != "" {
		return ReviewURL(req.LicenceID, req.WorkflowID)
	}
	return withQuery(path.Join(BaseURL(req.LicenceID), "check"), req.workflowQuery())
}

// ReviewURL returns the reviewer page of a pending workflow
func ReviewURL(licenceID, workflowID string) string {
	return path.Join(BaseURL(licenceID), url.PathEscape(workflowID), "review")
}

// StepURL returns the page of a step within a flow
func StepURL(flow Flow, step StepID, req Request) string {
	base := BaseURL(req.LicenceID)
	q := req.workflowQuery()

	var p string
	switch flow {
	case FlowChargeElement:
		p = path.Join(base, "charge-element", url.PathEscape(req.ElementID), string(step))
	case FlowChargeCategory:
		p = path.Join(base, "charge-category", url.PathEscape(req.ElementID), string(step))
	case FlowChargePurpose:
		p = path.Join(base, "charge-element", url.PathEscape(req.ElementID), string(step))
		q.Set(ParamCategoryID, req.CategoryID)
	default:
		p = path.Join(base, string(step))
	}

	return withQuery(p, q)
}

func (r Request) workflowQuery() url.Values {
	q := url.Values{}
	if r.WorkflowID != "" {
		q.Set(ParamWorkflowID, r.WorkflowID)
	}
	return q
}

func withQuery(p string, q url.Values) string {
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}
