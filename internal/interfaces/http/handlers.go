package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/charge-information/internal/application/mapper"
	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/application/workflow"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/draft"
	domainwf "github.com/garyjia/charge-information/internal/domain/workflow"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence"
	"github.com/garyjia/charge-information/internal/interfaces/export"
)

// HeaderUser carries the signed-in user's email, set by the fronting proxy
const HeaderUser = "X-User"

// Review actions
const (
	ReviewApprove        = "approve"
	ReviewRequestChanges = "request_changes"
)

// Exporter renders check answers into a downloadable workbook
type Exporter interface {
	Export(ctx context.Context, check *service.CheckAnswers) (string, []byte, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	chargeInformation service.ChargeInformationService
	exporter          Exporter
	logger            Logger
	health            HealthFunc
}

// NewHandlers creates a new Handlers instance
func NewHandlers(chargeInformation service.ChargeInformationService, exporter Exporter, logger Logger) *Handlers {
	return &Handlers{
		chargeInformation: chargeInformation,
		exporter:          exporter,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
	Components any    `json:"components,omitempty"`
}

// RedirectResponse tells the client which page to continue at
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// HealthCheck handles GET /health. An unhealthy check answers 503.
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	healthy := true
	if h.health != nil {
		healthy, resp.Components = h.health()
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, Response{Success: healthy, Data: resp})
}

// Start handles POST /licences/:licenceId/charge-information/start
func (h *Handlers) Start(c *gin.Context) {
	next, err := h.chargeInformation.Start(c.Request.Context(), c.Param("licenceId"), workflowID(c))
	if err != nil {
		h.fail(c, "Failed to start charge information", err)
		return
	}
	redirect(c, next)
}

// GetStep handles GET of a charge information or note page
func (h *Handlers) GetStep(c *gin.Context) {
	h.getStep(c, topLevelFlow(c.Param("step")), "", "")
}

// SubmitStep handles POST of a charge information or note page
func (h *Handlers) SubmitStep(c *gin.Context) {
	h.submitStep(c, topLevelFlow(c.Param("step")), "", "")
}

// GetElementStep handles GET of an alcs element page, or of a purpose page when categoryId is set
func (h *Handlers) GetElementStep(c *gin.Context) {
	flow, categoryID := elementFlow(c)
	h.getStep(c, flow, c.Param("elementId"), categoryID)
}

// SubmitElementStep handles POST of an alcs element or sroc purpose page
func (h *Handlers) SubmitElementStep(c *gin.Context) {
	flow, categoryID := elementFlow(c)
	h.submitStep(c, flow, c.Param("elementId"), categoryID)
}

// GetCategoryStep handles GET of an sroc category page
func (h *Handlers) GetCategoryStep(c *gin.Context) {
	h.getStep(c, navigation.FlowChargeCategory, c.Param("elementId"), "")
}

// SubmitCategoryStep handles POST of an sroc category page
func (h *Handlers) SubmitCategoryStep(c *gin.Context) {
	h.submitStep(c, navigation.FlowChargeCategory, c.Param("elementId"), "")
}

func (h *Handlers) getStep(c *gin.Context, flow navigation.Flow, elementID, categoryID string) {
	view, err := h.chargeInformation.GetStep(c.Request.Context(), h.stepRequest(c, flow, elementID, categoryID, nil))
	if err != nil {
		h.fail(c, "Failed to load step", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

func (h *Handlers) submitStep(c *gin.Context, flow navigation.Flow, elementID, categoryID string) {
	if err := c.Request.ParseForm(); err != nil {
		h.fail(c, "Invalid form body", errors.Join(mapper.ErrInvalidInput, err))
		return
	}

	req := h.stepRequest(c, flow, elementID, categoryID, c.Request.PostForm)
	result, err := h.chargeInformation.SubmitStep(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "Failed to submit step", err)
		return
	}
	redirect(c, result.Redirect)
}

func (h *Handlers) stepRequest(c *gin.Context, flow navigation.Flow, elementID, categoryID string, input url.Values) service.StepRequest {
	returnToCheck, _ := strconv.ParseBool(c.Query(navigation.ParamReturnToCheckData))
	return service.StepRequest{
		LicenceID:         c.Param("licenceId"),
		WorkflowID:        workflowID(c),
		Flow:              flow,
		Step:              navigation.StepID(c.Param("step")),
		ElementID:         elementID,
		CategoryID:        categoryID,
		ReturnToCheckData: returnToCheck,
		Input:             input,
		User:              user(c),
	}
}

// CreateElement handles POST /licences/:licenceId/charge-information/charge-element
func (h *Handlers) CreateElement(c *gin.Context) {
	next, err := h.chargeInformation.CreateElement(c.Request.Context(), c.Param("licenceId"), workflowID(c))
	if err != nil {
		h.fail(c, "Failed to create charge element", err)
		return
	}
	redirect(c, next)
}

// CreatePurpose handles POST /licences/:licenceId/charge-information/charge-category/:elementId/purposes
func (h *Handlers) CreatePurpose(c *gin.Context) {
	next, err := h.chargeInformation.CreatePurpose(c.Request.Context(), c.Param("licenceId"), workflowID(c), c.Param("elementId"))
	if err != nil {
		h.fail(c, "Failed to create charge purpose", err)
		return
	}
	redirect(c, next)
}

// RemoveElement handles DELETE /licences/:licenceId/charge-information/charge-element/:elementId
func (h *Handlers) RemoveElement(c *gin.Context) {
	licenceID := c.Param("licenceId")
	wfID := workflowID(c)
	if err := h.chargeInformation.RemoveElement(c.Request.Context(), licenceID, wfID, c.Param("elementId")); err != nil {
		h.fail(c, "Failed to remove charge element", err)
		return
	}
	redirect(c, navigation.CheckURL(navigation.Request{LicenceID: licenceID, WorkflowID: wfID}))
}

// CheckAnswers handles GET /licences/:licenceId/charge-information/check
func (h *Handlers) CheckAnswers(c *gin.Context) {
	check, err := h.chargeInformation.CheckAnswers(c.Request.Context(), c.Param("licenceId"), workflowID(c))
	if err != nil {
		h.fail(c, "Failed to load check answers", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: check})
}

// ExportCheckAnswers handles GET /licences/:licenceId/charge-information/check/export
func (h *Handlers) ExportCheckAnswers(c *gin.Context) {
	ctx := c.Request.Context()
	check, err := h.chargeInformation.CheckAnswers(ctx, c.Param("licenceId"), workflowID(c))
	if err != nil {
		h.fail(c, "Failed to load check answers", err)
		return
	}

	p, content, err := h.exporter.Export(ctx, check)
	if err != nil {
		h.fail(c, "Failed to export check answers", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+path.Base(p)+`"`)
	c.Data(http.StatusOK, export.ContentType, content)
}

// Submit handles POST /licences/:licenceId/charge-information/submit
func (h *Handlers) Submit(c *gin.Context) {
	next, err := h.chargeInformation.Submit(c.Request.Context(), c.Param("licenceId"), workflowID(c), user(c))
	if err != nil {
		h.fail(c, "Failed to submit charge information", err)
		return
	}
	redirect(c, next)
}

// Cancel handles POST /licences/:licenceId/charge-information/cancel
func (h *Handlers) Cancel(c *gin.Context) {
	next, err := h.chargeInformation.Cancel(c.Request.Context(), c.Param("licenceId"), workflowID(c), user(c))
	if err != nil {
		h.fail(c, "Failed to cancel charge information", err)
		return
	}
	redirect(c, next)
}

// Review handles GET /licences/:licenceId/charge-information/:workflowId/review
func (h *Handlers) Review(c *gin.Context) {
	check, err := h.chargeInformation.CheckAnswers(c.Request.Context(), c.Param("licenceId"), c.Param("step"))
	if err != nil {
		h.fail(c, "Failed to load review", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: check})
}

// SubmitReview handles POST /licences/:licenceId/charge-information/:workflowId/review.
// The form's action field selects approval or a request for changes.
func (h *Handlers) SubmitReview(c *gin.Context) {
	ctx := c.Request.Context()
	licenceID := c.Param("licenceId")
	wfID := c.Param("step")

	switch action := c.PostForm("action"); action {
	case ReviewApprove:
		if _, err := h.chargeInformation.Approve(ctx, wfID, user(c)); err != nil {
			h.fail(c, "Failed to approve charge information", err)
			return
		}
		redirect(c, "/licences/"+url.PathEscape(licenceID))

	case ReviewRequestChanges:
		if err := h.chargeInformation.RequestChanges(ctx, wfID, user(c), c.PostForm("reviewerComments")); err != nil {
			h.fail(c, "Failed to request changes", err)
			return
		}
		redirect(c, "/licences/"+url.PathEscape(licenceID))

	default:
		h.fail(c, "Unknown review action", errors.Join(mapper.ErrInvalidInput, errors.New("action "+strconv.Quote(action))))
	}
}

// fail logs the error and responds with the status its kind maps to
func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	h.logger.Error(msg, "path", c.Request.URL.Path, "status", status, "error", err)

	text := err.Error()
	if status == http.StatusInternalServerError {
		text = "internal error"
	}
	c.JSON(status, Response{Success: false, Error: text})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, port.ErrNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, chargeversion.ErrElementNotFound),
		errors.Is(err, chargeversion.ErrPurposeNotFound),
		errors.Is(err, navigation.ErrUnknownStep),
		errors.Is(err, navigation.ErrUnknownFlow):
		return http.StatusNotFound

	case errors.Is(err, mapper.ErrInvalidInput),
		errors.Is(err, chargeversion.ErrInvalidFragment),
		errors.Is(err, navigation.ErrMissingElement),
		errors.Is(err, navigation.ErrMissingCategory):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrNotEditable),
		errors.Is(err, workflow.ErrNoDraft),
		errors.Is(err, workflow.ErrNotCancellable),
		errors.Is(err, domainwf.ErrInvalidTransition),
		errors.Is(err, domainwf.ErrGuardFailed),
		errors.Is(err, draft.ErrSchemeMismatch),
		errors.Is(err, draft.ErrSchemeUndetermined),
		errors.Is(err, persistence.ErrChargeVersionExists),
		errors.Is(err, persistence.ErrIncompleteDraft):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

func redirect(c *gin.Context, next string) {
	c.JSON(http.StatusOK, Response{Success: true, Data: RedirectResponse{Redirect: next}})
}

func topLevelFlow(step string) navigation.Flow {
	if navigation.StepID(step) == navigation.StepNote {
		return navigation.FlowNote
	}
	return navigation.FlowChargeInformation
}

func elementFlow(c *gin.Context) (navigation.Flow, string) {
	if categoryID := c.Query(navigation.ParamCategoryID); categoryID != "" {
		return navigation.FlowChargePurpose, categoryID
	}
	return navigation.FlowChargeElement, ""
}

func workflowID(c *gin.Context) string {
	return c.Query(navigation.ParamWorkflowID)
}

func user(c *gin.Context) string {
	if u := c.GetHeader(HeaderUser); u != "" {
		return u
	}
	return "anonymous"
}
