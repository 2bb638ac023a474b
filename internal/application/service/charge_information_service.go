package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/charge-information/internal/application/mapper"
	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/validation"
	"github.com/garyjia/charge-information/internal/application/workflow"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
	"github.com/garyjia/charge-information/internal/domain/draft"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/observability/metrics"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DefaultChangeReasonType is the change reason type offered for a new chargeable charge version
const DefaultChangeReasonType = "new_chargeable_charge_version"

// StepRequest identifies a page of a flow and carries its posted input
type StepRequest struct {
	LicenceID         string
	WorkflowID        string
	Flow              navigation.Flow
	Step              navigation.StepID
	ElementID         string
	CategoryID        string
	ReturnToCheckData bool
	Input             url.Values
	User              string
}

func (r StepRequest) key() port.Key {
	return port.Key{LicenceID: r.LicenceID, WorkflowID: r.WorkflowID}
}

func (r StepRequest) navigation(d chargeversion.Draft) navigation.Request {
	return navigation.Request{
		LicenceID:         r.LicenceID,
		WorkflowID:        r.WorkflowID,
		ElementID:         r.ElementID,
		CategoryID:        r.CategoryID,
		ReturnToCheckData: r.ReturnToCheckData,
		Draft:             d,
	}
}

// StepView is what a page needs to render
type StepView struct {
	Title     string              `json:"title"`
	BackLink  string              `json:"backLink"`
	Draft     chargeversion.Draft `json:"draft"`
	Reference mapper.Reference    `json:"reference"`
}

// StepResult is the outcome of a submitted step
type StepResult struct {
	Redirect string              `json:"redirect"`
	Draft    chargeversion.Draft `json:"draft"`
}

// CheckAnswers is the summary of a draft shown before submission or approval
type CheckAnswers struct {
	Licence      *entity.Licence              `json:"licence"`
	Draft        chargeversion.Draft          `json:"draft"`
	Warnings     []validation.ElementWarnings `json:"warnings"`
	WarningCount int                          `json:"warningCount"`
	IsEditable   bool                         `json:"isEditable"`
	IsApprover   bool                         `json:"isApprover"`
}

// ChargeInformationService runs the charge information flow
type ChargeInformationService interface {
	// Start prepares the draft and returns the URL to begin at. Without a workflow id
	// the draft is cleared; with one the workflow's charge version is loaded for editing.
	Start(ctx context.Context, licenceID, workflowID string) (string, error)
	GetStep(ctx context.Context, req StepRequest) (*StepView, error)
	SubmitStep(ctx context.Context, req StepRequest) (*StepResult, error)
	// CreateElement adds an element (alcs) or category (sroc) and returns its first step URL
	CreateElement(ctx context.Context, licenceID, workflowID string) (string, error)
	// CreatePurpose adds a purpose to an sroc category and returns its first step URL
	CreatePurpose(ctx context.Context, licenceID, workflowID, categoryID string) (string, error)
	RemoveElement(ctx context.Context, licenceID, workflowID, elementID string) error
	CheckAnswers(ctx context.Context, licenceID, workflowID string) (*CheckAnswers, error)

	Submit(ctx context.Context, licenceID, workflowID, user string) (string, error)
	Approve(ctx context.Context, workflowID, user string) (*entity.ChargeVersion, error)
	RequestChanges(ctx context.Context, workflowID, user, comments string) error
	Cancel(ctx context.Context, licenceID, workflowID, user string) (string, error)
}

type chargeInformationServiceImpl struct {
	drafts     port.DraftRepository
	reference  port.ReferenceData
	licences   port.LicenceService
	workflows  port.WorkflowService
	engine     workflow.Engine
	validator  *validation.Validator
	logger     Logger
	cutover    chargeversion.Date
	reasonType string
	today      func() chargeversion.Date
	newID      func() string
}

// ServiceOption configures the charge information service
type ServiceOption func(*chargeInformationServiceImpl)

// WithCutover overrides the date charges move to the sroc scheme
func WithCutover(d chargeversion.Date) ServiceOption {
	return func(s *chargeInformationServiceImpl) {
		s.cutover = d
	}
}

// WithChangeReasonType sets the type of change reasons offered
func WithChangeReasonType(t string) ServiceOption {
	return func(s *chargeInformationServiceImpl) {
		s.reasonType = t
	}
}

// WithToday sets the source of the current date
func WithToday(today func() chargeversion.Date) ServiceOption {
	return func(s *chargeInformationServiceImpl) {
		s.today = today
	}
}

// WithIDGenerator sets the generator of element, category and purpose ids
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *chargeInformationServiceImpl) {
		s.newID = newID
	}
}

// WithValidator replaces the check answers validator
func WithValidator(v *validation.Validator) ServiceOption {
	return func(s *chargeInformationServiceImpl) {
		s.validator = v
	}
}

// NewChargeInformationService creates a new ChargeInformationService
func NewChargeInformationService(
	drafts port.DraftRepository,
	reference port.ReferenceData,
	licences port.LicenceService,
	workflows port.WorkflowService,
	engine workflow.Engine,
	logger Logger,
	opts ...ServiceOption,
) ChargeInformationService {
	s := &chargeInformationServiceImpl{
		drafts:     drafts,
		reference:  reference,
		licences:   licences,
		workflows:  workflows,
		engine:     engine,
		validator:  validation.New(),
		logger:     logger,
		cutover:    chargeversion.SrocCutover,
		reasonType: DefaultChangeReasonType,
		today:      chargeversion.Today,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *chargeInformationServiceImpl) Start(ctx context.Context, licenceID, workflowID string) (string, error) {
	if _, err := s.licences.GetLicence(ctx, licenceID); err != nil {
		return "", fmt.Errorf("failed to get licence: %w", err)
	}

	key := port.Key{LicenceID: licenceID, WorkflowID: workflowID}

	if workflowID == "" {
		cleared, err := draft.Reduce(chargeversion.Draft{}, draft.ClearData{})
		if err != nil {
			return "", err
		}
		cleared.LicenceID = licenceID
		if err := s.drafts.Set(ctx, key, &cleared); err != nil {
			return "", fmt.Errorf("failed to store draft: %w", err)
		}

		s.logger.Info("Charge information started", "licence_id", licenceID)
		g, err := navigation.For(navigation.FlowChargeInformation)
		if err != nil {
			return "", err
		}
		return g.StartURL(navigation.Request{LicenceID: licenceID}), nil
	}

	wf, err := s.workflows.GetWorkflow(ctx, workflowID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch workflow: %w", err)
	}
	if wf.LicenceID != licenceID {
		return "", fmt.Errorf("workflow %s: %w", workflowID, port.ErrNotFound)
	}
	if wf.Status == chargeversion.StatusCurrent {
		return "", fmt.Errorf("%w: workflow %s", ErrNotEditable, workflowID)
	}

	existing, err := s.drafts.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to load draft: %w", err)
	}
	if existing == nil {
		loaded := wf.ChargeVersion.Clone()
		loaded.LicenceID = licenceID
		loaded.WorkflowID = workflowID
		loaded.Status = wf.Status
		loaded.ApproverComments = wf.ApproverComments
		if err := s.drafts.Set(ctx, key, &loaded); err != nil {
			return "", fmt.Errorf("failed to store draft: %w", err)
		}
		existing = &loaded
	}

	return navigation.CheckURL(navigation.Request{LicenceID: licenceID, WorkflowID: workflowID, Draft: *existing}), nil
}

func (s *chargeInformationServiceImpl) GetStep(ctx context.Context, req StepRequest) (*StepView, error) {
	current, err := s.load(ctx, req.key())
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, req.key())
	}

	g, err := navigation.For(req.Flow)
	if err != nil {
		return nil, err
	}

	title, err := g.Title(req.Step)
	if err != nil {
		return nil, err
	}
	back, err := g.BackLink(req.Step, req.navigation(*current))
	if err != nil {
		return nil, err
	}
	ref, err := s.referenceFor(ctx, req.LicenceID, req.Flow, req.Step)
	if err != nil {
		return nil, err
	}

	return &StepView{Title: title, BackLink: back, Draft: *current, Reference: ref}, nil
}

func (s *chargeInformationServiceImpl) SubmitStep(ctx context.Context, req StepRequest) (result *StepResult, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveStep(string(req.Flow), string(req.Step), err, time.Since(start))
	}()

	g, err := navigation.For(req.Flow)
	if err != nil {
		return nil, err
	}
	if !g.Has(req.Step) {
		return nil, fmt.Errorf("%w: %s/%s", navigation.ErrUnknownStep, req.Flow, req.Step)
	}

	current, err := s.load(ctx, req.key())
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &chargeversion.Draft{LicenceID: req.LicenceID, WorkflowID: req.WorkflowID}
	}
	if current.Status == chargeversion.StatusCurrent {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, req.key())
	}

	ref, err := s.referenceFor(ctx, req.LicenceID, req.Flow, req.Step)
	if err != nil {
		return nil, err
	}

	next, redirect, err := s.apply(ctx, req, *current, ref)
	if err != nil {
		s.logger.Error("Step submission failed",
			"licence_id", req.LicenceID,
			"flow", req.Flow,
			"step", req.Step,
			"error", err)
		return nil, err
	}

	if redirect == "" {
		if redirect, err = g.RedirectPath(req.Step, req.navigation(next)); err != nil {
			return nil, err
		}
	}

	if err := s.drafts.Set(ctx, req.key(), &next); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	return &StepResult{Redirect: redirect, Draft: next}, nil
}

// apply maps the input of a step and reduces it into the draft. A non-empty
// redirect overrides the graph's next step.
func (s *chargeInformationServiceImpl) apply(ctx context.Context, req StepRequest, current chargeversion.Draft, ref mapper.Reference) (chargeversion.Draft, string, error) {
	switch req.Flow {
	case navigation.FlowChargeInformation:
		return s.applyChargeInformation(ctx, req, current, ref)

	case navigation.FlowNote:
		next, err := draft.Reduce(current, draft.NewSetNote(mapper.Note(req.Input), req.User))
		return next, "", err

	case navigation.FlowChargeElement, navigation.FlowChargeCategory, navigation.FlowChargePurpose:
		next, err := s.applyElement(ctx, req, current, ref)
		return next, "", err

	default:
		return current, "", fmt.Errorf("%w: %s", navigation.ErrUnknownFlow, req.Flow)
	}
}

func (s *chargeInformationServiceImpl) applyChargeInformation(ctx context.Context, req StepRequest, current chargeversion.Draft, ref mapper.Reference) (chargeversion.Draft, string, error) {
	var action draft.Action

	switch req.Step {
	case navigation.StepReason:
		reason, err := mapper.Reason(req.Input, ref)
		if err != nil {
			return current, "", err
		}
		action = draft.NewSetReason(reason)

	case navigation.StepStartDate:
		date, err := mapper.StartDate(req.Input, ref)
		if err != nil {
			return current, "", err
		}
		action = draft.NewSetStartDate(current, date, s.cutover)

	case navigation.StepBillingAccount:
		account, err := mapper.BillingAccount(req.Input, ref)
		if err != nil {
			return current, "", err
		}
		action = draft.NewSetBillingAccount(account)

	case navigation.StepUseAbstractionData:
		return s.applyUseAbstractionData(ctx, req, current)

	default:
		return current, "", fmt.Errorf("%w: %s", navigation.ErrUnknownStep, req.Step)
	}

	next, err := draft.Reduce(current, action)
	return next, "", err
}

// applyUseAbstractionData copies the licence's default charges into the draft,
// or starts a blank element when abstraction data is not used
func (s *chargeInformationServiceImpl) applyUseAbstractionData(ctx context.Context, req StepRequest, current chargeversion.Draft) (chargeversion.Draft, string, error) {
	use, err := mapper.UseAbstractionData(req.Input)
	if err != nil {
		return current, "", err
	}

	var defaults []chargeversion.ChargePurpose
	if use {
		if defaults, err = s.licences.DefaultChargeFacts(ctx, req.LicenceID); err != nil {
			return current, "", fmt.Errorf("failed to get default charges: %w", err)
		}
		if defaults == nil {
			defaults = []chargeversion.ChargePurpose{}
		}
	}

	action, err := draft.NewSetAbstractionData(current, defaults, s.newID)
	if err != nil {
		return current, "", err
	}
	next, err := draft.Reduce(current, action)
	if err != nil {
		return current, "", err
	}

	if use || (req.ReturnToCheckData && next.HasElements()) {
		return next, "", nil
	}

	next, elementID, err := s.addElement(next)
	if err != nil {
		return current, "", err
	}
	g, err := navigation.For(navigation.ElementFlow(next.Scheme))
	if err != nil {
		return current, "", err
	}
	return next, g.StartURL(navigation.Request{LicenceID: req.LicenceID, WorkflowID: req.WorkflowID, ElementID: elementID, Draft: next}), nil
}

func (s *chargeInformationServiceImpl) applyElement(ctx context.Context, req StepRequest, current chargeversion.Draft, ref mapper.Reference) (chargeversion.Draft, error) {
	registry, err := mapper.ForFlow(req.Flow)
	if err != nil {
		return current, err
	}
	fragment, err := registry.For(req.Step)(req.Input, ref)
	if err != nil {
		return current, err
	}

	var action draft.Action
	switch req.Flow {
	case navigation.FlowChargeCategory:
		action, err = draft.NewUpdateChargeCategory(current, req.ElementID, fragment)
	case navigation.FlowChargePurpose:
		action, err = draft.NewSetChargePurposeData(current, req.CategoryID, req.ElementID, fragment)
	default:
		action, err = draft.NewSetChargeElementData(current, req.ElementID, fragment)
	}
	if err != nil {
		return current, err
	}

	next, err := draft.Reduce(current, action)
	if err != nil {
		return current, err
	}

	g, err := navigation.For(req.Flow)
	if err != nil {
		return current, err
	}
	last, err := g.IsLast(req.Step, req.navigation(next))
	if err != nil {
		return current, err
	}
	if !last {
		if req.Flow == navigation.FlowChargeCategory && categoryQuerySteps[req.Step] && s.isCompleteElement(next, req.ElementID) {
			return s.resolveChargeCategory(ctx, next, req.ElementID)
		}
		return next, nil
	}

	return s.completeElement(ctx, req, next)
}

// categoryQuerySteps are the category answers the charge category lookup reads
var categoryQuerySteps = map[navigation.StepID]bool{
	navigation.StepSource:            true,
	navigation.StepLoss:              true,
	navigation.StepVolume:            true,
	navigation.StepWaterAvailability: true,
	navigation.StepWaterModel:        true,
}

// isCompleteElement reports whether the element has been through its flow once,
// so an edited answer must keep its derived values in step
func (s *chargeInformationServiceImpl) isCompleteElement(d chargeversion.Draft, elementID string) bool {
	e, ok := d.FindElement(elementID)
	return ok && e.Status != chargeversion.ElementStatusDraft
}

// completeElement runs when an element flow reaches its end: sroc categories
// are matched to a charge category and the element's draft marker is cleared
func (s *chargeInformationServiceImpl) completeElement(ctx context.Context, req StepRequest, d chargeversion.Draft) (chargeversion.Draft, error) {
	var action draft.Action
	var err error

	switch req.Flow {
	case navigation.FlowChargePurpose:
		action, err = draft.MarkPurposeComplete(d, req.CategoryID, req.ElementID)

	case navigation.FlowChargeCategory:
		if d, err = s.resolveChargeCategory(ctx, d, req.ElementID); err != nil {
			return d, err
		}
		action, err = draft.MarkComplete(d, req.ElementID)

	default:
		action, err = draft.MarkComplete(d, req.ElementID)
	}
	if err != nil {
		return d, err
	}

	return draft.Reduce(d, action)
}

// resolveChargeCategory looks up the charge category matching the category's answers.
// No match leaves the category without a reference.
func (s *chargeInformationServiceImpl) resolveChargeCategory(ctx context.Context, d chargeversion.Draft, categoryID string) (chargeversion.Draft, error) {
	category, ok := d.FindElement(categoryID)
	if !ok {
		return d, fmt.Errorf("%w: category %s", chargeversion.ErrElementNotFound, categoryID)
	}
	if category.Volume == nil || category.Source == "" || category.Loss == "" {
		return d, nil
	}

	ref, err := s.reference.ChargeCategory(ctx, port.CategoryQuery{
		Source:            category.Source,
		Loss:              category.Loss,
		WaterAvailability: category.WaterAvailability,
		WaterModel:        category.WaterModel,
		Volume:            *category.Volume,
	})
	if errors.Is(err, port.ErrNotFound) {
		s.logger.Info("No charge category matches", "category_id", categoryID, "source", category.Source, "loss", category.Loss)
		ref = nil
	} else if err != nil {
		return d, fmt.Errorf("failed to look up charge category: %w", err)
	}

	action, err := draft.NewUpdateChargeCategory(d, categoryID, chargeversion.Fragment{"chargeCategory": ref})
	if err != nil {
		return d, err
	}
	return draft.Reduce(d, action)
}

func (s *chargeInformationServiceImpl) CreateElement(ctx context.Context, licenceID, workflowID string) (string, error) {
	key := port.Key{LicenceID: licenceID, WorkflowID: workflowID}
	current, err := s.load(ctx, key)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", fmt.Errorf("%w: %s", ErrDraftNotFound, key)
	}

	next, id, err := s.addElement(*current)
	if err != nil {
		return "", err
	}
	if err := s.drafts.Set(ctx, key, &next); err != nil {
		return "", fmt.Errorf("failed to store draft: %w", err)
	}

	g, err := navigation.For(navigation.ElementFlow(next.Scheme))
	if err != nil {
		return "", err
	}
	return g.StartURL(navigation.Request{LicenceID: licenceID, WorkflowID: workflowID, ElementID: id, Draft: next}), nil
}

func (s *chargeInformationServiceImpl) addElement(current chargeversion.Draft) (chargeversion.Draft, string, error) {
	id := s.newID()

	var action draft.Action
	var err error
	if current.Scheme == chargeversion.SchemeSROC {
		action, err = draft.NewCreateChargeCategory(current, id)
	} else {
		action, err = draft.NewCreateChargeElement(current, id)
	}
	if err != nil {
		return current, "", err
	}

	next, err := draft.Reduce(current, action)
	return next, id, err
}

func (s *chargeInformationServiceImpl) CreatePurpose(ctx context.Context, licenceID, workflowID, categoryID string) (string, error) {
	key := port.Key{LicenceID: licenceID, WorkflowID: workflowID}
	current, err := s.load(ctx, key)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", fmt.Errorf("%w: %s", ErrDraftNotFound, key)
	}

	id := s.newID()
	action, err := draft.NewSetChargePurposeData(*current, categoryID, id, chargeversion.Fragment{})
	if err != nil {
		return "", err
	}
	next, err := draft.Reduce(*current, action)
	if err != nil {
		return "", err
	}
	if err := s.drafts.Set(ctx, key, &next); err != nil {
		return "", fmt.Errorf("failed to store draft: %w", err)
	}

	g, err := navigation.For(navigation.FlowChargePurpose)
	if err != nil {
		return "", err
	}
	return g.StartURL(navigation.Request{
		LicenceID:  licenceID,
		WorkflowID: workflowID,
		ElementID:  id,
		CategoryID: categoryID,
		Draft:      next,
	}), nil
}

func (s *chargeInformationServiceImpl) RemoveElement(ctx context.Context, licenceID, workflowID, elementID string) error {
	key := port.Key{LicenceID: licenceID, WorkflowID: workflowID}
	current, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, key)
	}

	if _, ok := current.FindElement(elementID); !ok {
		return fmt.Errorf("%w: %s", chargeversion.ErrElementNotFound, elementID)
	}

	remaining := make([]chargeversion.ChargeElement, 0, len(current.ChargeElements))
	for _, e := range current.ChargeElements {
		if e.ID != elementID {
			remaining = append(remaining, e)
		}
	}

	next, err := draft.Reduce(*current, draft.SetChargeElementData{ChargeElements: remaining})
	if err != nil {
		return err
	}
	return s.drafts.Set(ctx, key, &next)
}

func (s *chargeInformationServiceImpl) CheckAnswers(ctx context.Context, licenceID, workflowID string) (*CheckAnswers, error) {
	key := port.Key{LicenceID: licenceID, WorkflowID: workflowID}
	current, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, key)
	}

	licence, err := s.licences.GetLicence(ctx, licenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get licence: %w", err)
	}

	report := s.validator.Validate(*current)
	metrics.AddValidationWarnings(s.validator.Tally(report))

	status := current.Status
	return &CheckAnswers{
		Licence:      licence,
		Draft:        *current,
		Warnings:     report,
		WarningCount: validation.Count(report),
		IsEditable:   status == "" || status == chargeversion.StatusDraft || status == chargeversion.StatusChangesRequested,
		IsApprover:   status == chargeversion.StatusReview,
	}, nil
}

func (s *chargeInformationServiceImpl) Submit(ctx context.Context, licenceID, workflowID, user string) (string, error) {
	id, err := s.engine.Submit(ctx, port.Key{LicenceID: licenceID, WorkflowID: workflowID}, user)
	if err != nil {
		return "", err
	}

	s.logger.Info("Charge information submitted", "licence_id", licenceID, "workflow_id", id, "user", user)
	return navigation.BaseURL(licenceID) + "/submitted?" + url.Values{
		navigation.ParamWorkflowID: {id},
	}.Encode(), nil
}

func (s *chargeInformationServiceImpl) Approve(ctx context.Context, workflowID, user string) (*entity.ChargeVersion, error) {
	cv, err := s.engine.Approve(ctx, workflowID, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Charge information approved", "workflow_id", workflowID, "charge_version_id", cv.ID, "user", user)
	return cv, nil
}

func (s *chargeInformationServiceImpl) RequestChanges(ctx context.Context, workflowID, user, comments string) error {
	if err := s.engine.RequestChanges(ctx, workflowID, user, comments); err != nil {
		return err
	}
	s.logger.Info("Changes requested", "workflow_id", workflowID, "user", user)
	return nil
}

func (s *chargeInformationServiceImpl) Cancel(ctx context.Context, licenceID, workflowID, user string) (string, error) {
	if err := s.engine.Cancel(ctx, port.Key{LicenceID: licenceID, WorkflowID: workflowID}, user); err != nil {
		return "", err
	}
	return "/licences/" + url.PathEscape(licenceID), nil
}

func (s *chargeInformationServiceImpl) load(ctx context.Context, key port.Key) (*chargeversion.Draft, error) {
	d, err := s.drafts.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return d, nil
}

// referenceFor loads the lookup lists the step's mapper resolves against
func (s *chargeInformationServiceImpl) referenceFor(ctx context.Context, licenceID string, flow navigation.Flow, step navigation.StepID) (mapper.Reference, error) {
	ref := mapper.Reference{Today: s.today()}
	var err error

	switch {
	case flow == navigation.FlowChargeInformation && step == navigation.StepReason:
		ref.ChangeReasons, err = s.reference.ChangeReasons(ctx, s.reasonType)

	case flow == navigation.FlowChargeInformation && step == navigation.StepStartDate:
		var licence *entity.Licence
		if licence, err = s.licences.GetLicence(ctx, licenceID); err == nil {
			ref.LicenceStartDate = licence.StartDate
		}

	case flow == navigation.FlowChargeInformation && step == navigation.StepBillingAccount:
		ref.BillingAccounts, err = s.licences.BillingAccounts(ctx, licenceID)

	case step == navigation.StepPurpose:
		ref.Purposes, err = s.reference.Purposes(ctx)

	case step == navigation.StepSupportedSourceName:
		ref.SupportedSources, err = s.reference.SupportedSources(ctx)
	}
	if err != nil {
		return ref, fmt.Errorf("failed to load reference data: %w", err)
	}
	return ref, nil
}

var _ ChargeInformationService = (*chargeInformationServiceImpl)(nil)
