package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/charge-information/internal/application/dispatcher"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/entity"
	"github.com/garyjia/charge-information/internal/domain/event"
	domainwf "github.com/garyjia/charge-information/internal/domain/workflow"
)

const actionCancel = "CANCEL"

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	workflows   port.WorkflowService
	drafts      port.DraftRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
	now         func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithClock sets the time source for history records
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	workflows port.WorkflowService,
	drafts port.DraftRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		workflows:   workflows,
		drafts:      drafts,
		historyRepo: historyRepo,
		txManager:   txManager,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *engineImpl) Submit(ctx context.Context, key port.Key, actor string) (string, error) {
	draft, err := e.drafts.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		return "", fmt.Errorf("%w: %s", ErrNoDraft, key)
	}

	previous := domainwf.StateDraft
	if key.WorkflowID != "" {
		wf, err := e.workflows.GetWorkflow(ctx, key.WorkflowID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch workflow: %w", err)
		}
		if previous, err = domainwf.FromStatus(wf.Status); err != nil {
			return "", err
		}
	}

	machine := BuildChargeVersionStateMachine(previous)
	if err := machine.Fire(ctx, domainwf.TriggerSubmit); err != nil {
		return "", err
	}
	next := machine.State()

	submitted := draft.Clone()
	submitted.LicenceID = key.LicenceID
	submitted.Status = next.Status()
	submitted.RestartFlow = false

	workflowID := key.WorkflowID
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if workflowID == "" {
			wf, err := e.workflows.CreateWorkflow(txCtx, key.LicenceID, submitted, actor)
			if err != nil {
				return fmt.Errorf("failed to create workflow: %w", err)
			}
			workflowID = wf.ID
		} else {
			status := next.Status()
			if err := e.workflows.PatchWorkflow(txCtx, workflowID, entity.WorkflowPatch{
				Status:        &status,
				ChargeVersion: &submitted,
			}); err != nil {
				return fmt.Errorf("failed to update workflow: %w", err)
			}
		}

		return e.recordHistory(txCtx, workflowID, key.LicenceID, actor, previous, next, domainwf.TriggerSubmit.String(), "")
	})
	if err != nil {
		return "", err
	}

	submitted.WorkflowID = workflowID
	newKey := port.Key{LicenceID: key.LicenceID, WorkflowID: workflowID}
	if err := e.drafts.Set(ctx, newKey, &submitted); err != nil {
		return "", fmt.Errorf("failed to store submitted draft: %w", err)
	}
	if newKey != key {
		if err := e.drafts.Clear(ctx, key); err != nil {
			return "", fmt.Errorf("failed to clear draft: %w", err)
		}
	}

	e.emit(ctx, event.TypeSubmitted, key.LicenceID, workflowID, map[string]any{event.KeyActor: actor})
	e.emitStatusChanged(ctx, key.LicenceID, workflowID, previous, next, domainwf.TriggerSubmit)

	return workflowID, nil
}

func (e *engineImpl) Approve(ctx context.Context, workflowID, actor string) (*entity.ChargeVersion, error) {
	wf, machine, err := e.load(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	previous := machine.State()
	if err := machine.Fire(ctx, domainwf.TriggerApprove); err != nil {
		return nil, err
	}
	next := machine.State()

	var cv *entity.ChargeVersion
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		status := next.Status()
		if err := e.workflows.PatchWorkflow(txCtx, workflowID, entity.WorkflowPatch{Status: &status}); err != nil {
			return fmt.Errorf("failed to update workflow: %w", err)
		}

		created, err := e.workflows.CreateChargeVersionFromWorkflow(txCtx, workflowID)
		if err != nil {
			return fmt.Errorf("failed to create charge version: %w", err)
		}
		cv = created

		return e.recordHistory(txCtx, workflowID, wf.LicenceID, actor, previous, next, domainwf.TriggerApprove.String(), cv.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := e.drafts.Clear(ctx, port.Key{LicenceID: wf.LicenceID, WorkflowID: workflowID}); err != nil {
		return nil, fmt.Errorf("failed to clear draft: %w", err)
	}

	e.emit(ctx, event.TypeApproved, wf.LicenceID, workflowID, map[string]any{
		event.KeyActor:           actor,
		event.KeyChargeVersionID: cv.ID,
	})
	e.emitStatusChanged(ctx, wf.LicenceID, workflowID, previous, next, domainwf.TriggerApprove)

	return cv, nil
}

func (e *engineImpl) RequestChanges(ctx context.Context, workflowID, actor, comments string) error {
	wf, machine, err := e.load(ctx, workflowID)
	if err != nil {
		return err
	}

	previous := machine.State()
	if err := machine.Fire(ctx, domainwf.TriggerRequestChanges); err != nil {
		return err
	}
	next := machine.State()

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		status := next.Status()
		if err := e.workflows.PatchWorkflow(txCtx, workflowID, entity.WorkflowPatch{
			Status:           &status,
			ApproverComments: &comments,
		}); err != nil {
			return fmt.Errorf("failed to update workflow: %w", err)
		}

		return e.recordHistory(txCtx, workflowID, wf.LicenceID, actor, previous, next, domainwf.TriggerRequestChanges.String(), comments)
	})
	if err != nil {
		return err
	}

	// The author edits the stored draft; seed it from the workflow if it has gone
	key := port.Key{LicenceID: wf.LicenceID, WorkflowID: workflowID}
	draft, err := e.drafts.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		seeded := wf.ChargeVersion.Clone()
		draft = &seeded
	}
	draft.LicenceID = wf.LicenceID
	draft.WorkflowID = workflowID
	draft.Status = next.Status()
	draft.ApproverComments = comments

	if err := e.drafts.Set(ctx, key, draft); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}

	e.emit(ctx, event.TypeChangesRequested, wf.LicenceID, workflowID, map[string]any{
		event.KeyActor:    actor,
		event.KeyComments: comments,
	})
	e.emitStatusChanged(ctx, wf.LicenceID, workflowID, previous, next, domainwf.TriggerRequestChanges)

	return nil
}

func (e *engineImpl) Cancel(ctx context.Context, key port.Key, actor string) error {
	if key.WorkflowID != "" {
		wf, err := e.workflows.GetWorkflow(ctx, key.WorkflowID)
		switch {
		case isNotFound(err):
			// already gone; only the draft is left to clear
		case err != nil:
			return fmt.Errorf("failed to fetch workflow: %w", err)
		default:
			state, err := domainwf.FromStatus(wf.Status)
			if err != nil {
				return err
			}
			if state.IsTerminal() {
				return fmt.Errorf("%w: %s", ErrNotCancellable, key.WorkflowID)
			}

			err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
				if err := e.workflows.DeleteWorkflow(txCtx, key.WorkflowID); err != nil {
					return fmt.Errorf("failed to delete workflow: %w", err)
				}
				return e.recordHistory(txCtx, key.WorkflowID, key.LicenceID, actor, state, "", actionCancel, "")
			})
			if err != nil {
				return err
			}
		}
	}

	if err := e.drafts.Clear(ctx, key); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}

	e.emit(ctx, event.TypeCancelled, key.LicenceID, key.WorkflowID, map[string]any{event.KeyActor: actor})
	return nil
}

func (e *engineImpl) CurrentState(ctx context.Context, workflowID string) (domainwf.State, error) {
	_, machine, err := e.load(ctx, workflowID)
	if err != nil {
		return "", err
	}
	return machine.State(), nil
}

func (e *engineImpl) History(ctx context.Context, workflowID string) ([]*entity.WorkflowHistory, error) {
	return e.historyRepo.GetByWorkflowID(ctx, workflowID)
}

// load fetches a workflow and builds a state machine positioned at its status
func (e *engineImpl) load(ctx context.Context, workflowID string) (*entity.ChargeVersionWorkflow, domainwf.StateMachine, error) {
	wf, err := e.workflows.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch workflow: %w", err)
	}

	state, err := domainwf.FromStatus(wf.Status)
	if err != nil {
		return nil, nil, err
	}

	return wf, BuildChargeVersionStateMachine(state), nil
}

func (e *engineImpl) recordHistory(ctx context.Context, workflowID, licenceID, actor string, previous, next domainwf.State, action, data string) error {
	history := &entity.WorkflowHistory{
		WorkflowID:     workflowID,
		LicenceID:      licenceID,
		Actor:          actor,
		PreviousStatus: previous.String(),
		NewStatus:      next.String(),
		ActionType:     action,
		ActionData:     data,
		Timestamp:      e.now().UTC(),
	}

	if err := e.historyRepo.Create(ctx, history); err != nil {
		return fmt.Errorf("failed to create history record: %w", err)
	}
	return nil
}

func (e *engineImpl) emit(ctx context.Context, t event.Type, licenceID, workflowID string, payload map[string]any) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.DispatchAsync(ctx, event.NewEvent(t, licenceID, workflowID, payload, e.now()))
}

func (e *engineImpl) emitStatusChanged(ctx context.Context, licenceID, workflowID string, previous, next domainwf.State, trigger domainwf.Trigger) {
	e.emit(ctx, event.TypeStatusChanged, licenceID, workflowID, map[string]any{
		event.KeyPreviousStatus: previous.String(),
		event.KeyNewStatus:      next.String(),
		event.KeyTrigger:        trigger.String(),
	})
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, port.ErrNotFound)
}

var _ Engine = (*engineImpl)(nil)
