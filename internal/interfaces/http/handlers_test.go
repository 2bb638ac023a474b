package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/charge-information/internal/application/mapper"
	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/application/workflow"
	"github.com/garyjia/charge-information/internal/domain/entity"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockChargeInformationService struct {
	steps    []service.StepRequest
	approved []string
	comments string
	err      error
}

func (m *mockChargeInformationService) Start(ctx context.Context, licenceID, workflowID string) (string, error) {
	return "/licences/" + licenceID + "/charge-information/reason", m.err
}

func (m *mockChargeInformationService) GetStep(ctx context.Context, req service.StepRequest) (*service.StepView, error) {
	m.steps = append(m.steps, req)
	if m.err != nil {
		return nil, m.err
	}
	return &service.StepView{Title: "A page"}, nil
}

func (m *mockChargeInformationService) SubmitStep(ctx context.Context, req service.StepRequest) (*service.StepResult, error) {
	m.steps = append(m.steps, req)
	if m.err != nil {
		return nil, m.err
	}
	return &service.StepResult{Redirect: "/next"}, nil
}

func (m *mockChargeInformationService) CreateElement(ctx context.Context, licenceID, workflowID string) (string, error) {
	return "/element", m.err
}

func (m *mockChargeInformationService) CreatePurpose(ctx context.Context, licenceID, workflowID, categoryID string) (string, error) {
	return "/purpose?categoryId=" + categoryID, m.err
}

func (m *mockChargeInformationService) RemoveElement(ctx context.Context, licenceID, workflowID, elementID string) error {
	return m.err
}

func (m *mockChargeInformationService) CheckAnswers(ctx context.Context, licenceID, workflowID string) (*service.CheckAnswers, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &service.CheckAnswers{WarningCount: 2}, nil
}

func (m *mockChargeInformationService) Submit(ctx context.Context, licenceID, workflowID, user string) (string, error) {
	return "/submitted", m.err
}

func (m *mockChargeInformationService) Approve(ctx context.Context, workflowID, user string) (*entity.ChargeVersion, error) {
	m.approved = append(m.approved, workflowID+":"+user)
	return &entity.ChargeVersion{ID: "cv-1"}, m.err
}

func (m *mockChargeInformationService) RequestChanges(ctx context.Context, workflowID, user, comments string) error {
	m.comments = comments
	return m.err
}

func (m *mockChargeInformationService) Cancel(ctx context.Context, licenceID, workflowID, user string) (string, error) {
	return "/licences/" + licenceID, m.err
}

type mockExporter struct{}

func (mockExporter) Export(ctx context.Context, check *service.CheckAnswers) (string, []byte, error) {
	return "exports/lic-1/draft-20240501T093000.xlsx", []byte("xlsx"), nil
}

func newTestServer(svc *mockChargeInformationService) *Server {
	return NewServer(DefaultServerConfig(), svc, mockExporter{}, testLogger{})
}

func do(t *testing.T, s *Server, method, target string, form url.Values) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(HeaderUser, "author@example.com")

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var resp Response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthCheck(t *testing.T) {
	w, resp := do(t, newTestServer(&mockChargeInformationService{}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	s := NewServer(DefaultServerConfig(), &mockChargeInformationService{}, mockExporter{}, testLogger{},
		WithHealth(func() (bool, any) {
			return false, map[string]string{"database": "ping failed"}
		}))

	w, resp := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, w.Body.String(), "ping failed")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(&mockChargeInformationService{})

	w, _ := do(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}

func TestMetricsEndpoint(t *testing.T) {
	w, _ := do(t, newTestServer(&mockChargeInformationService{}), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStepRouting(t *testing.T) {
	base := "/licences/lic-1/charge-information"

	tests := []struct {
		name       string
		method     string
		target     string
		flow       navigation.Flow
		step       navigation.StepID
		elementID  string
		categoryID string
	}{
		{"charge information", http.MethodGet, base + "/reason", navigation.FlowChargeInformation, navigation.StepReason, "", ""},
		{"note", http.MethodPost, base + "/note", navigation.FlowNote, navigation.StepNote, "", ""},
		{"alcs element", http.MethodGet, base + "/charge-element/e-1/purpose", navigation.FlowChargeElement, navigation.StepPurpose, "e-1", ""},
		{"sroc purpose", http.MethodPost, base + "/charge-element/p-1/loss?categoryId=c-1", navigation.FlowChargePurpose, navigation.StepLoss, "p-1", "c-1"},
		{"sroc category", http.MethodPost, base + "/charge-category/c-1/volume", navigation.FlowChargeCategory, navigation.StepVolume, "c-1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockChargeInformationService{}
			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{"field": {"value"}}
			}

			w, _ := do(t, newTestServer(svc), tt.method, tt.target, form)
			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, svc.steps, 1)

			req := svc.steps[0]
			assert.Equal(t, "lic-1", req.LicenceID)
			assert.Equal(t, tt.flow, req.Flow)
			assert.Equal(t, tt.step, req.Step)
			assert.Equal(t, tt.elementID, req.ElementID)
			assert.Equal(t, tt.categoryID, req.CategoryID)
			assert.Equal(t, "author@example.com", req.User)
			if form != nil {
				assert.Equal(t, "value", req.Input.Get("field"))
			}
		})
	}
}

func TestSubmitStep_QueryParameters(t *testing.T) {
	svc := &mockChargeInformationService{}
	target := "/licences/lic-1/charge-information/start-date?chargeVersionWorkflowId=wf-1&returnToCheckData=true"

	w, resp := do(t, newTestServer(svc), http.MethodPost, target, url.Values{"startDate": {"today"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redirect": "/next"}, resp.Data)

	require.Len(t, svc.steps, 1)
	assert.Equal(t, "wf-1", svc.steps[0].WorkflowID)
	assert.True(t, svc.steps[0].ReturnToCheckData)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrapped: %w", service.ErrDraftNotFound), http.StatusNotFound},
		{port.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: volume", mapper.ErrInvalidInput), http.StatusBadRequest},
		{workflow.ErrNotCancellable, http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockChargeInformationService{err: tt.err}
			w, resp := do(t, newTestServer(svc), http.MethodGet, "/licences/lic-1/charge-information/check", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp.Error)
			}
		})
	}
}

func TestReview(t *testing.T) {
	svc := &mockChargeInformationService{}
	s := newTestServer(svc)

	w, _ := do(t, s, http.MethodGet, "/licences/lic-1/charge-information/wf-1/review", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := do(t, s, http.MethodPost, "/licences/lic-1/charge-information/wf-1/review", url.Values{"action": {ReviewApprove}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redirect": "/licences/lic-1"}, resp.Data)
	assert.Equal(t, []string{"wf-1:author@example.com"}, svc.approved)

	w, _ = do(t, s, http.MethodPost, "/licences/lic-1/charge-information/wf-1/review", url.Values{
		"action":           {ReviewRequestChanges},
		"reviewerComments": {"volume is wrong"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "volume is wrong", svc.comments)

	w, _ = do(t, s, http.MethodPost, "/licences/lic-1/charge-information/wf-1/review", url.Values{"action": {"shred"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCheckAnswers(t *testing.T) {
	w, _ := do(t, newTestServer(&mockChargeInformationService{}), http.MethodGet, "/licences/lic-1/charge-information/check/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="draft-20240501T093000.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestElementLifecycleRoutes(t *testing.T) {
	s := newTestServer(&mockChargeInformationService{})
	base := "/licences/lic-1/charge-information"

	w, resp := do(t, s, http.MethodPost, base+"/charge-element", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redirect": "/element"}, resp.Data)

	w, resp = do(t, s, http.MethodPost, base+"/charge-category/c-1/purposes", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redirect": "/purpose?categoryId=c-1"}, resp.Data)

	w, resp = do(t, s, http.MethodDelete, base+"/charge-element/e-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redirect": base + "/check"}, resp.Data)
}
