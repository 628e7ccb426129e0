package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/e20residents/campaign-backend/internal/campaign"
	"github.com/e20residents/campaign-backend/internal/domain"
	"github.com/e20residents/campaign-backend/internal/mail"
	"github.com/e20residents/campaign-backend/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubMetricsSvc struct {
	record   func(ctx context.Context, in services.SubmissionInput) (*domain.Submission, error)
	clearAll func(ctx context.Context) error
	seed     func(ctx context.Context, n int) ([]domain.Submission, error)
}

func (s stubMetricsSvc) Record(ctx context.Context, in services.SubmissionInput) (*domain.Submission, error) {
	if s.record != nil {
		return s.record(ctx, in)
	}
	return &domain.Submission{ID: 1}, nil
}

func (s stubMetricsSvc) ClearAll(ctx context.Context) error {
	if s.clearAll != nil {
		return s.clearAll(ctx)
	}
	return nil
}

func (s stubMetricsSvc) Seed(ctx context.Context, n int) ([]domain.Submission, error) {
	if s.seed != nil {
		return s.seed(ctx, n)
	}
	return make([]domain.Submission, n), nil
}

type stubStatsSvc struct {
	snapshot func(ctx context.Context) (*services.DashboardStats, error)
}

func (s stubStatsSvc) Snapshot(ctx context.Context) (*services.DashboardStats, error) {
	if s.snapshot != nil {
		return s.snapshot(ctx)
	}
	return &services.DashboardStats{}, nil
}

type stubRewriteSvc struct {
	enabled bool
	vary    func(ctx context.Context, content, fullName, pc string) string
}

func (s stubRewriteSvc) Enabled() bool { return s.enabled }

func (s stubRewriteSvc) Vary(ctx context.Context, content, fullName, pc string) string {
	if s.vary != nil {
		return s.vary(ctx, content, fullName, pc)
	}
	return content
}

type stubSender struct {
	send func(ctx context.Context, msg mail.Message) (string, error)
}

func (s stubSender) Send(ctx context.Context, msg mail.Message) (string, error) {
	if s.send != nil {
		return s.send(ctx, msg)
	}
	return "msg-1", nil
}

func testComposer() campaign.Composer {
	return campaign.Composer{
		Recipient: "mp@example.org",
		CC:        []string{"campaign@example.org"},
		Subject:   "Test Subject",
	}
}

func defaultDeps() Deps {
	return Deps{
		Metrics:    stubMetricsSvc{},
		Stats:      stubStatsSvc{},
		Rewrite:    stubRewriteSvc{},
		Composer:   testComposer(),
		AreaPrefix: "E20",
		MailFrom:   "no-reply@example.org",
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- POST /metrics ----

func TestTrackEmail_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got services.SubmissionInput
	deps := defaultDeps()
	deps.Metrics = stubMetricsSvc{record: func(ctx context.Context, in services.SubmissionInput) (*domain.Submission, error) {
		got = in
		return &domain.Submission{ID: 42}, nil
	}}
	h := New(deps)

	r := gin.New()
	r.POST("/metrics", h.TrackEmail)

	w := doJSON(t, r, http.MethodPost, "/metrics",
		`{"fullName":"John Smith","postcode":"E20 1AA","email":"john@example.com","emailContent":"Dear MP","anonymous":true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp TrackEmailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success || resp.ID != 42 {
		t.Fatalf("resp = %+v", resp)
	}
	if got.FullName != "John Smith" || !got.Anonymous {
		t.Fatalf("service received %+v", got)
	}
}

func TestTrackEmail_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(defaultDeps())
	r := gin.New()
	r.POST("/metrics", h.TrackEmail)

	w := doJSON(t, r, http.MethodPost, "/metrics", `{"fullName":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTrackEmail_ValidationMapsTo400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := defaultDeps()
	deps.Metrics = stubMetricsSvc{record: func(context.Context, services.SubmissionInput) (*domain.Submission, error) {
		return nil, services.ErrOutsideServiceArea
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/metrics", h.TrackEmail)

	w := doJSON(t, r, http.MethodPost, "/metrics",
		`{"fullName":"A","postcode":"SW1A 1AA","email":"a@b.co","emailContent":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeBadRequest {
		t.Errorf("code = %q, want %q", er.Code, ErrCodeBadRequest)
	}
	if er.Message != services.ErrOutsideServiceArea.Error() {
		t.Errorf("message = %q", er.Message)
	}
}

func TestTrackEmail_StorageMapsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := defaultDeps()
	deps.Metrics = stubMetricsSvc{record: func(context.Context, services.SubmissionInput) (*domain.Submission, error) {
		return nil, errors.New("disk full")
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/metrics", h.TrackEmail)

	w := doJSON(t, r, http.MethodPost, "/metrics",
		`{"fullName":"A B","postcode":"E20 1AA","email":"a@b.co","emailContent":"x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Code != ErrCodeRecordFailed {
		t.Errorf("code = %q, want %q", er.Code, ErrCodeRecordFailed)
	}
	if strings.Contains(er.Message, "disk full") {
		t.Errorf("raw storage error leaked to client: %q", er.Message)
	}
}

// ---- POST /compose ----

func TestComposeEmail_DefaultTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(defaultDeps())
	r := gin.New()
	r.POST("/compose", h.ComposeEmail)

	w := doJSON(t, r, http.MethodPost, "/compose",
		`{"fullName":"John Smith","postcode":"e20 1aa","email":"john@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	var resp ComposeEmailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.To != "mp@example.org" || resp.Subject != "Test Subject" {
		t.Errorf("envelope = %+v", resp)
	}
	if len(resp.CC) != 2 || resp.CC[0] != "john@example.com" {
		t.Errorf("cc = %v, want sender first", resp.CC)
	}
	if !strings.Contains(resp.Body, "John Smith") || !strings.Contains(resp.Body, "E20 1AA") {
		t.Errorf("body not personalized")
	}
	if !strings.HasPrefix(resp.MailtoLink, "mailto:mp@example.org?") {
		t.Errorf("mailto = %q", resp.MailtoLink)
	}
}

func TestComposeEmail_OutsideArea(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(defaultDeps())
	r := gin.New()
	r.POST("/compose", h.ComposeEmail)

	w := doJSON(t, r, http.MethodPost, "/compose",
		`{"fullName":"John Smith","postcode":"SW1A 1AA","email":"john@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestComposeEmail_VaryUsesRewriter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := defaultDeps()
	deps.Rewrite = stubRewriteSvc{enabled: true, vary: func(ctx context.Context, content, fullName, pc string) string {
		return "varied body"
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/compose", h.ComposeEmail)

	w := doJSON(t, r, http.MethodPost, "/compose",
		`{"fullName":"John Smith","postcode":"E20 1AA","email":"john@example.com","emailContent":"my text","vary":true}`)
	var resp ComposeEmailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Body != "varied body" {
		t.Fatalf("body = %q, want varied body", resp.Body)
	}
}

// ---- POST /send ----

func TestSendEmail_DisabledWithoutSender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(defaultDeps()) // Sender nil
	r := gin.New()
	r.POST("/send", h.SendEmail)

	w := doJSON(t, r, http.MethodPost, "/send",
		`{"fullName":"A B","postcode":"E20 1AA","email":"a@b.co"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Code != ErrCodeSendDisabled {
		t.Errorf("code = %q", er.Code)
	}
}

func TestSendEmail_SuccessRecordsThenSends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var order []string
	var sent mail.Message

	deps := defaultDeps()
	deps.Metrics = stubMetricsSvc{record: func(ctx context.Context, in services.SubmissionInput) (*domain.Submission, error) {
		order = append(order, "record")
		return &domain.Submission{ID: 7}, nil
	}}
	deps.Sender = stubSender{send: func(ctx context.Context, msg mail.Message) (string, error) {
		order = append(order, "send")
		sent = msg
		return "ses-123", nil
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/send", h.SendEmail)

	w := doJSON(t, r, http.MethodPost, "/send",
		`{"fullName":"John Smith","postcode":"E20 1AA","email":"john@example.com","emailContent":"Dear MP, please act."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	var resp SendEmailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success || resp.ID != 7 || resp.MessageID != "ses-123" {
		t.Fatalf("resp = %+v", resp)
	}

	if len(order) != 2 || order[0] != "record" || order[1] != "send" {
		t.Fatalf("order = %v, want record before send", order)
	}
	if sent.To[0] != "mp@example.org" || sent.ReplyTo != "john@example.com" {
		t.Errorf("message = %+v", sent)
	}
	if sent.FromName != "John Smith" || sent.From != "no-reply@example.org" {
		t.Errorf("from = %q <%s>", sent.FromName, sent.From)
	}
	if sent.Text != "Dear MP, please act." {
		t.Errorf("text = %q", sent.Text)
	}
}

func TestSendEmail_ValidationStopsDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := defaultDeps()
	deps.Metrics = stubMetricsSvc{record: func(context.Context, services.SubmissionInput) (*domain.Submission, error) {
		return nil, services.ErrEmailInvalid
	}}
	deps.Sender = stubSender{send: func(context.Context, mail.Message) (string, error) {
		t.Fatalf("sender must not be called for invalid submissions")
		return "", nil
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/send", h.SendEmail)

	w := doJSON(t, r, http.MethodPost, "/send",
		`{"fullName":"A B","postcode":"E20 1AA","email":"broken"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSendEmail_ProviderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := defaultDeps()
	deps.Sender = stubSender{send: func(context.Context, mail.Message) (string, error) {
		return "", errors.New("ses unavailable")
	}}
	h := New(deps)
	r := gin.New()
	r.POST("/send", h.SendEmail)

	w := doJSON(t, r, http.MethodPost, "/send",
		`{"fullName":"A B","postcode":"E20 1AA","email":"a@b.co","emailContent":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Code != ErrCodeSendFailed {
		t.Errorf("code = %q", er.Code)
	}
}
