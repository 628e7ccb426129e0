// Submission HTTP handlers.
//
// This file exposes the REST endpoints residents interact with when sending
// a campaign email:
//   - POST /metrics  (record an anonymized participation metric)
//   - POST /compose  (build the pre-filled email and mailto link)
//   - POST /send     (dispatch the email server-side and record the metric)
//
// Handlers are transport-thin: they validate input, delegate to application
// services, and translate domain/service errors into HTTP results.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/e20residents/campaign-backend/internal/campaign"
	"github.com/e20residents/campaign-backend/internal/domain"
	"github.com/e20residents/campaign-backend/internal/http/middleware"
	"github.com/e20residents/campaign-backend/internal/mail"
	"github.com/e20residents/campaign-backend/internal/postcode"
	"github.com/e20residents/campaign-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// MetricsService defines the metrics-store write path consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MetricsService interface {
	// Record validates and appends one participation record.
	Record(ctx context.Context, in services.SubmissionInput) (*domain.Submission, error)
	// ClearAll removes every record (admin only).
	ClearAll(ctx context.Context) error
	// Seed inserts n synthetic records (admin only).
	Seed(ctx context.Context, n int) ([]domain.Submission, error)
}

// StatsService computes the public dashboard snapshot.
type StatsService interface {
	Snapshot(ctx context.Context) (*services.DashboardStats, error)
}

// RewriteService produces optional wording variations of outgoing emails.
type RewriteService interface {
	Enabled() bool
	// Vary returns a rephrased version of content or the original on failure.
	Vary(ctx context.Context, content, fullName, pc string) string
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for submissions, the dashboard, and the
// admin surface. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	metricsSvc MetricsService
	statsSvc   StatsService
	rewriteSvc RewriteService
	sender     mail.Sender // nil when the transactional path is disabled

	composer   campaign.Composer
	areaPrefix string
	mailFrom   string

	adminEnabled bool
	adminToken   string
}

// Deps bundles everything the handlers need. Sender may be nil.
type Deps struct {
	Metrics MetricsService
	Stats   StatsService
	Rewrite RewriteService
	Sender  mail.Sender

	Composer   campaign.Composer
	AreaPrefix string
	MailFrom   string

	AdminEnabled bool
	AdminToken   string
}

// New constructs a Handlers instance bound to the given dependencies.
func New(d Deps) *Handlers {
	return &Handlers{
		metricsSvc:   d.Metrics,
		statsSvc:     d.Stats,
		rewriteSvc:   d.Rewrite,
		sender:       d.Sender,
		composer:     d.Composer,
		areaPrefix:   d.AreaPrefix,
		mailFrom:     d.MailFrom,
		adminEnabled: d.AdminEnabled,
		adminToken:   d.AdminToken,
	}
}

//
// DTOs
//

// TrackEmailRequest is the JSON payload recording one sent campaign email.
// Field validation is performed by the service so clients get precise,
// field-level error messages rather than a generic binding failure.
type TrackEmailRequest struct {
	FullName  string `json:"fullName" example:"John Smith"`
	Postcode  string `json:"postcode" example:"E20 1AA"`
	Email     string `json:"email" example:"john.smith@example.com"`
	Content   string `json:"emailContent"`
	Anonymous bool   `json:"anonymous" example:"false"`
}

// TrackEmailResponse confirms a recorded metric.
type TrackEmailResponse struct {
	Success bool `json:"success"`
	ID      uint `json:"id" example:"42"`
}

// ComposeEmailRequest asks the server to build the pre-filled campaign email
// for one resident. When Content is empty the canonical template is
// personalized; when Vary is set (and rewriting is configured) the body is
// rephrased before composition.
type ComposeEmailRequest struct {
	FullName string `json:"fullName" example:"John Smith"`
	Postcode string `json:"postcode" example:"E20 1AA"`
	Email    string `json:"email" example:"john.smith@example.com"`
	Content  string `json:"emailContent"`
	Vary     bool   `json:"vary" example:"false"`
}

// ComposeEmailResponse is the fully composed email envelope plus the mailto
// link that opens the resident's own mail client.
type ComposeEmailResponse struct {
	To         string   `json:"to"`
	CC         []string `json:"cc"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	MailtoLink string   `json:"mailtoLink"`
}

// SendEmailRequest dispatches the campaign email server-side instead of via
// the resident's mail client. The participation metric is recorded as part of
// the same operation.
type SendEmailRequest struct {
	FullName  string `json:"fullName" example:"John Smith"`
	Postcode  string `json:"postcode" example:"E20 1AA"`
	Email     string `json:"email" example:"john.smith@example.com"`
	Content   string `json:"emailContent"`
	Anonymous bool   `json:"anonymous" example:"false"`
	Vary      bool   `json:"vary" example:"true"`
}

// SendEmailResponse confirms a dispatched email and its recorded metric.
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	ID        uint   `json:"id" example:"42"`
	MessageID string `json:"messageId,omitempty"`
}

// failFromRecord maps a Record error to the HTTP error envelope: validation
// sentinels are client-fixable (400), anything else is a storage failure (500).
func failFromRecord(c *gin.Context, err error) {
	if services.IsValidation(err) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeRecordFailed, "could not record submission")
}

//
// Handlers
//

// TrackEmail godoc
// @ID          trackEmail
// @Summary     Record a sent campaign email
// @Description Appends one anonymized participation record to the metrics store. Postcodes outside the campaign area are rejected.
// @Tags        Metrics
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.TrackEmailRequest  true  "Submission payload"
//
// @Success     200  {object} handlers.TrackEmailResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     500  {object} handlers.ErrorResponse "Storage failure"
// @Router      /metrics [post]
func (h *Handlers) TrackEmail(c *gin.Context) {
	var req TrackEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.metricsSvc.Record(c.Request.Context(), services.SubmissionInput{
		FullName:  req.FullName,
		Postcode:  req.Postcode,
		Email:     req.Email,
		Content:   req.Content,
		Anonymous: req.Anonymous,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		failFromRecord(c, err)
		return
	}

	middleware.CountSubmission()
	ok(c, http.StatusOK, TrackEmailResponse{Success: true, ID: sub.ID})
}

// ComposeEmail godoc
// @ID          composeEmail
// @Summary     Compose the pre-filled campaign email
// @Description Personalizes the canonical template (or uses the supplied content), optionally rephrases it, and returns the full envelope plus a mailto link. Nothing is recorded.
// @Tags        Compose
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ComposeEmailRequest  true  "Compose payload"
//
// @Success     200  {object} handlers.ComposeEmailResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Router      /compose [post]
func (h *Handlers) ComposeEmail(c *gin.Context) {
	var req ComposeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.FullName)
	pc := postcode.Normalize(req.Postcode)
	email := strings.TrimSpace(req.Email)
	if err := services.ValidateSubmitter(name, pc, email, h.areaPrefix); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	body := strings.TrimSpace(req.Content)
	if body == "" {
		body = campaign.Personalize(name, pc, email)
	}
	if req.Vary && h.rewriteSvc != nil && h.rewriteSvc.Enabled() {
		body = h.rewriteSvc.Vary(c.Request.Context(), body, name, pc)
	}

	ok(c, http.StatusOK, ComposeEmailResponse{
		To:         h.composer.Recipient,
		CC:         h.composer.CCFor(email),
		Subject:    h.composer.Subject,
		Body:       body,
		MailtoLink: h.composer.MailtoLink(email, body),
	})
}

// SendEmail godoc
// @ID          sendEmail
// @Summary     Send the campaign email server-side
// @Description Records the participation metric, then dispatches the email through the configured mail provider with the resident's address in Reply-To. Returns 503 when no provider is configured.
// @Tags        Send
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SendEmailRequest  true  "Send payload"
//
// @Success     200  {object} handlers.SendEmailResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     502  {object} handlers.ErrorResponse "Mail provider failure"
// @Failure     503  {object} handlers.ErrorResponse "Sending not configured"
// @Failure     500  {object} handlers.ErrorResponse "Storage failure"
// @Router      /send [post]
func (h *Handlers) SendEmail(c *gin.Context) {
	if h.sender == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeSendDisabled, services.ErrSenderDisabled.Error())
		return
	}

	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.FullName)
	pc := postcode.Normalize(req.Postcode)
	email := strings.TrimSpace(req.Email)
	content := strings.TrimSpace(req.Content)
	if content == "" {
		content = campaign.Personalize(name, pc, email)
	}

	// Record first: validation happens here, and an invalid submission must
	// never reach the recipient. The customized flag is derived from the
	// resident's own content, before any automated variation.
	sub, err := h.metricsSvc.Record(c.Request.Context(), services.SubmissionInput{
		FullName:  name,
		Postcode:  pc,
		Email:     email,
		Content:   content,
		Anonymous: req.Anonymous,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		failFromRecord(c, err)
		return
	}
	middleware.CountSubmission()

	body := content
	if req.Vary && h.rewriteSvc != nil && h.rewriteSvc.Enabled() {
		body = h.rewriteSvc.Vary(c.Request.Context(), body, name, pc)
	}

	msgID, err := h.sender.Send(c.Request.Context(), mail.Message{
		To:       []string{h.composer.Recipient},
		CC:       h.composer.CCFor(email),
		ReplyTo:  email,
		FromName: name,
		From:     h.mailFrom,
		Subject:  h.composer.Subject,
		Text:     body,
	})
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Uint("submission_id", sub.ID).Msg("mail dispatch failed")
		fail(c, http.StatusBadGateway, ErrCodeSendFailed, "email could not be dispatched")
		return
	}

	ok(c, http.StatusOK, SendEmailResponse{Success: true, ID: sub.ID, MessageID: msgID})
}
