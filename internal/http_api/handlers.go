package http_api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cacguide/paygate/internal/gateway"
	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/validation"
)

// signatureHeader carries the provider's webhook HMAC.
const signatureHeader = "x-paystack-signature"

// Metrics
var (
	confirmOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paygate_confirmations_total",
		Help: "Confirmation flow runs by entry point and terminal outcome",
	}, []string{"entry", "outcome"})

	webhookRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paygate_webhook_rejected_total",
		Help: "Webhook deliveries rejected for a bad or missing signature",
	})
)

// InitializeRequest represents the JSON body for checkout initialization
type InitializeRequest struct {
	Email    string                 `json:"email" binding:"required"`
	Amount   int64                  `json:"amount" binding:"required,gt=0"` // Major currency units
	Metadata map[string]interface{} `json:"metadata"`
}

// InitializeResponse represents the success response for initialization
type InitializeResponse struct {
	Success          bool   `json:"success"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// initialize is a handler for the checkout initialization endpoint.
func (s *HTTPServer) initialize(c *gin.Context) {
	var req InitializeRequest

	// Parse and validate JSON request body
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	email, err := validation.ValidateAndNormalizeEmail(req.Email)
	if err != nil {
		s.logger.Debug("Invalid payer email", "error", err, "email", req.Email)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email: " + err.Error(),
		})
		return
	}

	tx, err := s.confirmer.InitializeCheckout(c.Request.Context(), email, req.Amount, req.Metadata)
	if err != nil {
		if errors.Is(err, models.ErrConfigMissing) {
			s.logger.Error("Payment gateway secret is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Server misconfigured",
			})
			return
		}
		s.logger.Error("Failed to initialize transaction", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment initialization failed",
		})
		return
	}

	s.logger.Info("Checkout initialized", "email", email, "reference", tx.Reference)
	c.JSON(http.StatusOK, InitializeResponse{
		Success:          true,
		AuthorizationURL: tx.AuthorizationURL,
		AccessCode:       tx.AccessCode,
		Reference:        tx.Reference,
	})
}

// errorRedirect sends the browser back to the landing page with a short
// machine-readable error code.
func (s *HTTPServer) errorRedirect(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, s.config.SiteURL+"/?error="+url.QueryEscape(code))
}

// verifyRedirect is the browser entry point: the buyer returns here from
// the hosted checkout page with a reference query parameter.
func (s *HTTPServer) verifyRedirect(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		s.errorRedirect(c, "no_reference")
		return
	}
	if err := validation.ValidateReference(reference); err != nil {
		s.logger.Debug("Invalid reference", "error", err, "reference", reference)
		s.errorRedirect(c, "invalid_reference")
		return
	}

	tx, err := s.confirmer.VerifyReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, models.ErrConfigMissing) {
			s.logger.Error("Payment gateway secret is not configured")
			s.errorRedirect(c, "server_misconfigured")
			return
		}
		s.logger.Error("Transaction verification failed", "error", err, "reference", reference)
		confirmOutcomes.WithLabelValues("redirect", "verification_failed").Inc()
		s.errorRedirect(c, "verification_failed")
		return
	}

	result := s.confirmer.Confirm(c.Request.Context(), tx)
	confirmOutcomes.WithLabelValues("redirect", result.Outcome.String()).Inc()

	switch result.Outcome {
	case models.OutcomeAlreadyProcessed:
		c.Redirect(http.StatusFound, s.config.GuideURL())
	case models.OutcomeRecordingFailed:
		s.errorRedirect(c, "recording_failed")
	default:
		target := s.config.GuideURL() + "?payment=success"
		if result.AccessToken != "" {
			target += "&token=" + url.QueryEscape(result.AccessToken)
		}
		c.Redirect(http.StatusFound, target)
	}
}

// webhook is the server-to-server entry point. The signature check runs
// on the raw bytes strictly before any parsing or side effect.
func (s *HTTPServer) webhook(c *gin.Context) {
	rawBody, err := gateway.ReadWebhookBody(c.Request.Body)
	if err != nil {
		s.logger.Error("Failed to read webhook body", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read body"})
		return
	}

	if !s.gateway.VerifyWebhookSignature(rawBody, c.GetHeader(signatureHeader)) {
		s.logger.Warn("Webhook signature mismatch")
		webhookRejected.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrBadSignature.Error()})
		return
	}

	event, tx, err := s.gateway.ParseWebhookEvent(rawBody)
	if err != nil {
		s.logger.Error("Failed to parse webhook event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid payload"})
		return
	}
	if event != models.WebhookEventChargeSuccess || tx == nil {
		s.logger.Debug("Ignoring webhook event", "event", event)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	result := s.confirmer.Confirm(c.Request.Context(), tx)
	confirmOutcomes.WithLabelValues("webhook", result.Outcome.String()).Inc()

	switch result.Outcome {
	case models.OutcomeAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
	case models.OutcomeRecordingFailed:
		msg := "payment recording failed"
		if result.Err != nil {
			msg = result.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

// EntitlementResponse reports whether the caller may see gated content
type EntitlementResponse struct {
	Entitled bool `json:"entitled"`
}

// entitlement is the gated-content access check. It accepts either the
// access token minted on the success redirect or a plain email.
func (s *HTTPServer) entitlement(c *gin.Context) {
	if token := c.Query("token"); token != "" {
		entitled, err := s.confirmer.CheckEntitlement(token)
		if err != nil {
			s.logger.Debug("Access token rejected", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.JSON(http.StatusOK, EntitlementResponse{Entitled: entitled})
		return
	}

	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token or email is required"})
		return
	}
	normalized, err := validation.ValidateAndNormalizeEmail(email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format: " + err.Error()})
		return
	}

	entitled, err := s.confirmer.CheckEntitlementByEmail(normalized)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check entitlement"})
		return
	}
	c.JSON(http.StatusOK, EntitlementResponse{Entitled: entitled})
}

// adminAuth guards the admin read/write endpoints with a static bearer key.
func (s *HTTPServer) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.config.AdminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin API disabled"})
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.config.AdminAPIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// listPayments returns recorded payments, newest first.
func (s *HTTPServer) listPayments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	payments, err := s.repo.ListPayments(limit, offset)
	if err != nil {
		s.logger.Error("Failed to list payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// SetEntitlementRequest represents the JSON body for a manual grant/revoke
type SetEntitlementRequest struct {
	Email string `json:"email" binding:"required"`
	Paid  *bool  `json:"paid" binding:"required"`
}

// setEntitlement is the manual grant/revoke used to repair degraded
// confirmations.
func (s *HTTPServer) setEntitlement(c *gin.Context) {
	var req SetEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	account, err := s.repo.GetAccountByEmail(validation.NormalizeEmail(req.Email))
	if err != nil {
		s.logger.Error("Failed to get account", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get account"})
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	if err := s.repo.SetAccountPaid(account.ID, *req.Paid); err != nil {
		s.logger.Error("Failed to update entitlement", "error", err, "id", account.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update entitlement"})
		return
	}

	s.logger.Info("Entitlement updated manually", "id", account.ID, "paid", *req.Paid)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
