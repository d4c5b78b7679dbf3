package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/service"
)

// Handlers contains the HTTP handlers for the wallet pipeline.
type Handlers struct {
	auth    *service.AuthService
	intents *service.IntentService
	tracker *service.OrderTracker
}

// NewHandlers creates new pipeline handlers.
func NewHandlers(auth *service.AuthService, intents *service.IntentService, tracker *service.OrderTracker) *Handlers {
	return &Handlers{
		auth:    auth,
		intents: intents,
		tracker: tracker,
	}
}

// Login authenticates a verified identity and establishes a session.
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		IDToken  string `json:"id_token" binding:"required"`
		Provider string `json:"provider" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token and provider are required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.IDToken, req.Provider)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   "Bearer",
		"user_swa":     result.UserSWA,
		"session_id":   result.Session.ID,
	})
}

// TransferToken submits a token transfer intent for the authenticated
// session. The amount is a human-readable decimal scaled here, once,
// by the declared token decimals; the pipeline only ever sees smallest
// units.
func (h *Handlers) TransferToken(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		CAIP2ID   string `json:"caip2_id" binding:"required"`
		Recipient string `json:"recipient" binding:"required"`
		Token     string `json:"token"`
		Amount    string `json:"amount" binding:"required"`
		Decimals  *int32 `json:"decimals"`
		Wait      bool   `json:"wait"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative decimal"})
		return
	}
	decimals := int32(18)
	if req.Decimals != nil {
		decimals = *req.Decimals
	}
	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount has more precision than the token supports"})
		return
	}

	authToken, err := h.auth.GatewayAuthToken(session)
	if err != nil {
		respondError(c, err)
		return
	}

	intent := core.TransferIntent{
		CAIP2ID:   req.CAIP2ID,
		Recipient: req.Recipient,
		Token:     req.Token,
		Amount:    scaled.BigInt().String(),
	}

	jobID, err := h.intents.TransferToken(c.Request.Context(), session, authToken, intent)
	if err != nil {
		respondError(c, err)
		return
	}

	if !req.Wait {
		c.JSON(http.StatusOK, gin.H{"job_id": jobID})
		return
	}

	status, err := h.tracker.Wait(c.Request.Context(), authToken, session.UserSWA, jobID, core.IntentTypeTokenTransfer)
	if err != nil {
		// The job id stays valid; hand it back with the error so the
		// caller can resume tracking.
		c.JSON(http.StatusBadGateway, gin.H{"job_id": jobID, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": status})
}

// OrderStatus returns the order's current status without waiting.
func (h *Handlers) OrderStatus(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	intentID := c.Query("intent_id")
	if intentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intent_id is required"})
		return
	}
	intentType := core.IntentType(c.DefaultQuery("intent_type", string(core.IntentTypeTokenTransfer)))

	authToken, err := h.auth.GatewayAuthToken(session)
	if err != nil {
		respondError(c, err)
		return
	}

	status, err := h.tracker.Status(c.Request.Context(), authToken, intentID, intentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intent_id": intentID,
		"status":    status,
		"terminal":  status.IsTerminal(),
	})
}

// Me returns the authenticated wallet identity.
func (h *Handlers) Me(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_swa": session.UserSWA})
}

// respondError maps the error taxonomy to HTTP status codes. Remote
// payloads stay verbatim in the message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrEncoding),
		errors.Is(err, core.ErrUnsupportedChain):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrAuthorization),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrGateway),
		errors.Is(err, core.ErrGasPriceUnavailable),
		errors.Is(err, core.ErrTransport),
		errors.Is(err, core.ErrPolling):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
