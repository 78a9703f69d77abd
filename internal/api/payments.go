package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shifty/server/internal/payments"
	"shifty/server/internal/queue"
)

const msgWebhookInvalid = "Reference and a valid status (captured|failed) are required"

type PaymentIntentRequest struct {
	Amount    *float64 `json:"amount"`
	ListingID string   `json:"listingId"`
	Method    string   `json:"method"`
}

type WebhookRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	var amount float64
	if req.Amount != nil {
		amount = *req.Amount
	}

	intent, err := h.payments.CreateIntent(payments.IntentRequest{
		Amount:    amount,
		ListingID: req.ListingID,
		Method:    req.Method,
	})
	switch {
	case errors.Is(err, payments.ErrAmountTooLow):
		c.JSON(http.StatusBadRequest, gin.H{"error": h.payments.MinAmountMessage()})
		return
	case errors.Is(err, payments.ErrInvalidMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method must be upi or card"})
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to create payment intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}

	c.JSON(http.StatusCreated, intent)
}

func (h *Handler) GetPaymentIntent(c *gin.Context) {
	intent, err := h.payments.GetIntent(c.Param("reference"))
	if errors.Is(err, payments.ErrIntentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment intent not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get payment intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment intent"})
		return
	}

	c.JSON(http.StatusOK, intent)
}

func (h *Handler) PaymentWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgWebhookInvalid})
		return
	}

	receipt, err := h.payments.ReceiveWebhook(req.Reference, req.Status)
	switch {
	case errors.Is(err, payments.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgWebhookInvalid})
		return
	case errors.Is(err, payments.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment intent not found"})
		return
	case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrQueueClosed):
		h.logger.WithError(err).WithField("reference", req.Reference).Warn("Webhook event rejected")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook queue unavailable, retry later"})
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to accept webhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept webhook"})
		return
	}

	c.JSON(http.StatusOK, receipt)
}
