package v1

import (
	"errors"
	"net/http"
	"time"

	"cip-network-backend/internal/delivery/http/middleware"
	"cip-network-backend/internal/delivery/http/response"
	"cip-network-backend/internal/domain"
	"cip-network-backend/pkg/apperror"
	"cip-network-backend/pkg/logger"
	"cip-network-backend/pkg/security"
	"cip-network-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	now       func() time.Time
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
		now:       time.Now,
	}

	api.POST("/contatti", handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the site owner by email. The response is the same whether or not the email could be delivered. Limited to 5 requests per minute per client address.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response{data=domain.ContactEcho}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/contatti [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problems := validation.FormatValidationErrors(err)
		if !validation.IsValidationError(err) {
			logger.Log.Infow("Contact payload could not be decoded",
				"error", err,
				"request_id", response.RequestID(c),
			)
		}
		security.DefaultLogger().LogValidationFailed(c.Request.Context(), c.ClientIP(), response.RequestID(c), problems)
		c.Error(apperror.Invalid("Dati non validi", problems, err))
		return
	}

	resp, err := h.contactUC.SubmitContact(c.Request.Context(), c.ClientIP(), req.Submission())
	if err != nil {
		var rlErr *domain.RateLimitError
		if errors.As(err, &rlErr) {
			middleware.SetRateLimitHeaders(c, rlErr.Result, h.now())
			middleware.LogRateLimitTriggered(c, security.EventRateLimitTriggered)
			c.Error(apperror.TooManyRequests(middleware.RateLimitMessage, err))
			return
		}
		c.Error(apperror.Internal(err))
		return
	}

	if resp.RateLimit.Limit > 0 {
		middleware.SetRateLimitHeaders(c, resp.RateLimit, h.now())
	}
	response.Success(c, http.StatusOK, resp.Message, resp.Data)
}
