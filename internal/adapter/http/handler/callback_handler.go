package handler

import (
	"encoding/json"
	"strings"

	"payment-callback-gateway/internal/core/ports"
	"payment-callback-gateway/pkg/apperror"
	"payment-callback-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// CallbackHandler handles payment-provider callback endpoints.
type CallbackHandler struct {
	legacySvc ports.CallbackService
	violetSvc ports.CallbackService
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(legacySvc, violetSvc ports.CallbackService) *CallbackHandler {
	return &CallbackHandler{legacySvc: legacySvc, violetSvc: violetSvc}
}

// violetRequiredFields are mandatory on the VioletPay route; the legacy
// route stays lenient for compatibility with its looser senders.
var violetRequiredFields = []string{"ref_kode", "nominal", "status", "signature"}

// LegacyCallback handles POST /callback/payment.
func (h *CallbackHandler) LegacyCallback(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		response.Reject(c, err)
		return
	}

	if err := h.legacySvc.Resolve(c.Request.Context(), fields); err != nil {
		response.Reject(c, err)
		return
	}
	response.Ack(c, "Callback received")
}

// VioletCallback handles POST /webhook/violetpay.
func (h *CallbackHandler) VioletCallback(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		response.Reject(c, err)
		return
	}

	var missing []string
	for _, f := range violetRequiredFields {
		if strings.TrimSpace(fields[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		response.Reject(c, apperror.ErrMissingFields(strings.Join(missing, ", ")))
		return
	}

	if err := h.violetSvc.Resolve(c.Request.Context(), fields); err != nil {
		response.Reject(c, err)
		return
	}
	response.Ack(c, "Callback received")
}

// bindFields decodes the callback body into a flat string map. Providers
// send either JSON or form-urlencoded; numbers arrive as json.Number so an
// amount like 10000 never turns into "10000.000000" on the way through.
func bindFields(c *gin.Context) (map[string]string, error) {
	fields := make(map[string]string)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()

		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, apperror.ErrMalformedBody()
		}
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case json.Number:
				fields[k] = val.String()
			case bool:
				if val {
					fields[k] = "true"
				} else {
					fields[k] = "false"
				}
			case nil:
				// skip
			default:
				// nested objects/arrays carry nothing the resolution needs
			}
		}
		return fields, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, apperror.ErrMalformedBody()
	}
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}
