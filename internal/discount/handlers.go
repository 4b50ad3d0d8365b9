package discount

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/merchkit/bundle-engine/internal/common"
	"github.com/merchkit/bundle-engine/internal/engine"
	"github.com/merchkit/bundle-engine/internal/obs"
	"github.com/merchkit/bundle-engine/internal/policystore"
)

const defaultMaxCartLines = 500

// maxPayloadBytes bounds stored policy payloads; the admin app's configs are
// a few KB even with design fields attached.
const maxPayloadBytes = 64 << 10

// Handler exposes the evaluation and policy management endpoints.
type Handler struct {
	Svc          *Service
	Store        *policystore.Store
	Validate     *validator.Validate
	MaxCartLines int
}

type evaluateRequest struct {
	Cart          *cartPayload    `json:"cart" validate:"required"`
	Configuration json.RawMessage `json:"configuration"`
}

type cartPayload struct {
	Lines []linePayload `json:"lines" validate:"dive"`
}

type linePayload struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// Evaluate runs the engine against an inline configuration payload. The cart
// shape is the host's contract and is validated strictly; the configuration is
// the merchant's and never fails the request.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return
	}
	var req evaluateRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	lines, err := h.cartLines(req.Cart, &req)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result := h.Svc.Evaluate(r.Context(), lines, req.Configuration)
	writeResult(w, result)
}

type storedEvaluateRequest struct {
	Cart *cartPayload `json:"cart" validate:"required"`
}

// EvaluateStored runs the engine against the payload stored for the shop/key
// pair in the URL.
func (h *Handler) EvaluateStored(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return
	}
	shopID, key, ok := policyPath(w, r)
	if !ok {
		return
	}
	var req storedEvaluateRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	lines, err := h.cartLines(req.Cart, &req)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result := h.Svc.EvaluateStored(r.Context(), shopID, key, lines)
	writeResult(w, result)
}

// PutPolicy stores a raw configuration payload. The body must be valid JSON
// but does not have to normalize into a usable policy: merchants save drafts,
// and unusable payloads simply evaluate to the empty result.
func (h *Handler) PutPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "policy store not configured", nil)
		return
	}
	shopID, key, ok := policyPath(w, r)
	if !ok {
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "read payload", nil)
		return
	}
	if len(payload) > maxPayloadBytes {
		common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "policy payload too large", nil)
		return
	}
	if !json.Valid(payload) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "payload must be valid JSON", nil)
		return
	}
	if err := h.Store.Put(r.Context(), shopID, key, payload); err != nil {
		recordPolicyWrite("put", "error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to store policy", nil)
		return
	}
	recordPolicyWrite("put", "ok")
	_, usable := engine.ParseConfig(payload)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"shopId": shopID,
			"key":    key,
			"usable": usable,
		},
	})
}

// GetPolicy returns the stored raw payload.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "policy store not configured", nil)
		return
	}
	shopID, key, ok := policyPath(w, r)
	if !ok {
		return
	}
	payload, err := h.Store.Get(r.Context(), shopID, key)
	if err != nil {
		if errors.Is(err, policystore.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "policy not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load policy", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// DeletePolicy removes the stored payload.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "policy store not configured", nil)
		return
	}
	shopID, key, ok := policyPath(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), shopID, key); err != nil {
		recordPolicyWrite("delete", "error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete policy", nil)
		return
	}
	recordPolicyWrite("delete", "ok")
	w.WriteHeader(http.StatusNoContent)
}

// ListPolicies returns the bundle keys stored for a shop.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "policy store not configured", nil)
		return
	}
	shopID := strings.TrimSpace(chi.URLParam(r, "shopID"))
	if shopID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "shopID is required", nil)
		return
	}
	keys, err := h.Store.Keys(r.Context(), shopID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list policies", nil)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"keys": keys}})
}

// cartLines validates the request and converts the cart payload into engine
// input. The validated value is the full request struct so cross-field tags
// keep working.
func (h *Handler) cartLines(cart *cartPayload, req any) ([]engine.CartLine, error) {
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return nil, errors.New("invalid cart payload")
		}
	} else if cart == nil {
		return nil, errors.New("cart is required")
	}
	maxLines := h.MaxCartLines
	if maxLines <= 0 {
		maxLines = defaultMaxCartLines
	}
	if len(cart.Lines) > maxLines {
		return nil, errors.New("cart has too many lines")
	}
	lines := make([]engine.CartLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, engine.CartLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
		})
	}
	return lines, nil
}

func policyPath(w http.ResponseWriter, r *http.Request) (shopID, key string, ok bool) {
	shopID = strings.TrimSpace(chi.URLParam(r, "shopID"))
	key = strings.TrimSpace(chi.URLParam(r, "key"))
	if shopID == "" || key == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "shopID and key are required", nil)
		return "", "", false
	}
	return shopID, key, true
}

func writeResult(w http.ResponseWriter, result engine.Result) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data": result,
		"meta": map[string]string{"evaluationId": uuid.NewString()},
	})
}

func recordPolicyWrite(op, result string) {
	if obs.PolicyWritesTotal == nil {
		return
	}
	obs.PolicyWritesTotal.WithLabelValues(op, result).Inc()
}
