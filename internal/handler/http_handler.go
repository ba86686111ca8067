package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/service"
)

// HTTPHandler handles HTTP requests
type HTTPHandler struct {
	blueprints *service.BlueprintService
	contracts  *service.ContractService
	lifecycle  *service.LifecycleService
	log        *logger.Logger
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(
	blueprints *service.BlueprintService,
	contracts *service.ContractService,
	lifecycle *service.LifecycleService,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		blueprints: blueprints,
		contracts:  contracts,
		lifecycle:  lifecycle,
		log:        log.WithComponent("http"),
	}
}

// RegisterRoutes binds every API route on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)

	// Blueprint routes
	mux.HandleFunc("/api/v1/blueprints", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListBlueprints(w, r)
		case http.MethodPost:
			h.CreateBlueprint(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/blueprints/get", h.GetBlueprint)
	mux.HandleFunc("/api/v1/blueprints/delete", h.DeleteBlueprint)

	// Contract routes
	mux.HandleFunc("/api/v1/contracts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListContracts(w, r)
		case http.MethodPost:
			h.CreateContract(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/contracts/get", h.GetContract)
	mux.HandleFunc("/api/v1/contracts/stats", h.ContractStats)
	mux.HandleFunc("/api/v1/contracts/update", h.UpdateContract)
	mux.HandleFunc("/api/v1/contracts/delete", h.DeleteContract)
	mux.HandleFunc("/api/v1/data", h.ClearAllData)

	// Lifecycle routes
	mux.HandleFunc("/api/v1/contracts/transition", h.TransitionContract)
	mux.HandleFunc("/api/v1/contracts/approve", h.lifecycleAction(h.lifecycle.Approve))
	mux.HandleFunc("/api/v1/contracts/send", h.lifecycleAction(h.lifecycle.Send))
	mux.HandleFunc("/api/v1/contracts/sign", h.lifecycleAction(h.lifecycle.Sign))
	mux.HandleFunc("/api/v1/contracts/lock", h.lifecycleAction(h.lifecycle.Lock))
	mux.HandleFunc("/api/v1/contracts/revoke", h.lifecycleAction(h.lifecycle.Revoke))
}

// Health reports liveness
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ── Blueprints ───────────────────────────────────────────────────────────────

type createBlueprintBody struct {
	Name   string             `json:"name"`
	Fields []repository.Field `json:"fields"`
}

// CreateBlueprint handles create blueprint HTTP requests
func (h *HTTPHandler) CreateBlueprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body createBlueprintBody
	if !h.decode(w, r, &body) {
		return
	}

	blueprint, err := h.blueprints.CreateBlueprint(r.Context(), &service.CreateBlueprintRequest{
		Name:   body.Name,
		Fields: body.Fields,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, blueprint)
}

// GetBlueprint handles get blueprint HTTP requests
func (h *HTTPHandler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	blueprint, err := h.blueprints.GetBlueprint(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, blueprint)
}

// ListBlueprints handles list blueprints HTTP requests
func (h *HTTPHandler) ListBlueprints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	blueprints, err := h.blueprints.ListBlueprints(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blueprints": blueprints,
		"total":      len(blueprints),
	})
}

// DeleteBlueprint handles delete blueprint HTTP requests
func (h *HTTPHandler) DeleteBlueprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	if err := h.blueprints.DeleteBlueprint(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ── Contracts ────────────────────────────────────────────────────────────────

type createContractBody struct {
	Name        string         `json:"name"`
	BlueprintID string         `json:"blueprintId"`
	FieldValues map[string]any `json:"fieldValues"`
}

type updateContractBody struct {
	ID          string         `json:"id"`
	Name        *string        `json:"name"`
	FieldValues map[string]any `json:"fieldValues"`
}

type transitionBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type idBody struct {
	ID string `json:"id"`
}

// CreateContract handles create contract HTTP requests
func (h *HTTPHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body createContractBody
	if !h.decode(w, r, &body) {
		return
	}

	contract, err := h.contracts.CreateContract(r.Context(), &service.CreateContractRequest{
		Name:        body.Name,
		BlueprintID: body.BlueprintID,
		FieldValues: body.FieldValues,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, contract)
}

// GetContract returns the lifecycle view of a contract
func (h *HTTPHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	view, err := h.lifecycle.View(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ListContracts handles list contracts HTTP requests
func (h *HTTPHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	group, err := lifecycle.ParseGroup(q.Get("group"))
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("group", err.Error()))
		return
	}

	var status lifecycle.Status
	if raw := q.Get("status"); raw != "" {
		status, err = lifecycle.ParseStatus(raw)
		if err != nil {
			h.writeError(w, r, errors.InvalidInput("status", err.Error()))
			return
		}
	}

	contracts, err := h.contracts.ListContracts(r.Context(), service.ListContractsFilter{
		Group:  group,
		Status: status,
		Query:  q.Get("q"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contracts": contracts,
		"total":     len(contracts),
	})
}

// ContractStats returns the dashboard counters
func (h *HTTPHandler) ContractStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.contracts.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// UpdateContract handles edits of unlocked contracts
func (h *HTTPHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body updateContractBody
	if !h.decode(w, r, &body) {
		return
	}
	if body.ID == "" {
		h.writeError(w, r, errors.InvalidInput("id", "contract ID is required"))
		return
	}

	contract, err := h.contracts.UpdateContract(r.Context(), &service.UpdateContractRequest{
		ID:          body.ID,
		Name:        body.Name,
		FieldValues: body.FieldValues,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contract)
}

// DeleteContract handles delete contract HTTP requests
func (h *HTTPHandler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.requireID(w, r)
	if !ok {
		return
	}

	if err := h.contracts.DeleteContract(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearAllData wipes both collections
func (h *HTTPHandler) ClearAllData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.contracts.ClearAllData(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// TransitionContract moves a contract to the requested status
func (h *HTTPHandler) TransitionContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body transitionBody
	if !h.decode(w, r, &body) {
		return
	}
	if body.ID == "" {
		h.writeError(w, r, errors.InvalidInput("id", "contract ID is required"))
		return
	}

	target, err := lifecycle.ParseStatus(body.Status)
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("status", err.Error()))
		return
	}

	contract, err := h.lifecycle.Transition(r.Context(), body.ID, target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contract)
}

func (h *HTTPHandler) lifecycleAction(
	action func(context.Context, string) (*repository.Contract, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var body idBody
		if !h.decode(w, r, &body) {
			return
		}
		if body.ID == "" {
			h.writeError(w, r, errors.InvalidInput("id", "contract ID is required"))
			return
		}

		contract, err := action(r.Context(), body.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, contract)
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details []string         `json:"details,omitempty"`
}

// httpStatus maps an application error code to an HTTP status.
func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict, errors.ErrCodeLocked, errors.ErrCodeInvalidTransition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := httpStatus(code)

	message := errors.Message(err)
	if code == errors.ErrCodeInvalidTransition || code == errors.ErrCodeLocked {
		message = err.Error()
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		message = "internal server error"
	}

	writeJSON(w, status, errorBody{Error: errorPayload{
		Code:    code,
		Message: message,
		Details: errors.Details(err),
	}})
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, errors.InvalidInput("body", "invalid request body"))
		return false
	}
	return true
}

func (h *HTTPHandler) requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, errors.InvalidInput("id", "ID is required"))
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
