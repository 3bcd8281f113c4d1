/*
handlers.go - HTTP API handlers for the progression engine

PURPOSE:
  Exposes the game engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Actions:
    POST   /api/punch                   Perform one action
    POST   /api/upgrades/{kind}         Purchase an upgrade level
    POST   /api/prestige                Reset for a permanent multiplier
    POST   /api/powerups/{id}/collect   Collect a displayed power-up

  State:
    GET    /api/state                   Full renderable game state
    GET    /api/upgrades                Upgrade kinds with next costs
    GET    /api/achievements            Catalog with unlock status
    GET    /api/powerups                Offers currently on display

  Saves:
    GET    /api/export                  Download save as JSON
    POST   /api/import                  Replace state from a save
    POST   /api/reset                   Wipe all progress

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call engine method (each one takes the engine lock)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, corrupt import payloads
  - 404: Unknown power-up offer or upgrade kind
  - 409: Insufficient funds, capped stat, prestige unavailable
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication. Single-profile game server; all endpoints
  are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aikazu/chpun/engine"
)

// importBodyLimit bounds the accepted import payload. Real saves are a
// few KB; anything near the limit is garbage.
const importBodyLimit = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *engine.Engine
}

// NewHandler creates a new handler around the engine.
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{Engine: e}
}

// =============================================================================
// ACTION HANDLERS
// =============================================================================

// Punch performs one action and reports the hit.
// POST /api/punch
func (h *Handler) Punch(w http.ResponseWriter, r *http.Request) {
	hit, streak := h.Engine.Punch()

	writeJSON(w, http.StatusOK, PunchResponse{
		Amount:      hit.Amount.String(),
		Crit:        hit.IsCrit,
		ComboStreak: streak,
		Resource:    h.Engine.Snapshot().Resource.String(),
	})
}

// PurchaseUpgrade buys the next level of the named upgrade kind.
// POST /api/upgrades/{kind}
func (h *Handler) PurchaseUpgrade(w http.ResponseWriter, r *http.Request) {
	kind := engine.UpgradeKind(chi.URLParam(r, "kind"))

	if err := h.Engine.Upgrade(kind); err != nil {
		writeEngineError(w, "Upgrade failed", err)
		return
	}

	v := h.Engine.Snapshot()
	writeJSON(w, http.StatusOK, UpgradeResponse{
		Kind:     string(kind),
		NextCost: v.Costs[kind].String(),
		Resource: v.Resource.String(),
	})
}

// Prestige resets progress for a permanent multiplier.
// POST /api/prestige
func (h *Handler) Prestige(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Prestige(); err != nil {
		writeEngineError(w, "Prestige failed", err)
		return
	}

	v := h.Engine.Snapshot()
	writeJSON(w, http.StatusOK, PrestigeResponse{
		PrestigePoints:      v.PrestigePoints,
		PrestigeRequirement: v.PrestigeRequirement.String(),
	})
}

// CollectPowerUp collects a displayed offer by its offer ID.
// POST /api/powerups/{id}/collect
func (h *Handler) CollectPowerUp(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid power-up id", err)
		return
	}

	if err := h.Engine.CollectPowerUp(id); err != nil {
		writeEngineError(w, "Collect failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(h.Engine.Snapshot(), time.Now()))
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the full renderable game state.
// GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateDTO(h.Engine.Snapshot(), time.Now()))
}

// ListUpgrades returns every upgrade kind with its next-level cost.
// GET /api/upgrades
func (h *Handler) ListUpgrades(w http.ResponseWriter, r *http.Request) {
	v := h.Engine.Snapshot()

	dtos := make([]UpgradeDTO, 0, len(engine.AllUpgrades()))
	for _, kind := range engine.AllUpgrades() {
		dtos = append(dtos, UpgradeDTO{Kind: string(kind), Cost: v.Costs[kind].String()})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAchievements returns the catalog with unlock flags. Hidden entries
// stay masked until unlocked.
// GET /api/achievements
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	states := h.Engine.AchievementStates()

	dtos := make([]AchievementDTO, 0, len(states))
	for _, s := range states {
		dto := AchievementDTO{
			ID:          string(s.ID),
			Name:        s.Name,
			Description: s.Description,
			Hidden:      s.Hidden,
			Unlocked:    s.Unlocked,
		}
		if s.Hidden && !s.Unlocked {
			dto.Name = "???"
			dto.Description = "Hidden achievement"
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListPowerUps returns the offers currently on display.
// GET /api/powerups
func (h *Handler) ListPowerUps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateDTO(h.Engine.Snapshot(), time.Now()).Offers)
}

// =============================================================================
// SAVE HANDLERS
// =============================================================================

// ExportSave serializes the game state for download.
// GET /api/export
func (h *Handler) ExportSave(w http.ResponseWriter, r *http.Request) {
	data, err := h.Engine.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="chpun-save.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportSave replaces the game state from an uploaded save.
// POST /api/import
func (h *Handler) ImportSave(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, importBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	if err := h.Engine.Import(data); err != nil {
		writeEngineError(w, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(h.Engine.Snapshot(), time.Now()))
}

// ResetGame wipes all progress back to initial state.
// POST /api/reset
func (h *Handler) ResetGame(w http.ResponseWriter, r *http.Request) {
	h.Engine.Reset()
	writeJSON(w, http.StatusOK, toStateDTO(h.Engine.Snapshot(), time.Now()))
}

// =============================================================================
// HELPERS
// =============================================================================

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, engine.ErrCorruptSave), errors.Is(err, engine.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, message, err)
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
