package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"brawl/internal/game"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; inputs and match requests are tiny.
const maxBodyBytes = 4 << 10

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.engine.GetSnapshot()
	if !ok {
		writeError(w, "No match running", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Rendering disabled", http.StatusNotImplemented)
		return
	}
	snap, ok := h.engine.GetSnapshot()
	if !ok {
		writeError(w, "No match running", http.StatusNotFound)
		return
	}

	// Encode fully before writing so errors can still become a 500
	var buf bytes.Buffer
	if err := h.renderer.EncodePNG(&buf, &snap); err != nil {
		log.Printf("❌ Frame render failed: %v", err)
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		P1 string `json:"p1"`
		P2 string `json:"p2"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	p1, err := game.ParseArchetype(req.P1)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p2, err := game.ParseArchetype(req.P2)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.engine.StartMatch(p1, p2); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{
		"success": true,
		"p1":      p1.String(),
		"p2":      p2.String(),
	})
}

func (h *routerHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Restart(); err != nil {
		if errors.Is(err, game.ErrNoMatch) {
			writeError(w, err.Error(), http.StatusConflict)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSubmitInput(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, "Invalid slot", http.StatusBadRequest)
		return
	}
	if !h.inputs.Allow(slot) {
		RecordConnectionRejected("input_rate")
		w.Header().Set("Retry-After", "1")
		writeError(w, "Too many inputs for this slot", http.StatusTooManyRequests)
		return
	}

	var in game.Input
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.SubmitInput(slot, in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Roster())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"eventLog": h.engine.EventLogStats(),
	}
	if snap, ok := h.engine.GetSnapshot(); ok {
		stats["tick"] = snap.Tick
		stats["over"] = snap.Over
		stats["particles"] = len(snap.Particles)
	}
	writeJSON(w, stats)
}

// Helper functions (package-level for reuse)

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
