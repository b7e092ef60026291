package results

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/elevator"
	"github.com/ziadkadry99/liftsim/internal/sim"
)

// Simulations configures POST /api/simulations. Scenario paths in requests
// are resolved below Root and may not escape it.
type Simulations struct {
	Elevator elevator.Config
	Root     string
}

// RegisterRoutes mounts result endpoints on the given router. On-demand
// simulation is only mounted when sims is non-nil.
func RegisterRoutes(r chi.Router, store *Store, sims *Simulations) {
	r.Get("/api/results", listHandler(store))
	r.Get("/api/results/compare", compareHandler(store))
	r.Get("/api/results/{id}", getHandler(store))
	r.Delete("/api/results/{id}", deleteHandler(store))
	if sims != nil {
		r.Post("/api/simulations", simulateHandler(store, sims))
	}
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{Algorithm: q.Get("algorithm"), Scenario: q.Get("scenario")}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	return f
}

func listHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := store.List(r.Context(), filterFromQuery(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if runs == nil {
			runs = []Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func getHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func deleteHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func compareHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := store.List(r.Context(), filterFromQuery(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		cmp := Compare(runs)

		switch r.URL.Query().Get("format") {
		case "markdown", "md":
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Write([]byte(RenderMarkdown(cmp)))
		case "html":
			page, err := RenderHTML(cmp)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(page)
		default:
			writeJSON(w, http.StatusOK, cmp)
		}
	}
}

type simulateRequest struct {
	Scenario  string `json:"scenario"`
	Algorithm string `json:"algorithm"`
}

func simulateHandler(store *Store, sims *Simulations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Scenario == "" || req.Algorithm == "" {
			writeError(w, http.StatusBadRequest, "scenario and algorithm are required")
			return
		}
		if !algo.Known(req.Algorithm) {
			writeError(w, http.StatusBadRequest, "unknown algorithm "+strconv.Quote(req.Algorithm))
			return
		}
		path, ok := resolveScenario(sims.Root, req.Scenario)
		if !ok {
			writeError(w, http.StatusBadRequest, "scenario must be a relative path inside the scenario directory")
			return
		}

		_, res, err := sim.RunFile(r.Context(), sims.Elevator, req.Algorithm, path)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		run := FromResult(*res)
		run.Scenario = req.Scenario
		if err := store.Record(r.Context(), run); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, run)
	}
}

// resolveScenario joins a client supplied relative path onto root,
// rejecting absolute paths and any path that climbs out of root.
func resolveScenario(root, rel string) (string, bool) {
	if filepath.IsAbs(rel) {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(root, clean), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
