package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	apperrors "github.com/fightpath/fightpath/internal/errors"
	"github.com/fightpath/fightpath/internal/output"
)

// MsgpackContentType is served when the caller accepts MessagePack.
const MsgpackContentType = "application/msgpack"

// Fights serves report metadata and reconstructed positions.
type Fights struct {
	Loader     engine.FightLoader
	SampleRate float64
}

// ActorPositionResponse is the position of a single actor.
type ActorPositionResponse struct {
	ActorID  int64         `json:"actor_id"`
	Time     float64       `json:"time"`
	Position core.Position `json:"position"`
}

// Register mounts the fight routes on r.
func (h *Fights) Register(r chi.Router) {
	r.Route("/v1/reports/{code}", func(r chi.Router) {
		r.Get("/fights", h.ListFights)
		r.Route("/fights/{fightID}", func(r chi.Router) {
			r.Get("/positions", h.Positions)
			r.Get("/frames", h.Frames)
			r.Get("/trajectories", h.Trajectories)
		})
	})
}

// ListFights handles GET /v1/reports/{code}/fights.
func (h *Fights) ListFights(w http.ResponseWriter, r *http.Request) {
	report, err := h.Loader.Report(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Positions handles GET .../positions?at=<ms>[&actor=<id>][&normalize=true].
func (h *Fights) Positions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	at, err := strconv.ParseFloat(query.Get("at"), 64)
	if err != nil {
		respondWithError(w, r, apperrors.NewInvalidInputError("query parameter at must be a report time in milliseconds"))
		return
	}

	data, ok := h.load(w, r)
	if !ok {
		return
	}

	if raw := query.Get("actor"); raw != "" {
		actorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, r, apperrors.NewInvalidInputError("query parameter actor must be an integer id"))
			return
		}
		pos, err := data.Actor(actorID, at)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ActorPositionResponse{ActorID: actorID, Time: at, Position: pos})
		return
	}

	frame, err := data.At(at, boolParam(r, "normalize"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// Frames handles GET .../frames[?rate=<fps>][&normalize=true].
func (h *Fights) Frames(w http.ResponseWriter, r *http.Request) {
	rate := h.SampleRate
	if raw := r.URL.Query().Get("rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !engine.ValidRate(parsed) || parsed > 60 {
			respondWithError(w, r, apperrors.NewInvalidInputError("query parameter rate must be between 0 and 60 frames per second"))
			return
		}
		rate = parsed
	}

	data, ok := h.load(w, r)
	if !ok {
		return
	}
	h.write(w, r, output.FormatJSON, func(f output.Formatter) (string, error) {
		return f.FormatFrames(data.Frames(rate, boolParam(r, "normalize")))
	})
}

// Trajectories handles GET .../trajectories, serving MessagePack when accepted.
func (h *Fights) Trajectories(w http.ResponseWriter, r *http.Request) {
	data, ok := h.load(w, r)
	if !ok {
		return
	}
	h.write(w, r, output.FormatJSON, func(f output.Formatter) (string, error) {
		return f.FormatTrajectories(output.Dumps(data.Trajectories, data.Report.Actors))
	})
}

func (h *Fights) load(w http.ResponseWriter, r *http.Request) (*engine.FightData, bool) {
	fightID, err := strconv.ParseInt(chi.URLParam(r, "fightID"), 10, 64)
	if err != nil {
		respondWithError(w, r, apperrors.NewInvalidInputError("fight id must be an integer"))
		return nil, false
	}
	data, err := h.Loader.LoadFight(r.Context(), chi.URLParam(r, "code"), fightID)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}
	return data, true
}

func (h *Fights) write(w http.ResponseWriter, r *http.Request, fallback output.Format, render func(output.Formatter) (string, error)) {
	format, contentType := fallback, "application/json"
	if strings.Contains(r.Header.Get("Accept"), MsgpackContentType) {
		format, contentType = output.FormatMsgpack, MsgpackContentType
	}

	body, err := render(output.NewFormatter(format))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func boolParam(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && value
}
