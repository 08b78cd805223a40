package control

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pauel3312/osci-render/internal/engine"
	"github.com/pauel3312/osci-render/internal/platform/metrics"
	"github.com/pauel3312/osci-render/internal/shape"
)

// maxBodyBytes caps request bodies and stream messages.
const maxBodyBytes = 8 << 20

// ParamController is the parameter and status side of the engine.
type ParamController interface {
	Params() engine.Params
	Status() engine.Status
	SetRotateSpeed(speed float64) error
	SetTranslation(speed float64, v shape.Vector2) error
	SetScale(factor float64) error
	SetOutput(volume, threshold float64) error
	SetEffect(name string, amount float64) error
	Effects() []engine.EffectSetting
}

// Handler exposes the control API using go-chi.
type Handler struct {
	svc     *Service
	params  ParamController
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler. Metrics may be nil to disable metric
// recording (e.g. in tests).
func NewHandler(svc *Service, params ParamController, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, params: params, log: log, metrics: m}
}

// Routes registers every control endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/frames", func(r chi.Router) {
		r.Get("/", h.ListFrames)
		r.Post("/", h.AddFrame)
		r.Get("/stream", h.StreamFrames)
		r.Post("/live/shapes", h.AppendShapes)
		r.Route("/{frame_id}", func(r chi.Router) {
			r.Get("/", h.GetFrame)
			r.Delete("/", h.RemoveFrame)
			r.Post("/activate", h.ActivateFrame)
		})
	})
	r.Route("/params", func(r chi.Router) {
		r.Get("/", h.GetParams)
		r.Put("/rotation", h.SetRotation)
		r.Put("/translation", h.SetTranslation)
		r.Put("/scale", h.SetScale)
		r.Put("/output", h.SetOutput)
		r.Get("/effects", h.ListEffects)
		r.Put("/effects/{name}", h.SetEffect)
	})
	r.Get("/status", h.GetStatus)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("write response failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.log.Debug("invalid request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) recordLibrary() {
	if h.metrics != nil {
		h.metrics.SetStoredFrames(h.svc.FrameCount())
	}
}

// ingestStatus maps frame ingestion errors to HTTP status codes.
func ingestStatus(err error) int {
	switch {
	case errors.Is(err, ErrFrameNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidShape),
		errors.Is(err, engine.ErrEmptyFrame),
		errors.Is(err, engine.ErrDegenerateShape):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AddFrame handles POST /frames.
// Body: {"name": "cube", "shapes": [...], "activate": true}.
func (h *Handler) AddFrame(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if !h.decode(w, r, &req) {
		return
	}
	shapes, err := ToShapes(req.Shapes)
	if err == nil {
		var id FrameID
		id, err = h.svc.AddFrame(req.Name, shapes, req.Activate)
		if err == nil {
			h.log.Info("frame added",
				slog.String("frame_id", string(id)),
				slog.String("name", req.Name),
				slog.Int("shapes", len(shapes)),
				slog.Bool("active", req.Activate))
			h.recordLibrary()
			h.writeJSON(w, http.StatusCreated, frameCreated{ID: id})
			return
		}
	}

	h.log.Info("frame rejected", slog.String("name", req.Name), slog.String("error", err.Error()))
	http.Error(w, err.Error(), ingestStatus(err))
}

// ListFrames handles GET /frames.
func (h *Handler) ListFrames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Frames())
}

// GetFrame handles GET /frames/{frame_id}.
func (h *Handler) GetFrame(w http.ResponseWriter, r *http.Request) {
	id := FrameID(chi.URLParam(r, "frame_id"))
	f, ok := h.svc.Frame(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	detail := frameDetail{FrameSummary: summarize(f, h.svc.Active())}
	for _, s := range f.Shapes {
		sj, err := FromShape(s)
		if err != nil {
			h.log.Error("encode frame failed", slog.String("frame_id", string(id)), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		detail.Data = append(detail.Data, sj)
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// ActivateFrame handles POST /frames/{frame_id}/activate.
func (h *Handler) ActivateFrame(w http.ResponseWriter, r *http.Request) {
	id := FrameID(chi.URLParam(r, "frame_id"))
	if err := h.svc.Activate(id); err != nil {
		h.log.Info("activate failed", slog.String("frame_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(ingestStatus(err))
		return
	}
	h.log.Info("frame activated", slog.String("frame_id", string(id)))
	w.WriteHeader(http.StatusOK)
}

// RemoveFrame handles DELETE /frames/{frame_id}.
func (h *Handler) RemoveFrame(w http.ResponseWriter, r *http.Request) {
	id := FrameID(chi.URLParam(r, "frame_id"))
	if err := h.svc.RemoveFrame(id); err != nil {
		w.WriteHeader(ingestStatus(err))
		return
	}
	h.log.Info("frame removed", slog.String("frame_id", string(id)))
	h.recordLibrary()
	w.WriteHeader(http.StatusNoContent)
}

// AppendShapes handles POST /frames/live/shapes. Body: [ShapeJSON...].
func (h *Handler) AppendShapes(w http.ResponseWriter, r *http.Request) {
	var wire []ShapeJSON
	if !h.decode(w, r, &wire) {
		return
	}
	shapes, err := ToShapes(wire)
	if err == nil {
		err = h.svc.AppendLive(shapes)
	}
	if err != nil {
		http.Error(w, err.Error(), ingestStatus(err))
		return
	}
	h.log.Debug("shapes appended", slog.Int("shapes", len(shapes)))
	w.WriteHeader(http.StatusCreated)
}

// GetParams handles GET /params.
func (h *Handler) GetParams(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.params.Params())
}

// GetStatus handles GET /status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, struct {
		engine.Status
		Active FrameID `json:"active_frame,omitempty"`
	}{h.params.Status(), h.svc.Active()})
}

// setParam finishes a parameter update: 400 on a rejected value, else the
// new snapshot.
func (h *Handler) setParam(w http.ResponseWriter, name string, err error) {
	if err != nil {
		h.log.Info("parameter rejected", slog.String("param", name), slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p := h.params.Params()
	h.log.Debug("parameter updated", slog.String("param", name), slog.Any("params", p))
	h.writeJSON(w, http.StatusOK, p)
}

// SetRotation handles PUT /params/rotation. Body: {"speed": 0.4}.
func (h *Handler) SetRotation(w http.ResponseWriter, r *http.Request) {
	var req rotationRequest
	if !h.decode(w, r, &req) {
		return
	}
	cur := h.params.Params()
	h.setParam(w, "rotation", h.params.SetRotateSpeed(valueOr(req.Speed, cur.RotateSpeed)))
}

// SetTranslation handles PUT /params/translation. Body: {"speed": 1, "x": 0.2, "y": 0}.
func (h *Handler) SetTranslation(w http.ResponseWriter, r *http.Request) {
	var req translationRequest
	if !h.decode(w, r, &req) {
		return
	}
	cur := h.params.Params()
	v := shape.Vec(valueOr(req.X, cur.TranslateVector.X), valueOr(req.Y, cur.TranslateVector.Y))
	h.setParam(w, "translation", h.params.SetTranslation(valueOr(req.Speed, cur.TranslateSpeed), v))
}

// SetScale handles PUT /params/scale. Body: {"factor": 1.5}.
func (h *Handler) SetScale(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if !h.decode(w, r, &req) {
		return
	}
	cur := h.params.Params()
	h.setParam(w, "scale", h.params.SetScale(valueOr(req.Factor, cur.Scale)))
}

// SetOutput handles PUT /params/output. Body: {"volume": 1, "threshold": 1}.
func (h *Handler) SetOutput(w http.ResponseWriter, r *http.Request) {
	var req outputRequest
	if !h.decode(w, r, &req) {
		return
	}
	cur := h.params.Params()
	h.setParam(w, "output", h.params.SetOutput(valueOr(req.Volume, cur.Volume), valueOr(req.Threshold, cur.Threshold)))
}

// ListEffects handles GET /params/effects.
func (h *Handler) ListEffects(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.params.Effects())
}

// SetEffect handles PUT /params/effects/{name}. Body: {"amount": 0.5}; 0 disables.
func (h *Handler) SetEffect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req effectRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.params.SetEffect(name, valueOr(req.Amount, 0)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrUnknownEffect) {
			status = http.StatusNotFound
		}
		h.log.Info("effect rejected", slog.String("effect", name), slog.String("error", err.Error()))
		http.Error(w, err.Error(), status)
		return
	}
	h.log.Debug("effect updated", slog.String("effect", name))
	h.writeJSON(w, http.StatusOK, h.params.Effects())
}
