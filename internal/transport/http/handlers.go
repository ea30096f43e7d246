package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"talkinghead/internal/application/synthesis"
	"talkinghead/internal/domain/avatar"
	"talkinghead/internal/domain/job"
)

const maxUploadBytes = 512 << 20

type jobUseCases interface {
	CreateDraft(ctx context.Context, input synthesis.CreateDraftInput) (*job.Job, error)
	Enqueue(ctx context.Context, id string) (*job.Job, error)
	Cancel(ctx context.Context, id string) (*job.Job, error)
	Retry(ctx context.Context, id string) (*job.Job, error)
	Remove(ctx context.Context, id string) error
	GetStatus(ctx context.Context, id string) (job.StatusReport, error)
	GetJob(ctx context.Context, id string) (*job.Job, error)
	ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error)
	QueueSnapshot(ctx context.Context) (synthesis.QueueSnapshot, error)
}

type catalogUseCases interface {
	CreateModel(ctx context.Context, name, fileName string, r io.Reader) (*avatar.Model, error)
	CreateVoice(ctx context.Context, name, referenceText, fileName string, r io.Reader) (*avatar.Voice, error)
	ListModels(ctx context.Context) ([]avatar.Model, error)
	ListVoices(ctx context.Context) ([]avatar.Voice, error)
	DeleteModel(ctx context.Context, id string) error
	DeleteVoice(ctx context.Context, id string) error
}

type resultStore interface {
	ResolveResultPath(path string) (string, error)
}

// Handler wires HTTP handlers with application use cases.
type Handler struct {
	jobs    jobUseCases
	catalog catalogUseCases
	results resultStore
}

// NewHandler creates the HTTP handler set.
func NewHandler(jobs jobUseCases, catalog catalogUseCases, results resultStore) *Handler {
	return &Handler{jobs: jobs, catalog: catalog, results: results}
}

// CreateJob handles POST /api/jobs.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ModelID   string `json:"modelId"`
		VoiceID   string `json:"voiceId"`
		Text      string `json:"text"`
		AudioPath string `json:"audioPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.jobs.CreateDraft(r.Context(), synthesis.CreateDraftInput{
		ModelID:    body.ModelID,
		VoiceID:    body.VoiceID,
		ScriptText: body.Text,
		AudioPath:  body.AudioPath,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetJob handles GET /api/jobs/{id} and reports status, progress, message
// and (for waiting jobs) the queue position.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	report, err := h.jobs.GetStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListJobs handles GET /api/jobs?status=...
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	status := job.Status(r.URL.Query().Get("status"))
	jobs, err := h.jobs.ListByStatus(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// DeleteJob handles DELETE /api/jobs/{id}.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnqueueJob handles POST /api/jobs/{id}/enqueue.
func (h *Handler) EnqueueJob(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.jobs.Enqueue)
}

// CancelJob handles POST /api/jobs/{id}/cancel.
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.jobs.Cancel)
}

// RetryJob handles POST /api/jobs/{id}/retry.
func (h *Handler) RetryJob(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.jobs.Retry)
}

func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string) (*job.Job, error)) {
	updated, err := action(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// QueueSnapshot handles GET /api/queue.
func (h *Handler) QueueSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.jobs.QueueSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// DownloadResult handles GET /api/jobs/{id}/result.
func (h *Handler) DownloadResult(w http.ResponseWriter, r *http.Request) {
	j, err := h.jobs.GetJob(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if j.Status != job.StatusCompleted {
		http.Error(w, "result not ready", http.StatusConflict)
		return
	}
	full, err := h.results.ResolveResultPath(j.ResultPath)
	if err != nil {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	streamFile(w, r, full, "video/mp4")
}

// ListModels handles GET /api/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.catalog.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// CreateModel handles POST /api/models (multipart video upload).
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	created, err := h.catalog.CreateModel(r.Context(), r.FormValue("name"), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteModel handles DELETE /api/models/{id}.
func (h *Handler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteModel(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVoices handles GET /api/voices.
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.catalog.ListVoices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

// CreateVoice handles POST /api/voices (multipart reference audio upload).
func (h *Handler) CreateVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	created, err := h.catalog.CreateVoice(r.Context(), r.FormValue("name"), r.FormValue("referenceText"), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteVoice handles DELETE /api/voices/{id}.
func (h *Handler) DeleteVoice(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteVoice(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, job.ErrNotFound),
		errors.Is(err, avatar.ErrModelNotFound),
		errors.Is(err, avatar.ErrVoiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, job.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, job.ErrInvalidInput),
		errors.Is(err, avatar.ErrInvalidUpload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
