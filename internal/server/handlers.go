package server

import (
	"encoding/json"
	"net/http"

	"github.com/shubh-37/ideaforge/internal/ai"
	"github.com/shubh-37/ideaforge/internal/engine"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
)

type Handlers struct {
	engine *engine.Engine
}

func NewHandlers(eng *engine.Engine) *Handlers {
	return &Handlers{engine: eng}
}

type ideaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type consultRequest struct {
	Query       string       `json:"query"`
	Section     string       `json:"section"`
	ChatHistory []ai.Message `json:"chatHistory"`
}

type refineRequest struct {
	Section     string `json:"section"`
	Instruction string `json:"instruction"`
}

type sparkRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ideaerr.NewInvalidRequest("Malformed request body.")
	}
	return nil
}

// HandleCreate handles POST /ideas — create a raw idea.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ideaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	idea, err := h.engine.CreateIdea(r.Context(), subjectFrom(r), req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, idea)
}

// HandleList handles GET /ideas — list the caller's ideas, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.engine.ListIdeas(r.Context(), subjectFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// HandleUpdate handles PATCH /ideas/{id} — update core fields.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ideaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.engine.UpdateIdea(r.Context(), subjectFrom(r), r.PathValue("id"), req.Title, req.Description); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea updated successfully."})
}

// HandleDelete handles DELETE /ideas/{id} — hard delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteIdea(r.Context(), subjectFrom(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted successfully."})
}

// HandleForge handles POST /ideas/{id}/forge?redo= — run the Forge transition.
func (h *Handlers) HandleForge(w http.ResponseWriter, r *http.Request) {
	redo := r.URL.Query().Get("redo") == "true"

	result, err := h.engine.Forge(r.Context(), subjectFrom(r), r.PathValue("id"), redo)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleStressTest handles POST /ideas/{id}/stress-test?redo=.
func (h *Handlers) HandleStressTest(w http.ResponseWriter, r *http.Request) {
	redo := r.URL.Query().Get("redo") == "true"

	result, err := h.engine.StressTest(r.Context(), subjectFrom(r), r.PathValue("id"), redo)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleConsult handles POST /ideas/{id}/consult. Consult persists nothing.
func (h *Handlers) HandleConsult(w http.ResponseWriter, r *http.Request) {
	var req consultRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.engine.Consult(r.Context(), subjectFrom(r), r.PathValue("id"), req.Query, req.Section, req.ChatHistory)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// HandleRefine handles POST /ideas/{id}/refine.
func (h *Handlers) HandleRefine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updates, err := h.engine.Refine(r.Context(), subjectFrom(r), r.PathValue("id"), req.Section, req.Instruction)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

// HandleAddSpark handles POST /ideas/{id}/sparks.
func (h *Handlers) HandleAddSpark(w http.ResponseWriter, r *http.Request) {
	var req sparkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	spark, err := h.engine.AddSpark(r.Context(), subjectFrom(r), r.PathValue("id"), req.Title, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"spark": spark})
}

// HandleDeleteSpark handles DELETE /ideas/{id}/sparks/{sparkId}.
func (h *Handlers) HandleDeleteSpark(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteSpark(r.Context(), subjectFrom(r), r.PathValue("id"), r.PathValue("sparkId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Spark removed."})
}
