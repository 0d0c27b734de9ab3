package server

import (
	"errors"
	"net/http"

	"github.com/lazypower/rememberme/internal/store"
)

type storyRequest struct {
	Prompt   string   `json:"prompt"`
	Memories []string `json:"memories"`
}

type personRequest struct {
	PersonName string `json:"personName"`
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.engine == nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate story.")
		return
	}

	story, err := s.engine.GenerateStory(r.Context(), req.Prompt, req.Memories)
	if err != nil {
		s.aiFailure(w, r, err, "Failed to generate story.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"story": story})
}

func (s *Server) handlePersonInfo(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.engine == nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate person info")
		return
	}

	story, err := s.engine.PersonStory(r.Context(), req.PersonName)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No memories found for "+req.PersonName)
		return
	}
	if err != nil {
		s.aiFailure(w, r, err, "Failed to generate person info")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"story": story})
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch memory highlight")
		return
	}

	text, err := s.engine.Highlight(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No memories found")
		return
	}
	if err != nil {
		s.aiFailure(w, r, err, "Failed to fetch memory highlight")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"highlight": text})
}

// aiFailure writes an {error} body. Validation problems are echoed; anything
// else is logged and reported as msg.
func (s *Server) aiFailure(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logFailure(r, err)
		writeError(w, status, msg)
		return
	}
	writeError(w, status, err.Error())
}
