package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/rememberme/internal/store"
)

const memoryNotFound = "Cannot find memory"

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	f := store.MemoryFilter{PersonName: strings.TrimSpace(r.URL.Query().Get("personName"))}
	mems, err := s.store.Memories().List(r.Context(), f)
	if err != nil {
		s.storeFailure(w, r, err, "Error fetching memories")
		return
	}
	if mems == nil {
		mems = []store.Memory{}
	}
	for i := range mems {
		if mems[i].Tags == nil {
			mems[i].Tags = []string{}
		}
	}
	writeJSON(w, http.StatusOK, mems)
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var m store.Memory
	if err := decodeJSON(r, &m); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	m.ID = ""
	m.PersonName = strings.TrimSpace(m.PersonName)
	m.Relationship = strings.TrimSpace(m.Relationship)
	m.MemoryText = strings.TrimSpace(m.MemoryText)
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if err := store.Validate(&m); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Memories().Create(r.Context(), &m)
	if err != nil {
		s.storeFailure(w, r, err, "Error creating memory")
		return
	}
	writeJSON(w, http.StatusCreated, withTags(created))
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Memories().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.memoryFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withTags(m))
}

func (s *Server) handleUpdateMemory(w http.ResponseWriter, r *http.Request) {
	var p store.MemoryPatch
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, f := range []*string{p.PersonName, p.Relationship, p.MemoryText} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if err := store.ValidatePatch(p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.store.Memories().Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.memoryFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withTags(m))
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Memories().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.memoryFailure(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Deleted Memory")
}

func (s *Server) memoryFailure(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusNotFound {
		writeMessage(w, http.StatusNotFound, memoryNotFound)
		return
	}
	s.storeFailure(w, r, err, "Error accessing memory")
}

func withTags(m *store.Memory) *store.Memory {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}
