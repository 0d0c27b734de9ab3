package server

import (
	"net/http"
	"strings"

	"github.com/lazypower/rememberme/internal/store"
)

func (s *Server) handleListFamily(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.Family().List(r.Context())
	if err != nil {
		s.storeFailure(w, r, err, "Error fetching family tree")
		return
	}
	if members == nil {
		members = []store.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var m store.FamilyMember
	if err := decodeJSON(r, &m); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	m.ID = ""
	m.PersonName = strings.TrimSpace(m.PersonName)
	m.Relationship = strings.TrimSpace(m.Relationship)
	if err := store.Validate(&m); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Family().Create(r.Context(), &m)
	if err != nil {
		s.storeFailure(w, r, err, "Error creating family member")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
