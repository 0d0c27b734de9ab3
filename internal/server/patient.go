package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lazypower/rememberme/internal/store"
)

// handleGetPatient lists the patient collection: zero or one record.
func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Patient().Get(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, []store.PatientInfo{})
		return
	}
	if err != nil {
		s.storeFailure(w, r, err, "Error fetching patient info")
		return
	}
	writeJSON(w, http.StatusOK, []store.PatientInfo{*withLists(p)})
}

// handleSavePatient replaces the patient record, returning 201 the first
// time and 200 afterwards.
func (s *Server) handleSavePatient(w http.ResponseWriter, r *http.Request) {
	var p store.PatientInfo
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = store.PatientKey
	p.Name = strings.TrimSpace(p.Name)
	withLists(&p)
	if err := store.Validate(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, created, err := s.store.Patient().Save(r.Context(), &p)
	if err != nil {
		s.storeFailure(w, r, err, "Error saving patient info")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, withLists(saved))
}

func withLists(p *store.PatientInfo) *store.PatientInfo {
	for _, l := range []*[]string{&p.FavoriteActivities, &p.NotableLifeEvents, &p.Hobbies} {
		if *l == nil {
			*l = []string{}
		}
	}
	return p
}
