package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lazypower/rememberme/internal/store"
)

// upcomingLimit caps the home page event list.
const upcomingLimit = 3

// eventDateLayouts are tried in order. The second is what an HTML
// datetime-local input submits.
var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// eventRequest accepts both the current field names and the ones older
// front ends post.
type eventRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`

	EventName        string `json:"eventName"`
	EventDate        string `json:"eventDate"`
	EventDescription string `json:"eventDescription"`
}

func (req eventRequest) event() (*store.Event, error) {
	ev := &store.Event{
		Name:        firstNonEmpty(req.Name, req.EventName),
		Description: firstNonEmpty(req.Description, req.EventDescription),
	}

	raw := strings.TrimSpace(firstNonEmpty(req.Date, req.EventDate))
	if raw != "" {
		d, err := parseEventDate(raw)
		if err != nil {
			return nil, err
		}
		ev.Date = d
	}

	ev.Normalize()
	if err := store.Validate(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func parseEventDate(raw string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, store.Invalid("date must be a valid date")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	f := store.EventFilter{From: time.Now().UTC()}
	if all, _ := strconv.ParseBool(r.URL.Query().Get("includePast")); all {
		f.From = time.Time{}
	}
	s.listEvents(w, r, f)
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	s.listEvents(w, r, store.EventFilter{From: time.Now().UTC(), Limit: upcomingLimit})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request, f store.EventFilter) {
	events, err := s.store.Events().List(r.Context(), f)
	if err != nil {
		s.storeFailure(w, r, err, "Error fetching events")
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := req.event()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Events().Create(r.Context(), ev)
	if err != nil {
		s.storeFailure(w, r, err, "Error creating event")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
