package webserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/civiclink/console/src/console/types"
)

func TestEventStatusDerivedOnWrite(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	// The client-supplied status field has no effect; the server derives it.
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w := doJSON(t, r, http.MethodPost, "/v1/events", token, map[string]interface{}{
		"name":      "Town Hall",
		"eventDate": future,
		"venue":     "Civic Centre",
		"status":    "past",
	})
	expectStatus(t, w, http.StatusCreated)
	var event types.Event
	decodeBody(t, w, &event)
	if event.Status != eventUpcoming {
		t.Errorf("status = %q, want upcoming", event.Status)
	}

	// Moving the date into the past flips the derived status.
	past := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	w = doJSON(t, r, http.MethodPut, "/v1/events/"+event.ID, token, map[string]interface{}{
		"name":      "Town Hall",
		"eventDate": past,
	})
	expectStatus(t, w, http.StatusOK)
	decodeBody(t, w, &event)
	if event.Status != eventPast {
		t.Errorf("status = %q, want past", event.Status)
	}
}

func TestEventListWindowFilter(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	for _, days := range []int{-10, -1, 3, 20} {
		w := doJSON(t, r, http.MethodPost, "/v1/events", token, map[string]interface{}{
			"name":      "Event",
			"eventDate": time.Now().AddDate(0, 0, days).Format("2006-01-02"),
		})
		expectStatus(t, w, http.StatusCreated)
	}

	var resp struct {
		Events []types.Event `json:"events"`
	}
	decodeBody(t, doJSON(t, r, http.MethodGet, "/v1/events?window=upcoming", token, nil), &resp)
	if len(resp.Events) != 2 {
		t.Errorf("upcoming = %d, want 2", len(resp.Events))
	}
	decodeBody(t, doJSON(t, r, http.MethodGet, "/v1/events?window=past", token, nil), &resp)
	if len(resp.Events) != 2 {
		t.Errorf("past = %d, want 2", len(resp.Events))
	}
	decodeBody(t, doJSON(t, r, http.MethodGet, "/v1/events", token, nil), &resp)
	if len(resp.Events) != 4 {
		t.Errorf("all = %d, want 4", len(resp.Events))
	}
}

func TestEventBadDate(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/events", token, map[string]interface{}{
		"name":      "Bad Date",
		"eventDate": "31/12/2026",
	})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestEventDeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodDelete, "/v1/events/missing", token, nil)
	expectStatus(t, w, http.StatusNotFound)
}
