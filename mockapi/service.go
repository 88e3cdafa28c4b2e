// Package mockapi is an in-memory imitation of the items service. It
// reproduces the service's observable contract closely enough to run the
// whole test suite against it, which is how this project tests itself
// without a real deployment.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/apisut/items-contract-tests/itemapi"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Timestamps are rendered the way the service renders them: ISO 8601 with
// microsecond precision and no zone suffix.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Service implements the HTTP contract of the items service: CRUD on /items
// with field validation, the informational endpoints, and the service's
// error response shapes. It is safe for concurrent use.
type Service struct {
	lock   sync.Mutex
	items  map[int]itemapi.Item
	nextID int

	// FailDeletes makes every DELETE fail with a 500 so callers can see how
	// cleanup problems get reported. Set it before serving requests.
	FailDeletes bool
}

// NewService creates a Service preloaded with the same kind of demo catalog
// the real service starts with.
func NewService() *Service {
	s := &Service{items: make(map[int]itemapi.Item), nextID: 1}
	s.insert(itemPayload{
		name:        "Wireless Mouse",
		description: ldvalue.NewOptionalString("Ergonomic wireless mouse with USB receiver"),
		price:       29.99,
		quantity:    150,
	})
	s.insert(itemPayload{
		name:        "Mechanical Keyboard",
		description: ldvalue.NewOptionalString("Tenkeyless keyboard with tactile switches"),
		price:       89.99,
		quantity:    60,
	})
	s.insert(itemPayload{
		name:        "USB-C Hub",
		description: ldvalue.NewOptionalString("7-port hub with power delivery"),
		price:       45.50,
		quantity:    200,
	})
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/":
		s.serveMessage(w, r, "Welcome to API-SUT")
	case path == "/health":
		s.serveMessage(w, r, "API-SUT is healthy")
	case path == "/docs":
		s.serveDocs(w, r)
	case path == "/openapi.json":
		s.serveSchema(w, r)
	case path == "/items":
		s.serveCollection(w, r)
	case path == "/items/":
		// the service redirects the slash variant rather than serving it
		w.Header().Set("Location", "/items")
		w.WriteHeader(http.StatusTemporaryRedirect)
	case strings.HasPrefix(path, "/items/"):
		s.serveItem(w, r, strings.TrimPrefix(path, "/items/"))
	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

func (s *Service) serveMessage(w http.ResponseWriter, r *http.Request, message string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Service) serveDocs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(
		`<!DOCTYPE html><html><head><title>API-SUT - Swagger UI</title></head><body></body></html>`))
}

func (s *Service) serveSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"openapi": "3.1.0",
		"info":    map[string]interface{}{"title": "API-SUT", "version": "1.0.0"},
		"paths":   map[string]interface{}{},
	})
}

func (s *Service) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.listItems())
	case http.MethodPost:
		payload, issues := readItemPayload(r)
		if len(issues) > 0 {
			writeValidationError(w, issues)
			return
		}
		s.lock.Lock()
		item := s.insert(payload)
		s.lock.Unlock()
		writeJSON(w, http.StatusCreated, item)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Service) serveItem(w http.ResponseWriter, r *http.Request, rest string) {
	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "Not Found") // deeper paths are not routes
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
	default:
		// the method is checked at the routing layer, before the path
		// parameter is ever parsed
		methodNotAllowed(w, "GET, PUT, DELETE")
		return
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		writeValidationError(w, []itemapi.ValidationIssue{{
			Loc:  []interface{}{"path", "item_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		}})
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.getItem(w, id)
	case http.MethodPut:
		s.updateItem(w, r, id)
	default:
		s.deleteItem(w, id)
	}
}

func (s *Service) listItems() []itemapi.Item {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]int, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	list := make([]itemapi.Item, 0, len(ids))
	for _, id := range ids {
		list = append(list, s.items[id])
	}
	return list
}

func (s *Service) getItem(w http.ResponseWriter, id int) {
	s.lock.Lock()
	item, ok := s.items[id]
	s.lock.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) updateItem(w http.ResponseWriter, r *http.Request, id int) {
	// the service validates the body before looking anything up, so a bad
	// payload gets a 422 even for an ID that does not exist
	payload, issues := readItemPayload(r)
	if len(issues) > 0 {
		writeValidationError(w, issues)
		return
	}
	s.lock.Lock()
	item, ok := s.items[id]
	if !ok {
		s.lock.Unlock()
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	item.Name = payload.name
	item.Description = payload.description
	item.Price = payload.price
	item.Quantity = payload.quantity
	item.UpdatedAt = time.Now().UTC().Format(timestampLayout)
	s.items[id] = item
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) deleteItem(w http.ResponseWriter, id int) {
	s.lock.Lock()
	if s.FailDeletes {
		s.lock.Unlock()
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	_, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.lock.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// insert assumes the lock is held (or that no one else can see the Service
// yet, as in NewService).
func (s *Service) insert(payload itemPayload) itemapi.Item {
	now := time.Now().UTC().Format(timestampLayout)
	item := itemapi.Item{
		ID:          s.nextID,
		Name:        payload.name,
		Description: payload.description,
		Price:       payload.price,
		Quantity:    payload.quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items[item.ID] = item
	s.nextID++
	return item
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, itemapi.ErrorMessage{Detail: detail})
}

func writeValidationError(w http.ResponseWriter, issues []itemapi.ValidationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, itemapi.ValidationError{Detail: issues})
}
