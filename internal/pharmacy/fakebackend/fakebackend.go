// Package fakebackend is an in-memory pharmacy backend for tests.
//
// It speaks the same REST dialect as the real service: JSON bodies, bearer
// tokens, populated references on reads and {"message": ...} error bodies.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// SigningKey signs the access tokens handed out by Login.
var SigningKey = []byte("fakebackend-secret")

// TokenTTL is the lifetime encoded in issued tokens.
var TokenTTL = time.Hour

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	body   string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	seq           int
	accounts      map[string]*account
	tokens        map[string]string
	drugs         map[string]models.Drug
	prescriptions map[string]models.Prescription
	quotations    map[string]models.Quotation
	order         []string
	requests      []string
	failures      map[string]failure
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{
		accounts:      map[string]*account{},
		tokens:        map[string]string{},
		drugs:         map[string]models.Drug{},
		prescriptions: map[string]models.Prescription{},
		quotations:    map[string]models.Quotation{},
		failures:      map[string]failure{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/register", s.register)

	mux.HandleFunc("GET /drugs", s.authed(s.listDrugs))
	mux.HandleFunc("POST /drugs", s.authed(s.createDrug))
	mux.HandleFunc("GET /drugs/{id}", s.authed(s.getDrug))
	mux.HandleFunc("PUT /drugs/{id}", s.authed(s.updateDrug))
	mux.HandleFunc("DELETE /drugs/{id}", s.authed(s.deleteDrug))

	mux.HandleFunc("GET /prescriptions", s.authed(s.listPrescriptions))
	mux.HandleFunc("POST /prescriptions", s.authed(s.createPrescription))
	mux.HandleFunc("GET /prescriptions/{id}", s.authed(s.getPrescription))
	mux.HandleFunc("PATCH /prescriptions/{id}", s.authed(s.updatePrescription))
	mux.HandleFunc("DELETE /prescriptions/{id}", s.authed(s.deletePrescription))

	mux.HandleFunc("GET /quotations", s.authed(s.listQuotations))
	mux.HandleFunc("POST /quotations", s.authed(s.createQuotation))
	mux.HandleFunc("GET /quotations/{id}", s.authed(s.getQuotation))
	mux.HandleFunc("PATCH /quotations/{id}", s.authed(s.updateQuotation))
	mux.HandleFunc("DELETE /quotations/{id}", s.authed(s.deleteQuotation))
	mux.HandleFunc("PATCH /quotations/{id}/state", s.authed(s.updateQuotationState))

	mux.HandleFunc("GET /users", s.authed(s.listUsers))
	mux.HandleFunc("GET /users/profile", s.authed(s.getProfile))
	mux.HandleFunc("PUT /users/profile", s.authed(s.updateProfile))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Requests returns "METHOD /path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many received requests match "METHOD /path" exactly.
func (s *Server) Count(methodPath string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == methodPath {
			n++
		}
	}
	return n
}

// Fail makes every request matching "METHOD /path" answer status with body.
func (s *Server) Fail(methodPath string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[methodPath] = failure{status: status, body: body}
}

// AddUser seeds an account and returns it with its id.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID()
	s.accounts[u.ID] = &account{user: u, password: password}
	s.order = append(s.order, u.ID)
	return u
}

// AddDrug seeds a drug.
func (s *Server) AddDrug(d models.Drug) models.Drug {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.nextID()
	s.drugs[d.ID] = d
	s.order = append(s.order, d.ID)
	return d
}

// AddPrescription seeds a prescription. Refs are stored as ids.
func (s *Server) AddPrescription(p models.Prescription) models.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID()
	if p.Status == "" {
		p.Status = models.PrescriptionOpen
	}
	p.Drugs = models.StripRefs(p.Drugs)
	s.prescriptions[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// AddQuotation seeds a quotation.
func (s *Server) AddQuotation(q models.Quotation) models.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID()
	if q.State == "" {
		q.State = models.QuotationPending
	}
	q.Drugs = models.StripRefs(q.Drugs)
	s.quotations[q.ID] = q
	s.order = append(s.order, q.ID)
	return q
}

// Quotation returns the stored quotation with id.
func (s *Server) Quotation(id string) (models.Quotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	return q, ok
}

// Prescription returns the stored prescription with id.
func (s *Server) Prescription(id string) (models.Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prescriptions[id]
	return p, ok
}

// Drug returns the stored drug with id.
func (s *Server) Drug(id string) (models.Drug, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drugs[id]
	return d, ok
}

// TokenFor issues a token for a seeded user without going through login.
func (s *Server) TokenFor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(userID)
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

func (s *Server) issue(userID string) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(TokenTTL).Unix(),
		"jti": s.nextID(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey)
	if err != nil {
		panic(err)
	}
	s.tokens[tok] = userID
	return tok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, key)
		f, failing := s.failures[key]
		s.mu.Unlock()
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, me *account)

func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		uid := s.tokens[token]
		me := s.accounts[uid]
		s.mu.Unlock()
		if !ok || me == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r, me)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg any) {
	writeJSON(w, status, map[string]any{
		"statusCode": status,
		"message":    msg,
		"error":      http.StatusText(status),
	})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}
