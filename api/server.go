package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/vivekjain488/Butterfly/cipher"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// Server is the HTTP surface over the Butterfly core. It is stateless: each
// request constructs fresh engines from its own inputs, so the handler set is
// safe for concurrent use.
type Server struct {
	router *mux.Router

	// burnIn applies to every engine the server constructs. Tests lower it;
	// production uses the default.
	burnIn int
}

// NewServer builds a server with the default burn-in.
func NewServer() *Server {
	return NewServerWithBurnIn(cipherDefaultBurnIn())
}

// NewServerWithBurnIn builds a server whose engines use the given burn-in.
func NewServerWithBurnIn(burnIn int) *Server {
	s := &Server{
		router: mux.NewRouter(),
		burnIn: burnIn,
	}
	s.routes()
	return s
}

func cipherDefaultBurnIn() int {
	return cipher.DefaultConfig().KDF.BurnIn
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(logMiddleware)

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/derive_key", s.handleDeriveKey).Methods(http.MethodPost)
	api.HandleFunc("/encrypt", s.handleEncrypt).Methods(http.MethodPost)
	api.HandleFunc("/decrypt", s.handleDecrypt).Methods(http.MethodPost)
	api.HandleFunc("/metrics/entropy", s.handleEntropy).Methods(http.MethodPost)
	api.HandleFunc("/metrics/lyapunov", s.handleLyapunov).Methods(http.MethodPost)
	api.HandleFunc("/metrics/avalanche", s.handleAvalanche).Methods(http.MethodPost)
	api.HandleFunc("/metrics/statistical", s.handleStatistical).Methods(http.MethodPost)
	api.HandleFunc("/attractor", s.handleAttractor).Methods(http.MethodPost)
}

// Router returns the handler for mounting or serving.
func (s *Server) Router() http.Handler {
	return s.router
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"package":  "api",
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithFields(logrus.Fields{
			"package": "api",
			"error":   err.Error(),
		}).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}
