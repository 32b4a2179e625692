package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

var log = util.NewLogger("http")

type route struct {
	Methods     []string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Health reports whether the bridge has produced a value recently
type Health interface {
	Healthy() bool
}

// StatusSource returns the decoded vehicle snapshot on demand
type StatusSource interface {
	Snapshot() (gwm.Status, error)
}

// HTTPd wraps an http.Server and adds the root router
type HTTPd struct {
	*http.Server
}

// NewHTTPd creates an HTTP server with the API routes attached
func NewHTTPd(addr string, hub *SocketHub, cache *util.Cache, health Health, status StatusSource) *HTTPd {
	router := mux.NewRouter().StrictSlash(true)

	// websocket
	router.HandleFunc("/ws", socketHandler(hub))

	// api
	api := router.PathPrefix("/api").Subrouter()
	api.Use(jsonHandler)
	api.Use(handlers.CompressHandler)
	api.Use(handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Accept", "Accept-Language", "Content-Language", "Content-Type", "Origin",
		}),
	))

	routes := map[string]route{
		"health": {[]string{"GET"}, "/health", healthHandler(health)},
		"state":  {[]string{"GET"}, "/state", stateHandler(cache)},
		"status": {[]string{"GET"}, "/status", statusHandler(status)},
	}

	for _, r := range routes {
		api.Methods(r.Methods...).Path(r.Pattern).Handler(r.HandlerFunc)
	}

	srv := &HTTPd{
		Server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
			ErrorLog:     log.ERROR,
		},
	}
	srv.SetKeepAlivesEnabled(true)

	return srv
}

// Router returns the main router
func (s *HTTPd) Router() *mux.Router {
	return s.Handler.(*mux.Router)
}

// jsonHandler decorates responses with the JSON content type
func jsonHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

func jsonWrite(w http.ResponseWriter, content interface{}) {
	if err := json.NewEncoder(w).Encode(content); err != nil {
		log.ERROR.Printf("httpd: failed to encode: %v", err)
	}
}

// healthHandler returns 200 once the first poll has succeeded and the data
// is not stale
func healthHandler(health Health) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health == nil || !health.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"health":"OK"}`))
	}
}

// stateHandler returns the combined state of all published values
func stateHandler(cache *util.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, cache.State())
	}
}

// statusHandler returns the decoded vehicle snapshot, served from the
// provider cache to protect the upstream gateway
func statusHandler(status StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if status == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		res, err := status.Snapshot()
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			jsonWrite(w, map[string]string{"error": err.Error()})
			return
		}

		jsonWrite(w, res)
	}
}
