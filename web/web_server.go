package web

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kmaddali/mailmon/collect"
	"github.com/rs/cors"
)

// Config carries the process configuration a Server needs. It is filled
// from flags in main and injected here so handlers never read globals.
type Config struct {
	ListenAddr     string
	FrontendUrl    string
	EmailsFilePath string
	StorageBucket  string
}

// Server holds the injected credential resolver and configuration. One
// instance is constructed at startup and shared by all request handlers;
// per-request state (clients, cursors) never lives on it.
type Server struct {
	config   Config
	resolver collect.Resolver
}

func NewServer(config Config, resolver collect.Resolver) *Server {
	return &Server{config: config, resolver: resolver}
}

func (s *Server) Run() {
	slog.Info("Starting web server.")
	r := mux.NewRouter()
	s.routes(r)
	sse(r)
	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendUrl},
		AllowCredentials: true,
	})
	handler := cors.Handler(r)
	srv := &http.Server{
		Handler: handler,
		Addr:    s.config.ListenAddr,
		// Good practice: enforce timeouts for servers you create!
		// The write timeout is generous: a month-wide details query is
		// many sequentialized remote calls.
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
