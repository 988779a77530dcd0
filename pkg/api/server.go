// Package api pokecsv REST API
//
// @title           pokecsv REST API
// @version         1.0.0
// @description     REST API over a CSV file of Pokemon records.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
//
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>pokecsv API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter builds the HTTP routes. /metrics serves gatherer.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(server.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Route("/pokemon", func(r chi.Router) {
			server.mountPokemon(r, "/api/v1/pokemon")
		})

		r.Route("/secure/pokemon", func(r chi.Router) {
			r.Use(metrics.InstrumentAuthMiddleware(secureMiddleware(server.tokens, server.config.APIKey)))
			server.mountPokemon(r, "/api/v1/secure/pokemon")
		})

		r.Route("/configuration", func(r chi.Router) {
			r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))
			r.Put("/filepath", metrics.InstrumentHandler("PUT", "/api/v1/configuration/filepath", server.handleConfigureFilePath))
			r.Get("/token", metrics.InstrumentHandler("GET", "/api/v1/configuration/token", server.handleIssueToken))
		})
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", server.handleSwagger)

	return r
}

func (s *Server) mountPokemon(r chi.Router, prefix string) {
	metrics := s.metrics
	r.Get("/", metrics.InstrumentHandler("GET", prefix, s.handleListPokemon))
	r.Post("/", metrics.InstrumentHandler("POST", prefix, s.handleCreatePokemon))
	r.Get("/{name}", metrics.InstrumentHandler("GET", prefix+"/{name}", s.handleGetPokemon))
	r.Put("/{name}", metrics.InstrumentHandler("PUT", prefix+"/{name}", s.handleUpdatePokemon))
	r.Delete("/{name}", metrics.InstrumentHandler("DELETE", prefix+"/{name}", s.handleDeletePokemon))
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))

	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.sugar.Errorw("failed to generate swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))

	case "/swagger/swagger.yaml":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.sugar.Errorw("failed to generate swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		// JSON is valid YAML input
		var tree interface{}
		if err := yaml.Unmarshal([]byte(doc), &tree); err != nil {
			s.sugar.Errorw("failed to convert swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)

	default:
		http.NotFound(w, r)
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// StartServer listens on the configured address and serves the API until
// ctx is cancelled
func StartServer(ctx context.Context, catalog PokemonCatalog, config ServerConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := NewRegistry()
	server, err := NewServer(catalog, config, NewMetrics(reg), logger)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	SwaggerInfo.Host = ln.Addr().String()

	sugar := logger.Sugar()
	sugar.Infow("starting pokecsv REST API server", "addr", ln.Addr().String(), "csvPath", catalog.StorePath())
	sugar.Infow("metrics available", "url", fmt.Sprintf("http://%s/metrics", ln.Addr().String()))

	return Serve(ctx, ln, NewRouter(server, reg), logger)
}

// Serve serves handler on ln until ctx is cancelled, then shuts down
// gracefully. ln is closed on return.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Infow("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
