package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/auth"
	"github.com/ssargent/pokecsv/pkg/codec"
	"github.com/ssargent/pokecsv/pkg/service"
	"github.com/ssargent/pokecsv/pkg/store"
)

const maxBodyBytes = 64 << 10

// Server holds the API server state
type Server struct {
	catalog PokemonCatalog
	config  ServerConfig
	metrics *Metrics
	tokens  *auth.TokenIssuer
	logger  *zap.Logger
	sugar   *zap.SugaredLogger
}

// NewServer creates a new API server. Bearer tokens are enabled only when
// config.JWTSecret is set.
func NewServer(catalog PokemonCatalog, config ServerConfig, metrics *Metrics, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var tokens *auth.TokenIssuer
	if config.JWTSecret != "" {
		var err error
		tokens, err = auth.NewTokenIssuer(auth.TokenConfig{
			Secret:   config.JWTSecret,
			Issuer:   config.Issuer,
			Audience: config.Audience,
			TTL:      time.Duration(config.TokenTTLMinutes) * time.Minute,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create token issuer: %w", err)
		}
	}

	return &Server{
		catalog: catalog,
		config:  config,
		metrics: metrics,
		tokens:  tokens,
		logger:  logger,
		sugar:   logger.Sugar(),
	}, nil
}

// requestLog tags the server logger with the token subject of a secure request
func (s *Server) requestLog(r *http.Request) *zap.SugaredLogger {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return s.sugar.With("subject", claims.Subject)
	}
	return s.sugar
}

func (s *Server) observe(operation string, start time.Time, outcome store.Outcome) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(operation, outcome, time.Since(start))
	}
}

// sendFault translates a service error into an HTTP error response
func (s *Server) sendFault(w http.ResponseWriter, operation string, err error) {
	var validationErr *codec.ValidationError
	var lineErr *store.LineError

	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		sendError(w, "The CSV file was not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidPage):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &validationErr):
		sendErrorData(w, validationErr.Error(), ValidationResponse{Fields: validationErr.Fields}, http.StatusBadRequest)
	case errors.As(err, &lineErr):
		s.sugar.Errorw("malformed record in store", "operation", operation, "path", lineErr.Path, "line", lineErr.Line, "error", lineErr.Err)
		sendError(w, "The CSV file contains a malformed record", http.StatusInternalServerError)
	default:
		s.sugar.Errorw("store operation failed", "operation", operation, "error", err)
		sendError(w, fmt.Sprintf("Error during %s", operation), http.StatusInternalServerError)
	}
}

// sendOutcome maps a store outcome onto the response for the record name
func (s *Server) sendOutcome(w http.ResponseWriter, operation, name string, outcome store.Outcome) {
	body := func(message string) MessageResponse {
		return MessageResponse{Message: message, Outcome: outcome.String()}
	}

	switch outcome {
	case store.OutcomeOk:
		sendSuccessStatus(w, body(fmt.Sprintf("Pokemon %s created", name)), http.StatusCreated)
	case store.OutcomeUpdated:
		sendSuccess(w, body(fmt.Sprintf("Pokemon %s updated", name)))
	case store.OutcomeDeleted:
		sendSuccess(w, body(fmt.Sprintf("Pokemon %s deleted", name)))
	case store.OutcomeExists:
		sendErrorData(w, fmt.Sprintf("Pokemon %s already exists", name), body(""), http.StatusConflict)
	case store.OutcomeNotFound:
		sendErrorData(w, fmt.Sprintf("Pokemon %s was not found", name), body(""), http.StatusNotFound)
	case store.OutcomeEmpty:
		sendNoContent(w, "CSV File was empty")
	default:
		sendError(w, fmt.Sprintf("Error during %s of the Pokemon", operation), http.StatusInternalServerError)
	}
}

// pathName returns the decoded {name} parameter. chi routes on RawPath when
// the request carries one, in which case the parameter is still escaped.
func pathName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", fmt.Errorf("invalid name encoding: %w", err)
		}
		name = unescaped
	}
	if name == "" {
		return "", errors.New("name is required")
	}
	return name, nil
}

func decodePokemon(w http.ResponseWriter, r *http.Request) (*codec.Pokemon, error) {
	var p codec.Pokemon
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API and the active CSV path
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{
		"status":  "healthy",
		"csvPath": s.catalog.StorePath(),
	})
}

// handleGetPokemon godoc
//
//	@Summary		Get a Pokemon
//	@Description	Find a Pokemon by name, ignoring case
//	@Tags			pokemon
//	@Produce		json
//	@Param			name	path		string	true	"Pokemon name"
//	@Success		200		{object}	APIResponse{data=codec.Pokemon}
//	@Failure		404		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Router			/pokemon/{name} [get]
func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := pathName(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.requestLog(r).Infow("starting the process of pokemon search", "name", name)
	p, err := s.catalog.Get(name)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		s.observe("get", start, store.OutcomeNotFound)
		sendError(w, fmt.Sprintf("Pokemon %s was not found", name), http.StatusNotFound)
		return
	case err != nil:
		s.observe("get", start, store.OutcomeError)
		s.sendFault(w, "search", err)
		return
	}

	s.observe("get", start, store.OutcomeOk)
	sendSuccess(w, p)
}

// handleListPokemon godoc
//
//	@Summary		List Pokemon
//	@Description	Return one page of Pokemon. Pages past the last one return 204.
//	@Tags			pokemon
//	@Produce		json
//	@Param			pageNumber			query		int	true	"1-based page number"
//	@Param			numberRowsPerPage	query		int	true	"Page size"
//	@Success		200					{object}	APIResponse{data=service.Page}
//	@Success		204
//	@Failure		400					{object}	APIResponse
//	@Failure		404					{object}	APIResponse
//	@Router			/pokemon [get]
func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	pageNumber, err := strconv.Atoi(query.Get("pageNumber"))
	if err != nil {
		sendError(w, "pageNumber must be an integer", http.StatusBadRequest)
		return
	}
	pageSize, err := strconv.Atoi(query.Get("numberRowsPerPage"))
	if err != nil {
		sendError(w, "numberRowsPerPage must be an integer", http.StatusBadRequest)
		return
	}

	s.requestLog(r).Infow("starting the process of pokemon paginated listing", "pageNumber", pageNumber, "numberRowsPerPage", pageSize)
	page, err := s.catalog.ListPaginated(pageNumber, pageSize)
	if err != nil {
		s.observe("list", start, store.OutcomeError)
		s.sendFault(w, "listing", err)
		return
	}
	if page == nil {
		s.observe("list", start, store.OutcomeEmpty)
		sendNoContent(w, "The page asked is greater than the total number of pages")
		return
	}

	s.observe("list", start, store.OutcomeOk)
	sendSuccess(w, page)
}

// handleCreatePokemon godoc
//
//	@Summary		Create a Pokemon
//	@Description	Append a new Pokemon. Names are unique ignoring case.
//	@Tags			pokemon
//	@Accept			json
//	@Produce		json
//	@Param			pokemon	body		codec.Pokemon	true	"Pokemon"
//	@Success		201		{object}	APIResponse{data=MessageResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Router			/pokemon [post]
func (s *Server) handleCreatePokemon(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, err := decodePokemon(w, r)
	if err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if err := codec.Validate(p); err != nil {
		s.sendFault(w, "creation", err)
		return
	}

	s.requestLog(r).Infow("starting the creation of a new pokemon", "name", p.Name)
	outcome, err := s.catalog.Add(p)
	s.observe("add", start, outcome)
	if err != nil {
		s.sendFault(w, "creation", err)
		return
	}
	s.sendOutcome(w, "creation", p.Name, outcome)
}

// handleUpdatePokemon godoc
//
//	@Summary		Update a Pokemon
//	@Description	Replace the Pokemon named in the path. The body may rename it to a free name.
//	@Tags			pokemon
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Original Pokemon name"
//	@Param			pokemon	body		codec.Pokemon	true	"Replacement"
//	@Success		200		{object}	APIResponse{data=MessageResponse}
//	@Success		204
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Router			/pokemon/{name} [put]
func (s *Server) handleUpdatePokemon(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := pathName(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := decodePokemon(w, r)
	if err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if err := codec.Validate(p); err != nil {
		s.sendFault(w, "modification", err)
		return
	}

	s.requestLog(r).Infow("starting the modification of pokemon", "originalName", name)
	outcome, err := s.catalog.Modify(name, p)
	s.observe("modify", start, outcome)
	if err != nil {
		s.sendFault(w, "modification", err)
		return
	}
	s.sendOutcome(w, "modification", name, outcome)
}

// handleDeletePokemon godoc
//
//	@Summary		Delete a Pokemon
//	@Tags			pokemon
//	@Produce		json
//	@Param			name	path		string	true	"Pokemon name"
//	@Success		200		{object}	APIResponse{data=MessageResponse}
//	@Success		204
//	@Failure		404		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Router			/pokemon/{name} [delete]
func (s *Server) handleDeletePokemon(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name, err := pathName(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.requestLog(r).Infow("starting the deletion of pokemon", "name", name)
	outcome, err := s.catalog.Delete(name)
	s.observe("delete", start, outcome)
	if err != nil {
		s.sendFault(w, "deletion", err)
		return
	}
	s.sendOutcome(w, "deletion", name, outcome)
}

// handleConfigureFilePath godoc
//
//	@Summary		Configure the CSV path
//	@Description	Point the server at another existing CSV file
//	@Tags			configuration
//	@Produce		json
//	@Param			csvPath	query		string	true	"Path of the CSV file"
//	@Success		200		{object}	APIResponse{data=MessageResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/configuration/filepath [put]
func (s *Server) handleConfigureFilePath(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	csvPath := r.URL.Query().Get("csvPath")
	if csvPath == "" {
		sendError(w, "csvPath is required", http.StatusBadRequest)
		return
	}

	s.sugar.Infow("starting the file path configuration", "csvPath", csvPath)
	outcome, err := s.catalog.ConfigureStorePath(csvPath)
	s.observe("configure", start, outcome)
	if err != nil {
		s.sendFault(w, "configuration", err)
		return
	}

	switch outcome {
	case store.OutcomeOk:
		sendSuccess(w, MessageResponse{Message: "CSV File Path Configured correctly", Outcome: outcome.String()})
	case store.OutcomeNotFound:
		sendError(w, "The file specified doesn't exists", http.StatusNotFound)
	default:
		sendError(w, "Error configuring the CSV file path", http.StatusInternalServerError)
	}
}

// handleIssueToken godoc
//
//	@Summary		Issue a bearer token
//	@Description	Issue a signed token accepted by the secure endpoints
//	@Tags			configuration
//	@Produce		json
//	@Param			subject	query		string	false	"Token subject"
//	@Success		200		{object}	APIResponse{data=auth.Token}
//	@Failure		503		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/configuration/token [get]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if s.tokens == nil {
		sendError(w, "Bearer tokens are not enabled", http.StatusServiceUnavailable)
		return
	}

	subject := r.URL.Query().Get("subject")
	if subject == "" {
		subject = "pokecsv-client"
	}

	token, err := s.tokens.Issue(subject)
	if err != nil {
		s.sugar.Errorw("failed to issue token", "subject", subject, "error", err)
		sendError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, token)
}
