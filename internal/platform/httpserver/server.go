package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	client "crmhub/contexts/client-relations/client-service"
	clienterrors "crmhub/contexts/client-relations/client-service/domain/errors"
	clienthttp "crmhub/contexts/client-relations/client-service/transport/http"
	manager "crmhub/contexts/client-relations/manager-service"
	managererrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	managerhttp "crmhub/contexts/client-relations/manager-service/transport/http"
	timeline "crmhub/contexts/client-relations/timeline-service"
	timelineerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	timelinehttp "crmhub/contexts/client-relations/timeline-service/transport/http"
	_ "crmhub/internal/platform/httpserver/docs"
	"crmhub/internal/shared/authz"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	clients  client.Module
	managers manager.Module
	timeline timeline.Module
}

func New(
	clientModule client.Module,
	managerModule manager.Module,
	timelineModule timeline.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		clients:  clientModule,
		managers: managerModule,
		timeline: timelineModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/clients", s.handleListClients)
	s.mux.HandleFunc("POST /api/clients/import", s.handleImportClients)
	s.mux.HandleFunc("GET /api/clients/{client_id}", s.handleGetClient)
	s.mux.HandleFunc("PUT /api/clients/{client_id}", s.handleSaveClient)
	s.mux.HandleFunc("PUT /api/clients/{client_id}/fields", s.handleReplaceFields)
	s.mux.HandleFunc("DELETE /api/clients/{client_id}", s.handleDeleteClient)

	s.mux.HandleFunc("GET /api/clients/{client_id}/managers", s.handleListClientManagers)

	s.mux.HandleFunc("GET /api/clients/{client_id}/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/clients/{client_id}/comments", s.handleAddComment)
	s.mux.HandleFunc("POST /api/clients/{client_id}/attachments", s.handleAddAttachment)

	s.mux.HandleFunc("GET /api/managers", s.handleListManagers)
	s.mux.HandleFunc("POST /api/managers", s.handleUpsertManager)
	s.mux.HandleFunc("GET /api/managers/{manager_id}", s.handleGetManager)
	s.mux.HandleFunc("PUT /api/managers/{manager_id}/clients", s.handleAssignClients)
	s.mux.HandleFunc("DELETE /api/managers/{manager_id}", s.handleDeleteManager)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}

	query := r.URL.Query()
	req := clienthttp.ListClientsRequest{Search: query.Get("search")}
	if pageRaw := query.Get("page"); pageRaw != "" {
		page, err := strconv.Atoi(pageRaw)
		if err != nil {
			writeClientError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		req.Page = page
	}
	if perPageRaw := query.Get("per_page"); perPageRaw != "" {
		perPage, err := strconv.Atoi(perPageRaw)
		if err != nil {
			writeClientError(w, http.StatusBadRequest, "invalid_per_page", "per_page must be an integer")
			return
		}
		req.PerPage = perPage
	}

	resp, err := s.clients.Handler.ListClientsHandler(r.Context(), actor, req)
	if err != nil {
		writeClientDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImportClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req clienthttp.ImportClientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClientError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.clients.Handler.ImportClientsHandler(r.Context(), actor, req)
	if err != nil {
		writeClientDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.clients.Handler.GetClientHandler(r.Context(), actor, r.PathValue("client_id"))
	if err != nil {
		writeClientDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req clienthttp.SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClientError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.clients.Handler.SaveClientHandler(r.Context(), actor, r.PathValue("client_id"), req)
	if err != nil {
		writeClientDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReplaceFields(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req clienthttp.ReplaceFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeClientError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.clients.Handler.ReplaceFieldsHandler(r.Context(), actor, r.PathValue("client_id"), req); err != nil {
		writeClientDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.clients.Handler.DeleteClientHandler(r.Context(), actor, r.PathValue("client_id"))
	if err != nil {
		writeClientDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeTimelineError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}

	query := r.URL.Query()
	req := timelinehttp.ListEventsRequest{Type: query.Get("type")}
	if pageRaw := query.Get("page"); pageRaw != "" {
		page, err := strconv.Atoi(pageRaw)
		if err != nil {
			writeTimelineError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		req.Page = page
	}
	if perPageRaw := query.Get("per_page"); perPageRaw != "" {
		perPage, err := strconv.Atoi(perPageRaw)
		if err != nil {
			writeTimelineError(w, http.StatusBadRequest, "invalid_per_page", "per_page must be an integer")
			return
		}
		req.PerPage = perPage
	}

	resp, err := s.timeline.Handler.ListEventsHandler(r.Context(), actor, r.PathValue("client_id"), req)
	if err != nil {
		writeTimelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeTimelineError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req timelinehttp.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTimelineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.timeline.Handler.AddCommentHandler(r.Context(), actor, r.PathValue("client_id"), req)
	if err != nil {
		writeTimelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeTimelineError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req timelinehttp.AddAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTimelineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.timeline.Handler.AddAttachmentHandler(r.Context(), actor, r.PathValue("client_id"), req)
	if err != nil {
		writeTimelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListClientManagers(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.managers.Handler.ListClientManagersHandler(r.Context(), actor, r.PathValue("client_id"))
	if err != nil {
		writeManagerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListManagers(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.managers.Handler.ListManagersHandler(r.Context(), actor)
	if err != nil {
		writeManagerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req managerhttp.UpsertManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeManagerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.managers.Handler.UpsertManagerHandler(r.Context(), actor, req)
	if err != nil {
		writeManagerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.managers.Handler.GetManagerHandler(r.Context(), actor, r.PathValue("manager_id"))
	if err != nil {
		writeManagerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	var req managerhttp.AssignClientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeManagerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.managers.Handler.AssignClientsHandler(r.Context(), actor, r.PathValue("manager_id"), req); err != nil {
		writeManagerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(r)
	if !ok {
		writeManagerError(w, http.StatusUnauthorized, "missing_actor", "actor identity headers are required")
		return
	}
	resp, err := s.managers.Handler.DeleteManagerHandler(r.Context(), actor, r.PathValue("manager_id"))
	if err != nil {
		writeManagerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveActor builds the authz actor from the identity headers the upstream
// gateway injects after session validation.
func resolveActor(r *http.Request) (authz.Actor, bool) {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		return authz.Actor{}, false
	}
	hubID, _ := strconv.Atoi(strings.TrimSpace(r.Header.Get("X-Hub-Id")))

	var roles []string
	for _, role := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}

	return authz.Actor{
		Name:  strings.TrimSpace(r.Header.Get("X-User-Name")),
		Email: email,
		HubID: hubID,
		Roles: roles,
	}, true
}

func writeClientDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clienterrors.ErrClientNotFound):
		writeClientError(w, http.StatusNotFound, "client_not_found", err.Error())
	case errors.Is(err, clienterrors.ErrDuplicateEmail):
		writeClientError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, clienterrors.ErrInvalidEmail),
		errors.Is(err, clienterrors.ErrInvalidHub),
		errors.Is(err, clienterrors.ErrInvalidClientInput):
		writeClientError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, clienterrors.ErrForbidden):
		writeClientError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeClientError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeManagerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, managererrors.ErrManagerNotFound):
		writeManagerError(w, http.StatusNotFound, "manager_not_found", err.Error())
	case errors.Is(err, managererrors.ErrInvalidEmail),
		errors.Is(err, managererrors.ErrInvalidHub),
		errors.Is(err, managererrors.ErrInvalidManagerInput):
		writeManagerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, managererrors.ErrForbidden):
		writeManagerError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeManagerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTimelineDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timelineerrors.ErrClientNotFound),
		errors.Is(err, timelineerrors.ErrEventNotFound):
		writeTimelineError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, timelineerrors.ErrInvalidEventInput),
		errors.Is(err, timelineerrors.ErrInvalidHub):
		writeTimelineError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, timelineerrors.ErrForbidden):
		writeTimelineError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeTimelineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeClientError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, clienthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeManagerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, managerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeTimelineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, timelinehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
