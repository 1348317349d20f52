package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sortify/sortify/internal/cart"
	"github.com/sortify/sortify/internal/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "please enter both email and password")
		return
	}
	if err := s.session.Login(req.Email, req.Password); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"session": s.session.ID(), "status": "logged_in"})
}

type setupRequest struct {
	Username string `json:"username" validate:"required"`
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "username is required")
		return
	}
	if err := s.session.CompleteSetup(req.Username); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"user": s.session.User(), "status": "ready"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"theme": s.session.Theme()})
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}
	if err := s.session.SetTheme(r.Context(), req.Theme); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"theme": s.session.Theme()})
}

// handleSearch ranks the pre-loaded catalog (variant A).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := models.SearchCriteria{
		Query:    q.Get("query"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
	}
	s.logger.Debug("search request", zap.String("query", criteria.Query))
	results := s.ranker.Rank(s.loader.Products(), criteria)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// handleSearchStart begins a paginated provider search (variant B).
func (s *Server) handleSearchStart(w http.ResponseWriter, r *http.Request) {
	var criteria models.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The page fetch outlives this handler; net/http cancels r.Context()
	// as soon as the 202 is written.
	if !s.session.Pager().StartSearch(context.WithoutCancel(r.Context()), criteria) {
		s.respondError(w, http.StatusBadRequest, "query must not be blank")
		return
	}
	s.respondJSON(w, http.StatusAccepted, s.session.Pager().Snapshot())
}

func (s *Server) handleSearchNext(w http.ResponseWriter, r *http.Request) {
	triggered := s.session.Pager().RequestNextPage(context.WithoutCancel(r.Context()))
	snap := s.session.Pager().Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"triggered": triggered,
		"snapshot":  snap,
	})
}

type visibleRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// handleSearchVisible reports that the last rendered result item entered the
// viewport, the infinite-scroll trigger.
func (s *Server) handleSearchVisible(w http.ResponseWriter, r *http.Request) {
	var req visibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "target_id is required")
		return
	}
	triggered := s.session.Pager().NotifyLastItemVisible(context.WithoutCancel(r.Context()), req.TargetID)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"triggered": triggered,
		"snapshot":  s.session.Pager().Snapshot(),
	})
}

func (s *Server) handleSearchResults(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Pager().Snapshot())
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	c := s.session.Cart()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": c.Items(),
		"count": c.Len(),
		"total": c.Total(),
	})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" {
		s.respondError(w, http.StatusBadRequest, "product id is required")
		return
	}
	added := s.session.Cart().Add(p)
	s.logger.Debug("cart add", zap.String("id", p.ID), zap.Bool("added", added))
	status := http.StatusCreated
	if !added {
		status = http.StatusOK // already present, set semantics
	}
	s.respondJSON(w, status, map[string]interface{}{
		"added": added,
		"count": s.session.Cart().Len(),
	})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed := s.session.Cart().Remove(id)
	s.logger.Debug("cart remove", zap.String("id", id), zap.Bool("removed", removed))
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
		"count":   s.session.Cart().Len(),
	})
}

func (s *Server) handleCartExport(w http.ResponseWriter, r *http.Request) {
	content := s.session.Cart().Export()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cart.ExportFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		s.logger.Error("cart export write failed", zap.Error(err))
	}
}

func (s *Server) handleCartNames(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(s.session.Cart().SerializeNames())); err != nil {
		s.logger.Error("cart names write failed", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
