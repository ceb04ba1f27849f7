package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/penguintracker/internal/server/models"
	"github.com/dmitrijs2005/penguintracker/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string          `json:"accessToken"`
	User        models.UserView `json:"user"`
}

func toAuthResponse(res *services.AuthResult) authResponse {
	return authResponse{AccessToken: res.AccessToken, User: res.User.View()}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeMessage(w, r, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toAuthResponse(res))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "user_id", res.User.ID)
	s.writeJSON(w, r, http.StatusCreated, toAuthResponse(res))
}

func (s *Server) handleListPenguins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := models.ListParams{
		Search:        q.Get("search"),
		Gender:        q.Get("gender"),
		SortField:     q.Get("sortField"),
		SortDirection: q.Get("sortDirection"),
	}

	var ok bool
	if params.Page, ok = s.intParam(w, r, "page"); !ok {
		return
	}
	if params.PageSize, ok = s.intParam(w, r, "pageSize"); !ok {
		return
	}

	page, err := s.penguins.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleCreatePenguin(w http.ResponseWriter, r *http.Request) {
	var patch models.PenguinPatch
	if !s.decode(w, r, &patch) {
		return
	}

	p, err := s.penguins.Create(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if u, ok := userFromContext(r.Context()); ok {
		s.logger.Info(r.Context(), "penguin created", "penguin_id", p.ID, "user_id", u.ID)
	}
	s.writeJSON(w, r, http.StatusCreated, p)
}

func (s *Server) handleUpdatePenguin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	var patch models.PenguinPatch
	if !s.decode(w, r, &patch) {
		return
	}

	p, err := s.penguins.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleDeletePenguin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}

	if err := s.penguins.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		s.writeMessage(w, r, http.StatusNotFound, "Penguin not found")
		return 0, false
	}
	return id, true
}

// intParam reads an optional integer query parameter; absent means 0.
func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.writeMessage(w, r, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}
