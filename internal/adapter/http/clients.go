package http

import (
	"net/http"
	"strings"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
)

func (rt *Router) listClients(w http.ResponseWriter, r *http.Request) {
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	filter := domain.ClientFilter{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		IsActive: isActive,
	}

	page, err := rt.services.Clients.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toClientResponse))
}

func (rt *Router) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	c, err := rt.services.Clients.Get(r.Context(), id)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(c))
}

func (rt *Router) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	c, err := rt.services.Clients.Create(r.Context(), client.CreateClientInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: isActive,
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(c))
}

func (rt *Router) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	var req updateClientRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	c, err := rt.services.Clients.Update(r.Context(), id, client.UpdateClientInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(c))
}

func (rt *Router) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	if err := rt.services.Clients.Delete(r.Context(), id); err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
