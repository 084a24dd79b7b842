package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/asset"
)

func (rt *Router) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AssetFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Exchange: strings.TrimSpace(q.Get("exchange")),
		Currency: strings.TrimSpace(q.Get("currency")),
	}

	page, err := rt.services.Assets.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toAssetResponse))
}

func (rt *Router) getAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	a, err := rt.services.Assets.Get(r.Context(), id)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(a))
}

func (rt *Router) createAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	a, err := rt.services.Assets.Create(r.Context(), asset.CreateAssetInput{
		Ticker:   req.Ticker,
		Name:     req.Name,
		Exchange: req.Exchange,
		Currency: req.Currency,
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetResponse(a))
}

func (rt *Router) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	var req updateAssetRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	a, err := rt.services.Assets.Update(r.Context(), id, asset.UpdateAssetInput{
		Ticker:   req.Ticker,
		Name:     req.Name,
		Exchange: req.Exchange,
		Currency: req.Currency,
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(a))
}

func (rt *Router) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	if err := rt.services.Assets.Delete(r.Context(), id); err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fetchAsset answers 201 when the ticker was imported and 200 when it already existed
func (rt *Router) fetchAsset(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	a, created, err := rt.services.Assets.FetchOrImport(r.Context(), ticker)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toAssetResponse(a))
}
