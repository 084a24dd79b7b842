package http

import (
	"net/http"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/allocation"
)

func (rt *Router) listAllocations(w http.ResponseWriter, r *http.Request) {
	clientID, err := queryUUID(r, "client_id")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	assetID, err := queryUUID(r, "asset_id")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	filter := domain.AllocationFilter{ClientID: clientID, AssetID: assetID}
	page, err := rt.services.Allocations.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toAllocationResponse))
}

func (rt *Router) getAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	a, err := rt.services.Allocations.Get(r.Context(), id)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAllocationResponse(a))
}

func (rt *Router) createAllocation(w http.ResponseWriter, r *http.Request) {
	var req createAllocationRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	a, err := rt.services.Allocations.Create(r.Context(), allocation.CreateAllocationInput{
		ClientID: parseID(req.ClientID),
		AssetID:  parseID(req.AssetID),
		Quantity: *req.Quantity,
		BuyPrice: *req.BuyPrice,
		BuyDate:  parseDate(req.BuyDate),
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAllocationResponse(a))
}

func (rt *Router) updateAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	var req updateAllocationRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	input := allocation.UpdateAllocationInput{
		Quantity: req.Quantity,
		BuyPrice: req.BuyPrice,
	}
	if req.ClientID != nil {
		v := parseID(*req.ClientID)
		input.ClientID = &v
	}
	if req.AssetID != nil {
		v := parseID(*req.AssetID)
		input.AssetID = &v
	}
	if req.BuyDate != nil {
		d := parseDate(*req.BuyDate)
		input.BuyDate = &d
	}

	a, err := rt.services.Allocations.Update(r.Context(), id, input)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAllocationResponse(a))
}

func (rt *Router) deleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	if err := rt.services.Allocations.Delete(r.Context(), id); err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

