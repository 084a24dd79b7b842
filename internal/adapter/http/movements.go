package http

import (
	"net/http"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/movement"
)

func (rt *Router) listMovements(w http.ResponseWriter, r *http.Request) {
	clientID, err := queryUUID(r, "client_id")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	start, err := queryDate(r, "start_date")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	filter := domain.MovementFilter{ClientID: clientID, StartDate: start, EndDate: end}
	page, err := rt.services.Movements.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toMovementResponse))
}

func (rt *Router) getMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	m, err := rt.services.Movements.Get(r.Context(), id)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementResponse(m))
}

func (rt *Router) createMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	m, err := rt.services.Movements.Create(r.Context(), movement.CreateMovementInput{
		ClientID: parseID(req.ClientID),
		Type:     domain.MovementType(req.Type),
		Amount:   *req.Amount,
		Date:     parseDate(req.Date),
		Note:     req.Note,
	})
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementResponse(m))
}

func (rt *Router) updateMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	var req updateMovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	input := movement.UpdateMovementInput{
		Amount: req.Amount,
		Note:   req.Note,
	}
	if req.ClientID != nil {
		v := parseID(*req.ClientID)
		input.ClientID = &v
	}
	if req.Type != nil {
		t := domain.MovementType(*req.Type)
		input.Type = &t
	}
	if req.Date != nil {
		d := parseDate(*req.Date)
		input.Date = &d
	}

	m, err := rt.services.Movements.Update(r.Context(), id, input)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementResponse(m))
}

func (rt *Router) deleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, rt.logger, err)
		return
	}

	if err := rt.services.Movements.Delete(r.Context(), id); err != nil {
		fail(w, r, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
