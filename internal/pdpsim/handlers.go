package pdpsim

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/trinobridge/opabridge/internal/httpx"
)

// DecisionResponse is the wire shape the bridge expects back: a fresh
// decision id plus either a boolean or an index-list result.
type DecisionResponse struct {
	DecisionID string `json:"decision_id"`
	Result     any    `json:"result"`
}

type Handler struct {
	decider Decider
	log     *slog.Logger
}

func NewHandler(decider Decider, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{decider: decider, log: log}
}

type query struct {
	Input Input `json:"input"`
}

// Allow serves single-decision queries.
func (h *Handler) Allow(w http.ResponseWriter, r *http.Request) {
	var q query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed input document")
		return
	}
	if q.Input.Action.Operation == "" {
		httpx.WriteError(w, http.StatusBadRequest, "action.operation is required")
		return
	}
	allowed, err := h.decider.Decide(r.Context(), q.Input)
	if err != nil {
		h.log.Error("decide", "operation", q.Input.Action.Operation, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "decision backend failure")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, DecisionResponse{
		DecisionID: uuid.NewString(),
		Result:     allowed,
	})
}

// Batch serves filter queries: one verdict per filterResources entry,
// returned as indices into the request order. A FilterColumns request
// carries a single resource whose column list is the candidate set.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var q query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed input document")
		return
	}
	act := q.Input.Action
	if act.Operation == "" {
		httpx.WriteError(w, http.StatusBadRequest, "action.operation is required")
		return
	}
	if act.FilterResources == nil {
		httpx.WriteError(w, http.StatusBadRequest, "action.filterResources is required")
		return
	}

	indices := []int{}
	decideOne := func(res Resource) (bool, error) {
		in := q.Input
		in.Action = Action{Operation: act.Operation, Resource: &res}
		return h.decider.Decide(r.Context(), in)
	}

	if cols := columnCandidates(act); cols != nil {
		base := act.FilterResources[0]
		for i, col := range cols {
			ok, err := decideOne(withSingleColumn(base, col))
			if err != nil {
				h.log.Error("decide", "operation", act.Operation, "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "decision backend failure")
				return
			}
			if ok {
				indices = append(indices, i)
			}
		}
	} else {
		for i, res := range act.FilterResources {
			ok, err := decideOne(res)
			if err != nil {
				h.log.Error("decide", "operation", act.Operation, "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "decision backend failure")
				return
			}
			if ok {
				indices = append(indices, i)
			}
		}
	}

	httpx.WriteJSON(w, http.StatusOK, DecisionResponse{
		DecisionID: uuid.NewString(),
		Result:     indices,
	})
}

func columnCandidates(act Action) []string {
	if act.Operation != "FilterColumns" || len(act.FilterResources) != 1 {
		return nil
	}
	return act.FilterResources[0].ColumnList()
}

func withSingleColumn(r Resource, column string) Resource {
	if r.Table != nil {
		t := *r.Table
		t.Columns = []string{column}
		r.Table = &t
	}
	if r.View != nil {
		v := *r.View
		v.Columns = []string{column}
		r.View = &v
	}
	return r
}
