package stats

import (
	"net/http"
	"strconv"

	"github.com/endemicwatch/endemic-monitoring/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) ByStatus(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.CasesByStatus()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) ByDisease(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.CasesByDisease()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) ByProvince(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.CasesByProvince()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	points, err := h.Service.Timeline(days)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, points)
}
