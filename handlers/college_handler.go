package handlers

import (
	"context"
	"net/http"

	"collegedir/models"
	"collegedir/query"
	"collegedir/utils"
)

type CollegeService interface {
	ListColleges(ctx context.Context, p query.ListParams) ([]models.Institution, error)
	GetCollege(ctx context.Context, rawID string) (*models.Institution, error)
	TopList(ctx context.Context, q, course string) ([]models.Institution, error)
	Showcase(ctx context.Context) ([]models.Institution, error)
}

type CollegeHandler struct {
	svc CollegeService
}

func NewCollegeHandler(svc CollegeService) *CollegeHandler {
	return &CollegeHandler{svc: svc}
}

// GetColleges handles GET /api/get-colleges?search=&category=&branch=
func (h *CollegeHandler) GetColleges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	colleges, err := h.svc.ListColleges(r.Context(), query.ListParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Branch:   q.Get("branch"),
	})
	if err != nil {
		utils.RespondWithAppError(w, r, err, "Error fetching colleges.")
		return
	}
	respondWithColleges(w, colleges)
}

// GetCollegeInfo handles GET /api/get-college-info?id=
func (h *CollegeHandler) GetCollegeInfo(w http.ResponseWriter, r *http.Request) {
	college, err := h.svc.GetCollege(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondWithAppError(w, r, err, "Error fetching college info.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Envelope{Success: true, College: college})
}

func (h *CollegeHandler) GetTopList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	colleges, err := h.svc.TopList(r.Context(), q.Get("query"), q.Get("course"))
	if err != nil {
		utils.RespondWithAppError(w, r, err, "Error fetching colleges.")
		return
	}
	respondWithColleges(w, colleges)
}

func (h *CollegeHandler) GetShowcase(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.svc.Showcase(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, r, err, "Error fetching colleges.")
		return
	}
	respondWithColleges(w, colleges)
}

func respondWithColleges(w http.ResponseWriter, colleges []models.Institution) {
	if colleges == nil {
		colleges = []models.Institution{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Envelope{Success: true, Colleges: colleges})
}
