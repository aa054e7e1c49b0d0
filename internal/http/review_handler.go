package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront/internal/domain"
)

type Reviews interface {
	AddReview(ctx context.Context, productID int64, rating int, text string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviews Reviews
	timeout time.Duration
}

func NewReviewHandler(reviews Reviews, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		timeout: timeout,
	}
}

type AddReviewRequestDTO struct {
	// Rating defaults to 5 stars when omitted.
	Rating *int   `json:"rating"`
	Text   string `json:"text"`
}

type ReviewResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func convertReview(rv domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        rv.ID,
		ProductID: rv.ProductID,
		Rating:    rv.Rating,
		Text:      rv.Text,
		CreatedAt: rv.CreatedAt.Format(time.RFC3339),
	}
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /api/v1/products/{product_id}/reviews
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req AddReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rating := 5
	if req.Rating != nil {
		rating = *req.Rating
	}

	review, err := h.reviews.AddReview(ctx, productID, rating, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertReview(*review))
}

// GET /api/v1/products/{product_id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	reviews, err := h.reviews.ListReviews(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dtos := make([]ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		dtos = append(dtos, convertReview(rv))
	}

	respondJSON(w, http.StatusOK, dtos)
}
