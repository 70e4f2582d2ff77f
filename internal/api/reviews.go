package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gametracker/gametracker/internal/session"
)

// Review is a game review.
type Review struct {
	ID        string        `json:"_id"`
	GameID    string        `json:"juegoId"`
	Author    *session.User `json:"usuarioId,omitempty"`
	Rating    int           `json:"puntuacion"`
	Text      string        `json:"texto"`
	CreatedAt time.Time     `json:"fechaCreacion"`
}

// ReviewInput are the create/update fields of a review.
type ReviewInput struct {
	GameID string `json:"juegoId" validate:"required"`
	Rating int    `json:"puntuacion" validate:"required,min=1,max=10"`
	Text   string `json:"texto" validate:"required"`
}

// ListReviews retrieves all reviews.
func (c *Client) ListReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "/resenas", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListGameReviews retrieves the reviews of one game.
func (c *Client) ListGameReviews(ctx context.Context, gameID string) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "/resenas/juego/"+pathEscape(gameID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview publishes a review.
func (c *Client) CreateReview(ctx context.Context, input ReviewInput) (*Review, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/resenas", input)
	if err != nil {
		return nil, err
	}

	var review Review
	if err := parseResponse(resp, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits an existing review.
func (c *Client) UpdateReview(ctx context.Context, id string, input ReviewInput) (*Review, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/resenas/"+pathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var review Review
	if err := parseResponse(resp, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/resenas/"+pathEscape(id), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
