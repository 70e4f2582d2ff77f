package api

import (
	"context"
	"net/http"
	"time"
)

// Game is a catalog entry. JSON tags follow the backend's wire contract.
type Game struct {
	ID          string    `json:"_id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Genre       string    `json:"genero"`
	Platform    string    `json:"plataforma"`
	Developer   string    `json:"desarrollador"`
	CoverURL    string    `json:"imagenPortada"`
	ReleaseDate time.Time `json:"fechaLanzamiento"`
}

// GameInput are the create/update fields of a catalog entry.
type GameInput struct {
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion"`
	Genre       string `json:"genero" validate:"required"`
	Platform    string `json:"plataforma" validate:"required"`
	Developer   string `json:"desarrollador"`
	CoverURL    string `json:"imagenPortada" validate:"omitempty,url"`
}

// ListGames retrieves the global game catalog. Filtering and sorting are
// a presentation concern applied in memory by the caller.
func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := c.get(ctx, "/juegos", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame retrieves a catalog entry by ID.
func (c *Client) GetGame(ctx context.Context, id string) (*Game, error) {
	var game Game
	if err := c.get(ctx, "/juegos/"+pathEscape(id), &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateGame adds a game to the global catalog.
func (c *Client) CreateGame(ctx context.Context, input GameInput) (*Game, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/juegos", input)
	if err != nil {
		return nil, err
	}

	var game Game
	if err := parseResponse(resp, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame updates a catalog entry.
func (c *Client) UpdateGame(ctx context.Context, id string, input GameInput) (*Game, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/juegos/"+pathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var game Game
	if err := parseResponse(resp, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteGame removes a catalog entry.
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/juegos/"+pathEscape(id), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
