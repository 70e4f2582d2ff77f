package api

import (
	"context"
	"net/http"
)

// Play-progress states of a library entry, as stored by the backend.
const (
	StatusPending   = "Pendiente"
	StatusPlaying   = "Jugando"
	StatusCompleted = "Completado"
)

// LibraryEntry is one game in the user's personal library, with the
// catalog entry populated by the backend.
type LibraryEntry struct {
	ID             string  `json:"_id"`
	Game           *Game   `json:"juegoId"`
	Status         string  `json:"estado"`
	HoursPlayed    float64 `json:"horasJugadas"`
	PersonalRating int     `json:"calificacionPersonal"`
}

// LibraryInput are the create/update fields of a library entry.
type LibraryInput struct {
	GameID         string  `json:"juegoId" validate:"required"`
	Status         string  `json:"estado" validate:"required,oneof=Pendiente Jugando Completado"`
	HoursPlayed    float64 `json:"horasJugadas" validate:"min=0"`
	PersonalRating int     `json:"calificacionPersonal" validate:"min=0,max=10"`
}

// ListLibrary retrieves the authenticated user's library.
func (c *Client) ListLibrary(ctx context.Context) ([]LibraryEntry, error) {
	var entries []LibraryEntry
	if err := c.get(ctx, "/mis-juegos/me", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddToLibrary adds a game to the user's library.
func (c *Client) AddToLibrary(ctx context.Context, input LibraryInput) (*LibraryEntry, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/mis-juegos", input)
	if err != nil {
		return nil, err
	}

	var entry LibraryEntry
	if err := parseResponse(resp, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateLibraryEntry updates progress tracking on a library entry.
func (c *Client) UpdateLibraryEntry(ctx context.Context, id string, input LibraryInput) (*LibraryEntry, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/mis-juegos/"+pathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var entry LibraryEntry
	if err := parseResponse(resp, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveFromLibrary deletes a library entry.
func (c *Client) RemoveFromLibrary(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/mis-juegos/"+pathEscape(id), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
