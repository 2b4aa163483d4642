package service

import (
	"time"

	"github.com/wricardo/battleships/game/layout"
	"github.com/wricardo/battleships/game/match"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string      `json:"id"`
	Mode           match.Mode  `json:"mode"`
	Layout         string      `json:"layout,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAccessedAt time.Time   `json:"last_accessed_at"`
	State          *match.View `json:"state"`
}

// PlaceRequest is one ship placement for the seat currently placing
type PlaceRequest struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	Length     int  `json:"length"`
	Horizontal bool `json:"horizontal"`
}

// PlacementResult contains the outcome of a placement operation
type PlacementResult struct {
	Placed  bool        `json:"placed"`
	Message string      `json:"message"`
	State   *match.View `json:"state"`
}

// AttackResult contains the outcome of an attack, including the automated
// opponent's replies in single player
type AttackResult struct {
	Turn          *match.Turn `json:"turn"`
	Message       string      `json:"message"`
	ReplyMessages []string    `json:"reply_messages,omitempty"`
	Outcome       string      `json:"outcome,omitempty"`
	State         *match.View `json:"state"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []match.Shot `json:"shots"`
	TotalShots  int          `json:"total_shots"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// LayoutInfo describes a stored fleet layout
type LayoutInfo = layout.Info
