package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/battleships/game/layout"
	"github.com/wricardo/battleships/game/match"
)

var ErrLayoutsUnavailable = errors.New("no layout directory configured")

// CurrentSeat asks GetGameState for the seat that currently places or fires
const CurrentSeat = -1

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, mode string, layoutID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Placement
	PlaceShip(ctx context.Context, sessionID string, req PlaceRequest) (*PlacementResult, error)
	UndoLastShip(ctx context.Context, sessionID string) (*match.View, error)
	AutoPlace(ctx context.Context, sessionID string) (*match.View, error)
	ApplyLayout(ctx context.Context, sessionID, layoutID string) (*match.View, error)
	FinishPlacement(ctx context.Context, sessionID string) (*match.View, error)

	// Battle
	Attack(ctx context.Context, sessionID string, row, col int) (*AttackResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string, seat int) (*match.View, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Layouts
	ListLayouts(ctx context.Context) ([]*LayoutInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, m *match.Match) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LayoutManager serves stored fleet layouts
type LayoutManager interface {
	Get(id string) (*layout.Layout, error)
	List() ([]*layout.Info, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	Match          *match.Match
	Layout         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
