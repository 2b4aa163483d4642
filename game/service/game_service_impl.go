package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/battleships/game/cpu"
	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/match"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	layouts  LayoutManager
	seed     int64
	created  int64
	mu       sync.Mutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithSeed makes the automated opponents deterministic. Each new session
// gets its own seed derived from this one; 0 keeps them random.
func WithSeed(seed int64) Option {
	return func(s *gameServiceImpl) {
		s.seed = seed
	}
}

// NewGameService creates a new game service instance. layouts may be nil
// when no layout directory is available.
func NewGameService(sessions SessionManager, layouts LayoutManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		layouts:  layouts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new match in the given mode, optionally placing
// the first seat's fleet from a stored layout
func (s *gameServiceImpl) CreateSession(ctx context.Context, mode string, layoutID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.newMatch(mode)
	if err != nil {
		return nil, err
	}

	if layoutID != "" {
		if err := s.applyLayout(m, layoutID); err != nil {
			return nil, err
		}
	}

	sess, err := s.sessions.Create("", m)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.Layout = layoutID

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// PlaceShip places one ship for the seat currently placing
func (s *gameServiceImpl) PlaceShip(ctx context.Context, sessionID string, req PlaceRequest) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	placed, err := sess.Match.PlaceShip(req.Row, req.Col, req.Length, req.Horizontal)
	if err != nil {
		return nil, err
	}

	name := engine.ShipNames[req.Length]
	at := engine.Coordinate{Row: req.Row, Col: req.Col}
	message := fmt.Sprintf("%s placed at %s", name, at)
	if !placed {
		message = fmt.Sprintf("%s cannot be placed at %s: off the board or touching another ship", name, at)
	}

	view, err := sess.Match.View(sess.Match.Current())
	if err != nil {
		return nil, err
	}

	return &PlacementResult{
		Placed:  placed,
		Message: message,
		State:   view,
	}, nil
}

// UndoLastShip removes the current seat's most recent ship
func (s *gameServiceImpl) UndoLastShip(ctx context.Context, sessionID string) (*match.View, error) {
	return s.mutate(sessionID, func(m *match.Match) error {
		return m.UndoLastShip()
	})
}

// AutoPlace places the current seat's remaining ships at random
func (s *gameServiceImpl) AutoPlace(ctx context.Context, sessionID string) (*match.View, error) {
	return s.mutate(sessionID, func(m *match.Match) error {
		return m.AutoPlace()
	})
}

// ApplyLayout places a stored layout for the current seat
func (s *gameServiceImpl) ApplyLayout(ctx context.Context, sessionID, layoutID string) (*match.View, error) {
	return s.mutate(sessionID, func(m *match.Match) error {
		return s.applyLayout(m, layoutID)
	})
}

// FinishPlacement ends the current seat's placement
func (s *gameServiceImpl) FinishPlacement(ctx context.Context, sessionID string) (*match.View, error) {
	return s.mutate(sessionID, func(m *match.Match) error {
		return m.FinishPlacement()
	})
}

// Attack fires the current seat's shot
func (s *gameServiceImpl) Attack(ctx context.Context, sessionID string, row, col int) (*AttackResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	m := sess.Match
	turn, err := m.Attack(row, col)
	if err != nil {
		return nil, err
	}

	result := &AttackResult{
		Turn:    turn,
		Message: describeShot(m.Mode(), turn.Shot),
	}
	for _, reply := range turn.Replies {
		result.ReplyMessages = append(result.ReplyMessages, describeShot(m.Mode(), reply))
	}
	if turn.Phase == match.PhaseOver {
		result.Outcome = describeWinner(m.Mode(), turn.Winner)
		result.Message += ". " + result.Outcome
	}

	// Always the attacker's view; the next seat asks for its own state
	result.State, err = m.View(turn.Shot.Seat)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetGameState returns the view of the given seat, or of the current seat
// when seat is CurrentSeat
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string, seat int) (*match.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if seat == CurrentSeat {
		seat = sess.Match.Current()
	}
	return sess.Match.View(seat)
}

// GetShotHistory returns a page of the session's shots
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Match.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	shots := []match.Shot{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			shots = append(shots, history[i])
		}
	} else if start < total {
		shots = append(shots, history[start:end]...)
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLayouts returns the stored fleet layouts
func (s *gameServiceImpl) ListLayouts(ctx context.Context) ([]*LayoutInfo, error) {
	if s.layouts == nil {
		return []*LayoutInfo{}, nil
	}
	infos, err := s.layouts.List()
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []*LayoutInfo{}
	}
	return infos, nil
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// mutate runs fn on the session's match and returns the current seat's view
func (s *gameServiceImpl) mutate(sessionID string, fn func(*match.Match) error) (*match.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess.Match); err != nil {
		return nil, err
	}
	return sess.Match.View(sess.Match.Current())
}

func (s *gameServiceImpl) newMatch(mode string) (*match.Match, error) {
	md, err := match.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	var opts []match.Option
	if s.seed != 0 {
		s.created++
		opts = append(opts, match.WithOpponent(cpu.New(s.seed+s.created)))
	}
	return match.New(md, opts...)
}

func (s *gameServiceImpl) applyLayout(m *match.Match, layoutID string) error {
	if s.layouts == nil {
		return ErrLayoutsUnavailable
	}
	l, err := s.layouts.Get(layoutID)
	if err != nil {
		return err
	}
	return l.PlaceInto(m)
}

func sessionInfo(sess *Session) *SessionInfo {
	view, _ := sess.Match.View(sess.Match.Current())
	return &SessionInfo{
		ID:             sess.ID,
		Mode:           sess.Match.Mode(),
		Layout:         sess.Layout,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          view,
	}
}

func seatName(mode match.Mode, seat int) string {
	if mode == match.ModeSingle {
		if seat == 0 {
			return "you"
		}
		return "cpu"
	}
	return fmt.Sprintf("player %d", seat+1)
}

func describeShot(mode match.Mode, shot match.Shot) string {
	who := seatName(mode, shot.Seat)
	switch {
	case shot.Result == engine.AttackRepeat:
		return fmt.Sprintf("%s was already attacked, fire somewhere else", shot.Target)
	case shot.Sunk:
		return fmt.Sprintf("%s sunk a %s at %s", who, engine.ShipNames[shot.Length], shot.Target)
	case shot.Result == engine.AttackHit:
		return fmt.Sprintf("%s hit a ship at %s", who, shot.Target)
	default:
		return fmt.Sprintf("%s missed at %s", who, shot.Target)
	}
}

func describeWinner(mode match.Mode, winner int) string {
	if mode == match.ModeSingle {
		if winner == 0 {
			return "You win!"
		}
		return "The cpu wins."
	}
	return fmt.Sprintf("%s wins!", capitalize(seatName(mode, winner)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
