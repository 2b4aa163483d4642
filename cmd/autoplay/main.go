// Command autoplay plays single player games against a running server
// through its REST API. Its fleet is auto-placed (or taken from a stored
// layout) and its shots come from a hunt and target strategy that follows
// the placement rules.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/battleships/game/match"
	"github.com/wricardo/battleships/game/service"
)

// Client talks to the game server's REST API for one session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type stateResponse struct {
	Message string      `json:"message"`
	State   *match.View `json:"state"`
}

// CreateSession starts a single player session, optionally with a stored
// layout for the fleet
func (c *Client) CreateSession(ctx context.Context, layoutID string) (*service.SessionInfo, error) {
	req := map[string]string{"mode": string(match.ModeSingle)}
	if layoutID != "" {
		req["layout_id"] = layoutID
	}

	var info service.SessionInfo
	if err := c.call(ctx, http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return &info, nil
}

// AutoPlace places the remaining ships at random
func (c *Client) AutoPlace(ctx context.Context) (*match.View, error) {
	var resp stateResponse
	if err := c.call(ctx, http.MethodPost, c.sessionPath("auto-place"), nil, &resp); err != nil {
		return nil, fmt.Errorf("auto place: %w", err)
	}
	return resp.State, nil
}

// Ready finishes placement
func (c *Client) Ready(ctx context.Context) (*match.View, error) {
	var resp stateResponse
	if err := c.call(ctx, http.MethodPost, c.sessionPath("ready"), nil, &resp); err != nil {
		return nil, fmt.Errorf("ready: %w", err)
	}
	return resp.State, nil
}

// Attack fires at (row, col)
func (c *Client) Attack(ctx context.Context, row, col int) (*service.AttackResult, error) {
	var result service.AttackResult
	body := map[string]int{"row": row, "col": col}
	if err := c.call(ctx, http.MethodPost, c.sessionPath("attack"), body, &result); err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}
	return &result, nil
}

// Delete removes the session from the server
func (c *Client) Delete(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, c.sessionPath(""), nil, nil)
}

func (c *Client) sessionPath(action string) string {
	path := "/api/sessions/" + url.PathEscape(c.sessionID)
	if action != "" {
		path += "/" + action
	}
	return path
}

func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(data, &errResp) == nil && errResp["error"] != "" {
			return fmt.Errorf("%s - %s", resp.Status, errResp["error"])
		}
		return fmt.Errorf("%s - %s", resp.Status, string(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// Result summarizes one finished game
type Result struct {
	SessionID string
	Shots     int
	Won       bool
	Outcome   string
}

// Play runs one game to the end: placement, then shots chosen by
// strategy until the match is over or maxShots is reached
func Play(ctx context.Context, c *Client, strategy *Strategy, layoutID string, maxShots int, delay time.Duration) (*Result, error) {
	info, err := c.CreateSession(ctx, layoutID)
	if err != nil {
		return nil, err
	}
	log.Printf("Session created: %s", info.ID)

	if layoutID == "" {
		if _, err := c.AutoPlace(ctx); err != nil {
			return nil, err
		}
	}
	state, err := c.Ready(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{SessionID: info.ID}
	for state.Phase == match.PhaseBattle && result.Shots < maxShots {
		at, ok := strategy.NextShot(state.Opponent)
		if !ok {
			return result, fmt.Errorf("no cells left to attack")
		}

		attack, err := c.Attack(ctx, at.Row, at.Col)
		if err != nil {
			return result, err
		}
		result.Shots++
		state = attack.State
		log.Printf("Shot %d: %s", result.Shots, attack.Message)
		for _, reply := range attack.ReplyMessages {
			log.Printf("        %s", reply)
		}

		if attack.Outcome != "" {
			result.Outcome = attack.Outcome
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if state.Phase != match.PhaseOver {
		return result, fmt.Errorf("gave up after %d shots", result.Shots)
	}
	result.Won = state.Winner == state.Seat
	return result, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play single player games against a battleships server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "layout", Usage: "stored layout for the fleet (default: auto-place)"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "number of games to play"},
			&cli.IntFlag{Name: "max-shots", Value: 100, Usage: "maximum shots per game"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between shots"},
			&cli.BoolFlag{Name: "keep", Usage: "keep finished sessions on the server"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Connecting to game server at %s", cmd.String("url"))

			wins := 0
			games := cmd.Int("games")
			for i := 0; i < games; i++ {
				client := NewClient(cmd.String("url"))
				result, err := Play(ctx, client, NewStrategy(i), cmd.String("layout"), cmd.Int("max-shots"), cmd.Duration("delay"))
				if err != nil {
					return fmt.Errorf("game %d: %w", i+1, err)
				}

				log.Printf("Game %d: %s in %d shots", i+1, result.Outcome, result.Shots)
				if result.Won {
					wins++
				}
				if !cmd.Bool("keep") {
					if err := client.Delete(ctx); err != nil {
						log.Printf("Warning: failed to delete session %s: %v", result.SessionID, err)
					}
				}
			}

			log.Printf("Won %d of %d games", wins, games)
			return nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
