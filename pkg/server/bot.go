package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

// MoveRequester asks an external decision service for a bot's next
// action given its view of the table.
type MoveRequester interface {
	RequestMove(state *poker.ClientState) (*poker.Action, error)
}

// BotClient requests bot moves over HTTP from a move service.
type BotClient struct {
	log    slog.Logger
	url    string
	client *http.Client
}

// NewBotClient creates a client against the move service at baseURL.
func NewBotClient(baseURL string, timeout time.Duration, log slog.Logger) *BotClient {
	return &BotClient{
		log:    log,
		url:    baseURL,
		client: &http.Client{Timeout: timeout},
	}
}

// RequestMove posts the bot's table view to the move service and decodes
// the chosen action.
func (bc *BotClient) RequestMove(state *poker.ClientState) (*poker.Action, error) {
	buf, err := wire.Marshal(state)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, bc.url+"/poker_move", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := bc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("move request for bot %d failed: %v", state.PlayerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("move service returned %s for bot %d",
			resp.Status, state.PlayerID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var action poker.Action
	if err := wire.Unmarshal(body, &action); err != nil {
		return nil, fmt.Errorf("bad move response for bot %d: %v", state.PlayerID, err)
	}
	bc.log.Tracef("bot %d chose %s", state.PlayerID, action.Type)
	return &action, nil
}
