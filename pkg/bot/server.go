package bot

import (
	"io"
	"net/http"

	"github.com/decred/slog"
	"github.com/gorilla/mux"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

// Server answers move requests from the game server.
type Server struct {
	log      slog.Logger
	strategy *Strategy
}

// NewServer builds the move service.
func NewServer(log slog.Logger) *Server {
	return &Server{
		log:      log,
		strategy: NewStrategy(),
	}
}

// Routes builds the router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/poker_move", s.pokerMove).Methods(http.MethodPost)
	return r
}

func (s *Server) pokerMove(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	var state poker.ClientState
	if err := wire.Unmarshal(data, &state); err != nil {
		s.log.Debugf("malformed state from %s: %v", r.RemoteAddr, err)
		http.Error(w, "malformed state", http.StatusBadRequest)
		return
	}

	action := s.strategy.ChooseAction(&state)
	s.log.Debugf("request %s: bot %d plays %s(%d)",
		r.Header.Get("X-Request-Id"), state.PlayerID, action.Type, action.Amount)

	buf, err := wire.Marshal(action)
	if err != nil {
		http.Error(w, "failed to encode action", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(buf)
}
