package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/decred/slog"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/funpoker/funpoker/pkg/wire"
)

// Handlers exposes the lobby API and the websocket endpoint.
type Handlers struct {
	log      slog.Logger
	orc      *Orchestrator
	pool     *SocketPool
	upgrader websocket.Upgrader
}

// NewHandlers wires the HTTP surface to the orchestrator and socket
// pool.
func NewHandlers(orc *Orchestrator, pool *SocketPool, log slog.Logger) *Handlers {
	return &Handlers{
		log:  log,
		orc:  orc,
		pool: pool,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes builds the router.
func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	r.HandleFunc("/lobbies", h.listLobbies).Methods(http.MethodGet)
	r.HandleFunc("/lobbies", h.createLobby).Methods(http.MethodPost)
	r.HandleFunc("/joinLobby", h.joinLobby).Methods(http.MethodPost)
	r.HandleFunc("/startGame", h.startGame).Methods(http.MethodPost)
	r.HandleFunc("/addBot", h.addBot).Methods(http.MethodPost)
	r.HandleFunc("/ws", h.serveWS).Methods(http.MethodGet)
	return r
}

func (h *Handlers) readBody(w http.ResponseWriter, r *http.Request, msg interface{}) bool {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read body: %v", err)
		return false
	}
	if err := wire.Unmarshal(data, msg); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request: %v", err)
		return false
	}
	return true
}

func (h *Handlers) writeMessage(w http.ResponseWriter, t wire.ResponseType, msg interface{}) {
	buf, err := wire.Envelope(t, msg)
	if err != nil {
		h.log.Errorf("failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(buf); err != nil {
		h.log.Debugf("failed to write response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	h.log.Debugf("request failed (%d): %s", code, msg)
	buf, err := wire.Envelope(wire.TypeStatus, &wire.StatusResponse{Message: msg})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(code)
	w.Write(buf)
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req wire.User
	if !h.readBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "user name is required")
		return
	}
	u, err := h.orc.CreateUser(req.Name, req.Email, req.Country)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeUser, u)
}

func (h *Handlers) listLobbies(w http.ResponseWriter, r *http.Request) {
	lobbies, err := h.orc.Lobbies()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeLobbyList, &wire.LobbyList{Lobbies: lobbies})
}

func (h *Handlers) createLobby(w http.ResponseWriter, r *http.Request) {
	var req wire.CreateLobbyRequest
	if !h.readBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "lobby name is required")
		return
	}
	l, err := h.orc.CreateLobby(req.Name, req.AuthorID, req.BlindSize)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeLobby, l)
}

func (h *Handlers) joinLobby(w http.ResponseWriter, r *http.Request) {
	var req wire.JoinLobbyRequest
	if !h.readBody(w, r, &req) {
		return
	}
	if err := h.orc.JoinLobby(req.LobbyID, req.PlayerID); err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeStatus, &wire.StatusResponse{Ok: true, Message: "joined"})
}

func (h *Handlers) startGame(w http.ResponseWriter, r *http.Request) {
	var req wire.StartGameRequest
	if !h.readBody(w, r, &req) {
		return
	}
	if err := h.orc.StartGame(req.LobbyID); err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeStatus, &wire.StatusResponse{Ok: true, Message: "game starting"})
}

func (h *Handlers) addBot(w http.ResponseWriter, r *http.Request) {
	var req wire.AddBotRequest
	if !h.readBody(w, r, &req) {
		return
	}
	u, err := h.orc.AddBot(req.LobbyID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	h.writeMessage(w, wire.TypeUser, u)
}

// serveWS upgrades the request and registers the connection for the
// user named by the user_id query parameter.
func (h *Handlers) serveWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		h.writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugf("upgrade failed for user %d: %v", userID, err)
		return
	}
	h.pool.Add(userID, conn)
}
