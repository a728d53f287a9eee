package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

const writeWait = 10 * time.Second

// ErrIdle reports that the acting player ran out their decision clock
// without the connection failing.
var ErrIdle = errors.New("player idle timeout")

// playerConn wraps a websocket connection with separate read and write
// locks. The run loop and the health checker both write to it, and a
// user seated in several lobbies has every lobby's loop reading from
// it; websocket connections allow one concurrent reader and one
// concurrent writer.
type playerConn struct {
	writeMu sync.Mutex
	readMu  sync.Mutex
	conn    *websocket.Conn
}

func (pc *playerConn) write(messageType int, data []byte) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.conn.WriteMessage(messageType, data)
}

func (pc *playerConn) read(timeout time.Duration) ([]byte, error) {
	pc.readMu.Lock()
	defer pc.readMu.Unlock()
	pc.conn.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := pc.conn.ReadMessage()
	return data, err
}

// SocketPool tracks the websocket connection of every online user and
// periodically verifies liveness with pings.
type SocketPool struct {
	log slog.Logger

	mu    sync.Mutex
	conns map[int64]*playerConn

	quit chan struct{}
	once sync.Once
}

// NewSocketPool creates an empty pool.
func NewSocketPool(log slog.Logger) *SocketPool {
	return &SocketPool{
		log:   log,
		conns: make(map[int64]*playerConn),
		quit:  make(chan struct{}),
	}
}

// Add registers a user's connection, replacing and closing any previous
// one.
func (sp *SocketPool) Add(userID int64, conn *websocket.Conn) {
	sp.mu.Lock()
	prev := sp.conns[userID]
	sp.conns[userID] = &playerConn{conn: conn}
	sp.mu.Unlock()

	if prev != nil {
		prev.conn.Close()
	}
	sp.log.Debugf("user %d connected", userID)
}

// Remove drops and closes a user's connection, if any.
func (sp *SocketPool) Remove(userID int64) {
	sp.mu.Lock()
	pc := sp.conns[userID]
	delete(sp.conns, userID)
	sp.mu.Unlock()

	if pc != nil {
		pc.conn.Close()
		sp.log.Debugf("user %d removed from pool", userID)
	}
}

func (sp *SocketPool) get(userID int64) *playerConn {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.conns[userID]
}

// ReadRequest blocks until the user sends an action request or the
// timeout elapses. A timeout returns ErrIdle and leaves the connection
// in the pool; any other failure removes it.
func (sp *SocketPool) ReadRequest(userID int64, timeout time.Duration) (*poker.ActionRequest, error) {
	pc := sp.get(userID)
	if pc == nil {
		return nil, fmt.Errorf("user %d has no connection", userID)
	}

	data, err := pc.read(timeout)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrIdle
		}
		sp.Remove(userID)
		return nil, fmt.Errorf("read from user %d failed: %v", userID, err)
	}

	var req poker.ActionRequest
	if err := wire.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request from user %d: %v", userID, err)
	}
	return &req, nil
}

// Send delivers a typed message to the user. Failures remove the
// connection from the pool.
func (sp *SocketPool) Send(userID int64, t wire.ResponseType, msg interface{}) error {
	pc := sp.get(userID)
	if pc == nil {
		return fmt.Errorf("user %d has no connection", userID)
	}

	buf, err := wire.Envelope(t, msg)
	if err != nil {
		return err
	}
	if err := pc.write(websocket.BinaryMessage, buf); err != nil {
		sp.Remove(userID)
		return fmt.Errorf("send to user %d failed: %v", userID, err)
	}
	return nil
}

// StartHealthChecker pings every pooled connection on the given
// interval. Connections that fail the ping are closed, removed, and
// reported through onClosed.
func (sp *SocketPool) StartHealthChecker(interval time.Duration, onClosed func(userID int64)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sp.quit:
				return
			case <-ticker.C:
				for _, userID := range sp.failedPings() {
					sp.log.Infof("user %d failed health check", userID)
					sp.Remove(userID)
					if onClosed != nil {
						onClosed(userID)
					}
				}
			}
		}
	}()
}

func (sp *SocketPool) failedPings() []int64 {
	sp.mu.Lock()
	conns := make(map[int64]*playerConn, len(sp.conns))
	for id, pc := range sp.conns {
		conns[id] = pc
	}
	sp.mu.Unlock()

	var failed []int64
	for id, pc := range conns {
		if err := pc.write(websocket.PingMessage, nil); err != nil {
			failed = append(failed, id)
		}
	}
	return failed
}

// Close stops the health checker and closes every pooled connection.
func (sp *SocketPool) Close() {
	sp.once.Do(func() {
		close(sp.quit)
	})
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for id, pc := range sp.conns {
		pc.conn.Close()
		delete(sp.conns, id)
	}
}
