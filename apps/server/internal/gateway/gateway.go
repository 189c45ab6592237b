package gateway

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"arena-lite/coaching"

	"arena-lite/apps/server/internal/arena"
	"arena-lite/apps/server/internal/auth"
	"arena-lite/apps/server/internal/codec"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents one WebSocket client. The first frame must be an
// auth envelope; everything else is rejected until the session resolves.
type Connection struct {
	ID       string
	UserID   uint64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	authed bool

	// Current arena association.
	ArenaID string
	Arena   *arena.Arena
}

// Gateway manages WebSocket connections.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection
	nextConnID  uint64
	errSeq      uint64

	hall *arena.Hall
	auth auth.Service
}

// New creates a new Gateway instance.
func New(hall *arena.Hall, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		hall:        hall,
		auth:        authService,
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:       connID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", connID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode frame: %v", err)
		c.sendError(1, "invalid message format")
		return
	}

	if !c.authed {
		if env.Type != codec.ClientAuth {
			c.sendError(6, "authenticate first")
			return
		}
		c.handleAuth(env)
		return
	}

	log.Printf("[Gateway] Received from user %d: type=%s arena=%s", c.UserID, env.Type, env.ArenaID)

	switch env.Type {
	case codec.ClientAuth:
		// Already authenticated; re-auth is a no-op acknowledgement.
		c.sendAuthResult()
	case codec.ClientQuickStart:
		c.handleQuickStart()
	case codec.ClientStartBattle:
		c.handleStartBattle(env)
	case codec.ClientCallTimeout:
		c.handleCallTimeout(env)
	case codec.ClientCoachSession:
		c.handleCoachSession(env)
	case codec.ClientLeaveArena:
		c.handleLeaveArena()
	default:
		log.Printf("[Gateway] Unknown message type: %s", env.Type)
		c.sendError(1, fmt.Sprintf("unknown message type %q", env.Type))
	}
}

func (c *Connection) handleAuth(env *codec.ClientEnvelope) {
	var req codec.AuthRequest
	if err := codec.UnmarshalPayload(env, &req); err != nil {
		c.sendError(1, "invalid auth payload")
		return
	}

	userID, username, ok := c.Gateway.auth.ResolveSession(strings.TrimSpace(req.SessionToken))
	if !ok {
		c.sendError(7, "invalid session token")
		return
	}

	c.Gateway.mu.Lock()
	// Only one live connection per coach; the newer one wins.
	if prev := c.Gateway.userConns[userID]; prev != nil && prev != c {
		close(prev.Send)
	}
	c.UserID = userID
	c.Username = username
	c.authed = true
	c.Gateway.userConns[userID] = c
	c.Gateway.mu.Unlock()

	log.Printf("[Gateway] Authenticated %s as user %d (%s)", c.ID, userID, username)
	c.sendAuthResult()

	// Resume the arena session if the coach already has one.
	if a := c.findOwnArena(); a != nil {
		c.ArenaID = a.ID
		c.Arena = a
		if err := a.SubmitEvent(arena.Event{
			Type:     arena.EventConnResume,
			UserID:   userID,
			Username: username,
		}); err != nil {
			log.Printf("[Gateway] resume failed for user %d: %v", userID, err)
		}
	}
}

func (c *Connection) findOwnArena() *arena.Arena {
	for _, id := range c.Gateway.hall.List() {
		if a := c.Gateway.hall.Get(id); a != nil && a.HasCoach(c.UserID) {
			return a
		}
	}
	return nil
}

func (c *Connection) handleQuickStart() {
	a, err := c.Gateway.hall.QuickStart(c.UserID, c.Gateway.broadcastToUser)
	if err != nil {
		c.sendError(2, err.Error())
		return
	}

	c.ArenaID = a.ID
	c.Arena = a

	if err := a.SubmitEvent(arena.Event{
		Type:     arena.EventJoinArena,
		UserID:   c.UserID,
		Username: c.Username,
	}); err != nil {
		c.sendError(2, err.Error())
		return
	}
	log.Printf("[Gateway] User %d joined arena %s", c.UserID, a.ID)
}

func (c *Connection) handleStartBattle(env *codec.ClientEnvelope) {
	if c.Arena == nil {
		c.sendError(3, "not in an arena")
		return
	}
	var req codec.StartBattleRequest
	if err := codec.UnmarshalPayload(env, &req); err != nil {
		c.sendError(1, "invalid startBattle payload")
		return
	}

	err := c.Arena.SubmitEvent(arena.Event{
		Type:         arena.EventStartBattle,
		UserID:       c.UserID,
		FighterIDs:   req.FighterIDs,
		OpponentTier: req.OpponentTier,
	})
	if err != nil {
		c.sendError(4, err.Error())
	}
}

func (c *Connection) handleCallTimeout(env *codec.ClientEnvelope) {
	if c.Arena == nil {
		c.sendError(3, "not in an arena")
		return
	}
	var req codec.CallTimeoutRequest
	if err := codec.UnmarshalPayload(env, &req); err != nil {
		c.sendError(1, "invalid callTimeout payload")
		return
	}

	actions := make([]coaching.TimeoutAction, 0, len(req.Actions))
	for _, raw := range req.Actions {
		kind, ok := parseActionKind(raw.Kind)
		if !ok {
			c.sendError(1, fmt.Sprintf("unknown timeout action %q", raw.Kind))
			return
		}
		actions = append(actions, coaching.TimeoutAction{
			Kind:     kind,
			TargetID: raw.TargetID,
		})
	}

	err := c.Arena.SubmitEvent(arena.Event{
		Type:    arena.EventCallTimeout,
		UserID:  c.UserID,
		Actions: actions,
	})
	if err != nil {
		c.sendError(5, err.Error())
	}
}

func (c *Connection) handleCoachSession(env *codec.ClientEnvelope) {
	if c.Arena == nil {
		c.sendError(3, "not in an arena")
		return
	}
	var req codec.CoachSessionRequest
	if err := codec.UnmarshalPayload(env, &req); err != nil {
		c.sendError(1, "invalid coachSession payload")
		return
	}

	err := c.Arena.SubmitEvent(arena.Event{
		Type:        arena.EventCoachSession,
		UserID:      c.UserID,
		CharacterID: req.CharacterID,
		Focus:       parseFocus(req.Focus),
	})
	if err != nil {
		c.sendError(5, err.Error())
	}
}

func (c *Connection) handleLeaveArena() {
	if c.Arena == nil {
		return
	}
	if err := c.Arena.SubmitEvent(arena.Event{
		Type:   arena.EventLeaveArena,
		UserID: c.UserID,
	}); err != nil {
		log.Printf("[Gateway] leave failed for user %d: %v", c.UserID, err)
	}
	c.Arena = nil
	c.ArenaID = ""
}

// parseActionKind maps wire action names onto timeout action kinds.
func parseActionKind(raw string) (coaching.ActionKind, bool) {
	switch strings.TrimSpace(raw) {
	case "individual_coaching":
		return coaching.ActionIndividualCoaching, true
	case "team_rally", "team_rallying":
		return coaching.ActionTeamRallying, true
	case "conflict_mediation":
		return coaching.ActionConflictMediation, true
	case "strategy_pivot", "strategic_pivot":
		return coaching.ActionStrategicPivot, true
	default:
		return 0, false
	}
}

// parseFocus maps wire focus names onto session focuses. Unknown values fall
// back to a general check-in.
func parseFocus(raw string) coaching.Focus {
	switch strings.TrimSpace(raw) {
	case "mental_recovery", "mental_health":
		return coaching.FocusMentalHealth
	case "team_bonding", "team_relations":
		return coaching.FocusTeamRelations
	case "strategy_drilling", "strategy":
		return coaching.FocusStrategy
	case "confidence_building", "performance":
		return coaching.FocusPerformance
	default:
		return coaching.FocusGeneral
	}
}

func (c *Connection) sendAuthResult() {
	c.sendEnvelope(codec.ServerAuthResult, codec.AuthResult{
		UserID:   c.UserID,
		Username: c.Username,
	})
}

func (c *Connection) sendError(code int32, msg string) {
	c.sendEnvelope(codec.ServerError, codec.ErrorResponse{
		Code:    code,
		Message: msg,
	})
}

func (c *Connection) sendEnvelope(msgType string, payload any) {
	data, err := codec.Encode(&codec.ServerEnvelope{
		Type:       msgType,
		ArenaID:    c.ArenaID,
		ServerSeq:  atomic.AddUint64(&c.Gateway.errSeq, 1),
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    payload,
	})
	if err != nil {
		log.Printf("[Gateway] Failed to encode %s: %v", msgType, err)
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	if c.authed && g.userConns[c.UserID] == c {
		delete(g.userConns, c.UserID)
	}
	remaining := len(g.connections)
	g.mu.Unlock()

	if c.Arena != nil {
		if err := c.Arena.SubmitEvent(arena.Event{
			Type:   arena.EventConnLost,
			UserID: c.UserID,
		}); err != nil {
			log.Printf("[Gateway] conn lost notify failed for user %d: %v", c.UserID, err)
		}
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, remaining)
}

// broadcastToUser sends a message to a specific user.
func (g *Gateway) broadcastToUser(userID uint64, data []byte) {
	g.mu.RLock()
	c := g.userConns[userID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}

// Broadcast sends a message to all connections.
func (g *Gateway) Broadcast(message []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}
