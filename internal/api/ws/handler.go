package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/studytrace/backend/internal/domain/session"
	"github.com/studytrace/backend/internal/events"
	"github.com/studytrace/backend/internal/infrastructure/logging"
	"github.com/studytrace/backend/internal/infrastructure/monitoring"
	"github.com/studytrace/backend/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections: inbound interaction signal
// frames, outbound engine notifications.
type Handler struct {
	manager *session.Manager
	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *session.Manager, bus *events.Bus, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Handler{
		manager: manager,
		bus:     bus,
		log:     log,
	}
}

// WithMetrics adds connection tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// inboundFrame is one message from the client: a ping or a signal.
// Signal frames use the signal type directly as the frame type.
type inboundFrame struct {
	Type     string `json:"type"`
	Hidden   bool   `json:"hidden,omitempty"`
	Internal bool   `json:"internal,omitempty"`
}

// outboundFrame is one message to the client
type outboundFrame struct {
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Message   string         `json:"message,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	out := make(chan outboundFrame, 64)
	done := make(chan struct{})
	defer close(done)

	// Engine notifications fan out to every connected client. A slow
	// client drops frames rather than blocking the publisher.
	unsubscribe := h.bus.Subscribe(func(e events.Event) {
		frame := outboundFrame{
			Type:      string(e.Type),
			Payload:   e.Payload,
			Timestamp: e.At.Unix(),
		}
		select {
		case out <- frame:
		default:
		}
	})
	defer unsubscribe()

	go h.writeLoop(conn, out, done)

	out <- outboundFrame{
		Type:      "system",
		Message:   "Connected to StudyTrace Engine",
		Timestamp: time.Now().Unix(),
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		switch frame.Type {
		case "ping":
			h.enqueue(out, outboundFrame{Type: "pong", Timestamp: time.Now().Unix()})
		default:
			h.handleSignal(out, frame)
		}
	}
}

func (h *Handler) handleSignal(out chan<- outboundFrame, frame inboundFrame) {
	sig := types.Signal{
		Type:     types.SignalType(frame.Type),
		Hidden:   frame.Hidden,
		Internal: frame.Internal,
	}
	if err := h.manager.HandleSignal(sig); err != nil {
		h.enqueue(out, outboundFrame{
			Type:      "error",
			Message:   err.Error(),
			Timestamp: time.Now().Unix(),
		})
	}
}

func (h *Handler) enqueue(out chan<- outboundFrame, frame outboundFrame) {
	select {
	case out <- frame:
	default:
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, out <-chan outboundFrame, done <-chan struct{}) {
	for {
		select {
		case frame := <-out:
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
