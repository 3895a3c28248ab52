package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/middleware"
	"github.com/oikos/disc-backend/internal/service"
	ws "github.com/oikos/disc-backend/internal/websocket"
)

const (
	streamPingInterval = 30 * time.Second
	streamSnapshotWait = 5 * time.Second
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ResultSubscriber subscribes to result announcements. Subscribe returns once
// the subscription is active; payloads stop when ctx is done.
type ResultSubscriber interface {
	Subscribe(ctx context.Context) (<-chan string, error)
}

// WSHandler streams newly stored results to admins.
type WSHandler struct {
	subscriber    ResultSubscriber
	resultService *service.ResultService
	metrics       *metrics.Metrics
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	subscriber ResultSubscriber,
	resultService *service.ResultService,
	m *metrics.Metrics,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		subscriber:    subscriber,
		resultService: resultService,
		metrics:       m,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// ResultStream godoc
// WS /ws/v1/admin/results/stream?token=...
// Pushes a result_created event for every stored result.
func (h *WSHandler) ResultStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Str("email", claims.Email).Logger()

	// The subscription must be active before the snapshot count is taken,
	// otherwise a result stored in between would be missed.
	payloads, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		wsLog.Error().Err(err).Msg("Result subscription failed")
		ws.WriteError(conn, "subscription failed")
		return
	}

	snapshotCtx, snapshotCancel := context.WithTimeout(ctx, streamSnapshotWait)
	total := h.resultService.All(snapshotCtx).Count
	snapshotCancel()
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Total: total}); err != nil {
		return
	}

	h.metrics.StreamClientConnected(1)
	defer h.metrics.StreamClientConnected(-1)
	wsLog.Info().Msg("Admin attached to result stream")
	ws.KeepAlive(conn)

	// Reader: relays pings to the writer loop and detects the client going away.
	pings := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action != ws.ActionPing {
				continue
			}
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("Admin detached from result stream")
			return

		case payload, ok := <-payloads:
			if !ok {
				return
			}
			// Forward the published JSON unchanged.
			if err := ws.WriteRaw(conn, []byte(payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Stream write failed")
				return
			}

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ping.C:
			if err := ws.Ping(conn); err != nil {
				return
			}
		}
	}
}
