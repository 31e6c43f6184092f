package transport

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voicebridge/voice-server/internal/audio"
	"github.com/voicebridge/voice-server/internal/config"
	"github.com/voicebridge/voice-server/internal/observability"
	"github.com/voicebridge/voice-server/internal/resilience"
	"github.com/voicebridge/voice-server/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Browser endpoints connect from arbitrary origins during
		// development; production deployments sit behind an origin check.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// HandleVoiceWS accepts a media WebSocket, creates a session on offer,
// feeds media into it, and tears it down on close or transport failure.
func HandleVoiceWS(cfg *config.Config, registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			upgradeLogger := observability.GetLogger()
			upgradeLogger.Error().Err(err).Msg("WebSocket upgrade failed")
			return
		}
		defer conn.Close()

		logger := observability.GetLogger()
		connectedAt := time.Now()

		var (
			controller *session.Controller
			adapter    *WSAdapter
		)
		defer func() {
			if controller != nil {
				controller.Close()
				registry.Remove(controller.ID())
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn().Err(err).Msg("WebSocket read error")
					observability.RecordError("ws_read", "transport")
				}
				return
			}

			var msg ClientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				logger.Error().Err(err).Msg("Failed to parse client message")
				continue
			}

			switch msg.Event {
			case "offer":
				if controller != nil {
					adapter.SendError("session already established")
					continue
				}

				id := uuid.New().String()
				adapter = NewWSAdapter(conn, id, cfg)
				controller = session.NewController(id, adapter, cfg)

				ctrl := controller
				adapter.OnPersistentFailure(func() {
					ctrl.OnTransportFailure(resilience.ErrCircuitOpen)
					registry.Remove(ctrl.ID())
				})

				registry.Add(controller)
				controller.Start()
				controller.RecordConnected(time.Since(connectedAt).Milliseconds())
				logger = observability.WithSession(id)

				if err := adapter.SendAnswer(); err != nil {
					logger.Error().Err(err).Msg("Failed to send answer")
					return
				}

			case "media":
				if controller == nil || msg.Media == nil {
					continue
				}

				data, err := base64.StdEncoding.DecodeString(msg.Media.Payload)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to decode media payload")
					observability.RecordError("media_decode", "transport")
					continue
				}

				sampleRate := msg.Media.SampleRate
				if sampleRate == 0 {
					sampleRate = audio.SampleRate
				}
				channels := msg.Media.Channels
				if channels == 0 {
					channels = 1
				}

				observability.RecordAudioBytes("in", int64(len(data)))
				controller.PushAudio(data, sampleRate, channels)

			case "close":
				logger.Info().Msg("Peer requested close")
				return

			default:
				logger.Warn().Str("event", msg.Event).Msg("Unknown client event")
			}
		}
	}
}
