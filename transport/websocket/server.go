package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	StartGame(ctx context.Context, email string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, position int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, payload *RequestPayload) (*entity.Game, error)

type Server struct {
	logger        *slog.Logger
	uGame         uGame
	allowedOrigin string

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, allowedOrigin string) *Server {
	server := &Server{
		logger:        logger.With("component", "websocket"),
		uGame:         uGame,
		allowedOrigin: allowedOrigin,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameStart] = server.handleGameStart
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameGet] = server.handleGameGet

	return server
}

// Handler - http handler serving the /ws endpoint.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	opts := &websocket.AcceptOptions{}
	if that.allowedOrigin != "" {
		opts.OriginPatterns = []string{originHost(that.allowedOrigin)}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	log.Info("WebSocket connection established")

	err = that.handleMessages(r.Context(), conn)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		_ = conn.Close(websocket.StatusNormalClosure, "")
		log.Info("WebSocket connection closed")
	default:
		if errors.Is(err, context.Canceled) {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection ends.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(ctx, conn, actionError, errMalformed); err != nil {
				return err
			}
			continue
		}

		if err = that.dispatch(ctx, conn, &message); err != nil {
			return err
		}
	}
}

// dispatch - runs one action and replies on the same action name. Only write failures are returned.
func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return that.sendError(ctx, conn, message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action))
	}

	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return that.sendError(ctx, conn, message.Action, errMalformed)
		}
	}

	game, err := handler(ctx, &payload)
	if err != nil {
		return that.sendError(ctx, conn, message.Action, err)
	}

	return that.sendMessage(ctx, conn, message.Action, ResponsePayload{Game: game})
}

func (that *Server) sendMessage(ctx context.Context, conn *websocket.Conn, action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = conn.Write(writeCtx, websocket.MessageText, response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
