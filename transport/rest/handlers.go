package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type gameUseCase interface {
	StartGame(ctx context.Context, email string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, position int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	ListGames(ctx context.Context) ([]*entity.Game, error)
	ListPlayerGames(ctx context.Context, playerID string) ([]*entity.Game, error)
}

type playerUseCase interface {
	Register(ctx context.Context, name, email string) (*entity.Player, error)
	Login(ctx context.Context, email string) (*entity.Player, error)
	List(ctx context.Context) ([]*entity.Player, error)
	Leaderboard(ctx context.Context) ([]*entity.Player, error)
}

type handlers struct {
	logger  *slog.Logger
	games   gameUseCase
	players playerUseCase
}

func newHandlers(logger *slog.Logger, games gameUseCase, players playerUseCase) *handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		games:   games,
		players: players,
	}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (that *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	player, err := that.players.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, player)
}

func (that *handlers) login(w http.ResponseWriter, r *http.Request) {
	email, err := requiredQuery(r, "email")
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	player, err := that.players.Login(r.Context(), email)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

func (that *handlers) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := that.players.List(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, players)
}

func (that *handlers) playerGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.ListPlayerGames(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, games)
}

func (that *handlers) startGame(w http.ResponseWriter, r *http.Request) {
	email, err := requiredQuery(r, "email")
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.games.StartGame(r.Context(), email)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	gameID, err := requiredQuery(r, "gameId")
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	rawPosition, err := requiredQuery(r, "position")
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	position, err := strconv.Atoi(rawPosition)
	if err != nil {
		that.writeError(w, r, fmt.Errorf("%w: position must be an integer", errBadRequest))
		return
	}

	game, err := that.games.MakeMove(r.Context(), gameID, position)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.ListGames(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, games)
}

func (that *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	players, err := that.players.Leaderboard(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, players)
}

func requiredQuery(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", errBadRequest, name)
	}

	return value, nil
}
