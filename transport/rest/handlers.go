package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type loginRequest struct {
	Username string `json:"username"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type createRoomRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type postMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	that.respondJSON(writer, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(that.startedAt).Round(time.Second).String(),
	})
}

func (that *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		that.respondError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		that.respondError(writer, http.StatusBadRequest, "username is required")
		return
	}

	user, err := that.users.GetOrCreate(request.Context(), username)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	token, err := that.auth.GenerateToken(user.ID)
	if err != nil {
		that.logger.Error("failed to generate token", "error", err)
		that.respondError(writer, http.StatusInternalServerError, "internal error")
		return
	}

	that.respondJSON(writer, http.StatusOK, loginResponse{Token: token, User: user})
}

func (that *Server) handleCurrentUser(writer http.ResponseWriter, request *http.Request) {
	user, err := that.users.GetByID(request.Context(), userIDFrom(request.Context()))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, user)
}

func (that *Server) handleListRooms(writer http.ResponseWriter, request *http.Request) {
	var tags []string
	if raw := request.URL.Query().Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	rooms, err := that.matchmaker.ListRooms(request.Context(), tags)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, map[string]any{"rooms": rooms})
}

func (that *Server) handleCreateRoom(writer http.ResponseWriter, request *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		that.respondError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		that.respondError(writer, http.StatusBadRequest, "room name is required")
		return
	}

	result, err := that.matchmaker.CreateRoom(request.Context(), name, userIDFrom(request.Context()), req.Tags)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusCreated, result)
}

func (that *Server) handleGetRoom(writer http.ResponseWriter, request *http.Request) {
	room, err := that.matchmaker.GetRoom(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, room)
}

func (that *Server) handleJoinRoom(writer http.ResponseWriter, request *http.Request) {
	result, err := that.matchmaker.Join(request.Context(), chi.URLParam(request, "id"), userIDFrom(request.Context()))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, result)
}

func (that *Server) handleLeaveRoom(writer http.ResponseWriter, request *http.Request) {
	err := that.matchmaker.Leave(request.Context(), chi.URLParam(request, "id"), userIDFrom(request.Context()))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, map[string]bool{"left": true})
}

func (that *Server) handleQuickMatch(writer http.ResponseWriter, request *http.Request) {
	result, err := that.matchmaker.QuickMatch(request.Context(), userIDFrom(request.Context()))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, result)
}

func (that *Server) handleGetRoomGame(writer http.ResponseWriter, request *http.Request) {
	game, err := that.matchmaker.GetRoomGame(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, game)
}

func (that *Server) handleMove(writer http.ResponseWriter, request *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		that.respondError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.gameplay.SubmitMove(request.Context(), chi.URLParam(request, "id"), userIDFrom(request.Context()), req.Row, req.Col)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, game)
}

func (that *Server) handleListMessages(writer http.ResponseWriter, request *http.Request) {
	limit := queryLimit(request, defaultListLimit)

	messages, err := that.messages.ListByRoom(request.Context(), chi.URLParam(request, "id"), limit)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, map[string]any{"messages": messages})
}

func (that *Server) handlePostMessage(writer http.ResponseWriter, request *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		that.respondError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		that.respondError(writer, http.StatusBadRequest, "message content is required")
		return
	}

	message, err := that.messages.Post(request.Context(), chi.URLParam(request, "id"), userIDFrom(request.Context()), req.Content, req.Type)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusCreated, message)
}

func (that *Server) handleLeaderboard(writer http.ResponseWriter, request *http.Request) {
	limit := queryLimit(request, 10)

	leaders, err := that.users.Leaderboard(request.Context(), limit)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, map[string]any{"leaderboard": leaders})
}

func (that *Server) handleUserGames(writer http.ResponseWriter, request *http.Request) {
	limit := queryLimit(request, defaultListLimit)

	games, err := that.games.GetRecentByUser(request.Context(), userIDFrom(request.Context()), limit)
	if err != nil {
		that.respondServiceError(writer, err)
		return
	}

	that.respondJSON(writer, http.StatusOK, map[string]any{"games": games})
}

func queryLimit(request *http.Request, fallback int) int {
	raw := request.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (that *Server) respondJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) respondError(writer http.ResponseWriter, status int, message string) {
	that.respondJSON(writer, status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Conflicts and
// validation failures carry the sentinel's message so clients can react;
// anything unexpected is logged and hidden behind a 500.
func (that *Server) respondServiceError(writer http.ResponseWriter, err error) {
	switch {
	case apperror.IsNotFound(err):
		that.respondError(writer, http.StatusNotFound, err.Error())
	case apperror.IsConflict(err):
		that.respondError(writer, http.StatusConflict, err.Error())
	case apperror.IsValidation(err):
		that.respondError(writer, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrStorageUnavailable):
		that.respondError(writer, http.StatusServiceUnavailable, "storage unavailable")
	default:
		that.logger.Error("request failed", "error", err)
		that.respondError(writer, http.StatusInternalServerError, "internal error")
	}
}
