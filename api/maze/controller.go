package mazeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/maze-runner/api/identity"
	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/beka-birhanu/maze-runner/service"
	"github.com/beka-birhanu/maze-runner/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultLeaderboardLimit = 10

// SessionController exposes maze sessions over HTTP.
type SessionController struct {
	rounds       i.RoundManager
	defaultRooms int
}

// NewSessionController initializes a SessionController. defaultRooms is the
// leaderboard shown when a request does not name a maze size.
func NewSessionController(rm i.RoundManager, defaultRooms int) (*SessionController, error) {
	if rm == nil {
		return nil, errors.New("round manager is required")
	}
	if defaultRooms < maze.MinRooms {
		defaultRooms = game.DefaultRooms
	}
	return &SessionController{
		rounds:       rm,
		defaultRooms: defaultRooms,
	}, nil
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/maze/leaderboard", sc.leaderboard)
}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/maze/sessions")
	{
		sessions.POST("", sc.start)
		sessions.GET("/:ID", sc.snapshot)
		sessions.POST("/:ID/moves", sc.move)
		sessions.POST("/:ID/rounds", sc.nextRound)
		sessions.DELETE("/:ID", sc.end)
	}
}

func (sc *SessionController) start(ctx *gin.Context) {
	playerID, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	snapshot, err := sc.rounds.Start(ctx, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newSessionResponse(snapshot))
}

func (sc *SessionController) snapshot(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	snapshot, err := sc.rounds.Snapshot(ctx, playerID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSessionResponse(snapshot))
}

func (sc *SessionController) move(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction, err := maze.ParseDirection(request.Direction)
	if err != nil {
		writeError(ctx, err)
		return
	}

	result, snapshot, err := sc.rounds.Move(ctx, playerID, sessionID, direction)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &MoveResponse{
		Result:  result.String(),
		Session: newSessionResponse(snapshot),
	})
}

func (sc *SessionController) nextRound(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	snapshot, err := sc.rounds.NextRound(ctx, playerID, sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSessionResponse(snapshot))
}

func (sc *SessionController) end(ctx *gin.Context) {
	playerID, sessionID, ok := ids(ctx)
	if !ok {
		return
	}

	if err := sc.rounds.End(ctx, playerID, sessionID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (sc *SessionController) leaderboard(ctx *gin.Context) {
	rooms, err := intQuery(ctx, "rooms", sc.defaultRooms)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "rooms must be an integer"})
		return
	}
	limit, err := intQuery(ctx, "limit", defaultLeaderboardLimit)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	entries, err := sc.rounds.Leaderboard(ctx, rooms, int64(limit))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": rooms, "entries": newLeaderboardResponse(entries)})
}

// ids reads the authenticated player and the session path parameter,
// writing the error response itself when either is missing.
func ids(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playerID, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, uuid.Nil, false
	}
	return playerID, sessionID, true
}

func intQuery(ctx *gin.Context, key string, def int) (int, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotSessionOwner):
		status = http.StatusForbidden
	case errors.Is(err, maze.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidLeaderboard):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrRoundComplete),
		errors.Is(err, game.ErrRoundInProgress),
		errors.Is(err, game.ErrSessionFinished):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
