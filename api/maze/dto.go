// Package mazeapi provides structures and utilities for maze session requests and responses.
package mazeapi

import (
	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/maze"
)

// MoveRequest asks to walk the agent one cell.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// PositionResponse is a grid coordinate.
type PositionResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SessionResponse describes a session and its current maze.
type SessionResponse struct {
	ID         string           `json:"id"`
	Round      int              `json:"round"`
	Rounds     int              `json:"rounds"`
	State      string           `json:"state"`
	Rooms      int              `json:"rooms"`
	Moves      int              `json:"moves"`
	TotalMoves int              `json:"total_moves"`
	Grid       []string         `json:"grid"`
	Goal       PositionResponse `json:"goal"`
	Agent      PositionResponse `json:"agent"`
}

// MoveResponse is a session after a move along with the move outcome.
type MoveResponse struct {
	Result  string          `json:"result"`
	Session SessionResponse `json:"session"`
}

// LeaderboardEntryResponse is one line of a leaderboard.
type LeaderboardEntryResponse struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Moves    int    `json:"moves"`
}

func newPosition(p maze.Position) PositionResponse {
	return PositionResponse{X: p.X, Y: p.Y}
}

func newSessionResponse(s *dmn.Snapshot) SessionResponse {
	return SessionResponse{
		ID:         s.ID.String(),
		Round:      s.Round,
		Rounds:     s.Rounds,
		State:      s.State.String(),
		Rooms:      s.Rooms,
		Moves:      s.Moves,
		TotalMoves: s.TotalMoves,
		Grid:       s.Grid,
		Goal:       newPosition(s.Goal),
		Agent:      newPosition(s.Agent),
	}
}

func newLeaderboardResponse(entries []dmn.LeaderboardEntry) []LeaderboardEntryResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for idx, e := range entries {
		out = append(out, LeaderboardEntryResponse{
			Rank:     idx + 1,
			PlayerID: e.PlayerID.String(),
			Username: e.Username,
			Moves:    e.Moves,
		})
	}
	return out
}
