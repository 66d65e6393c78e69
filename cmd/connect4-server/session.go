package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/ai"
	"github.com/montplusa/connect-four/pkg/config"
	"github.com/montplusa/connect-four/pkg/game"
)

const writeWait = 10 * time.Second

type inbound struct {
	Type   string `json:"type"`
	Column int    `json:"column,omitempty"` // 1-based
}

type outbound struct {
	Type     string  `json:"type"`
	Cells    [][]int `json:"cells,omitempty"` // [row][column], row 0 at the bottom
	State    string  `json:"state,omitempty"`
	AIColumn int     `json:"ai_column,omitempty"` // 1-based, 0 when the AI did not move
	Forced   bool    `json:"forced,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// session is one game per websocket connection.
type session struct {
	settings *config.Settings
	game     *game.Game
}

func newSession(settings *config.Settings) (*session, error) {
	s := &session{settings: settings}
	return s, s.reset()
}

// reset loads a fresh evaluator so connections never share model state.
func (s *session) reset() error {
	g, _, err := ai.NewGame(s.settings)
	if err != nil {
		return err
	}
	s.game = g
	return nil
}

func (s *session) board() outbound {
	b := s.game.Board()
	cells := make([][]int, b.Rows())
	for r := range cells {
		cells[r] = make([]int, b.Width())
		for c := range cells[r] {
			cells[r][c] = int(b.At(c, r))
		}
	}
	return outbound{Type: "board", Cells: cells, State: s.game.State().String()}
}

func errorMessage(err error) outbound {
	return outbound{Type: "error", Error: err.Error()}
}

func (s *session) handle(msg inbound) outbound {
	switch msg.Type {
	case "reset":
		if err := s.reset(); err != nil {
			return errorMessage(err)
		}
		return s.board()
	case "move":
		if s.game.State().Terminal() {
			return errorMessage(game.ErrGameOver)
		}
		col, err := game.ParseColumn(strconv.Itoa(msg.Column), s.game.Board())
		if err != nil {
			return errorMessage(err)
		}
		turn, err := s.game.PlayHuman(col)
		if err != nil && turn.State != game.StateAborted {
			return errorMessage(err)
		}
		reply := s.board()
		if turn.AI != nil {
			reply.AIColumn = turn.AI.Column + 1
			reply.Forced = turn.Decision.Forced
		}
		if err != nil {
			reply.Error = turn.AbortReason
		}
		return reply
	}
	return outbound{Type: "error", Error: "unknown message type " + msg.Type}
}

func serveWS(settings *config.Settings, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	logger := log.With().Str("req", middleware.GetReqID(r.Context())).Logger()

	send := func(msg outbound) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug().Err(err).Msg("write failed")
			return false
		}
		return true
	}

	s, err := newSession(settings)
	if err != nil {
		logger.Error().Err(err).Msg("session")
		send(errorMessage(err))
		return
	}
	logger.Info().Msg("session opened")
	if !send(s.board()) {
		return
	}
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logger.Info().Err(err).Msg("session closed")
			return
		}
		reply := outbound{Type: "error", Error: "invalid payload"}
		var msg inbound
		if err := json.Unmarshal(message, &msg); err == nil {
			reply = s.handle(msg)
		}
		if !send(reply) {
			return
		}
	}
}
