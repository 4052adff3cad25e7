// Package server exposes a trained policy over an HTTP play API. Clients
// create a game session, submit their moves and receive the machine's
// replies in the same response.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/selfplay"
)

// GameSession is one game in progress between a client and the policy.
type GameSession struct {
	ID         string
	Game       *nim.Game
	Human      int
	LastAIMove *nim.Move
}

type createGameRequest struct {
	Piles       []int `json:"piles"`
	HumanPlayer *int  `json:"human_player"`
}

// Server hosts game sessions against a single chooser.
type Server struct {
	addr   string
	ai     selfplay.ActionChooser
	piles  []int
	server *http.Server

	lock     *sync.Mutex
	sessions map[string]*GameSession
}

// New creates a server that plays the given chooser. piles is the default
// board for new games, clients may override it per game.
func New(addr string, ai selfplay.ActionChooser, piles []int) *Server {
	s := &Server{
		addr:     addr,
		ai:       ai,
		piles:    nim.NewGame(piles).Piles,
		lock:     new(sync.Mutex),
		sessions: make(map[string]*GameSession),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/health", handleHealth)
	r.POST("/games", s.handleCreateGame)
	r.GET("/games/:id", s.handleGetGame)
	r.POST("/games/:id/move", s.handleMove)
	r.DELETE("/games/:id", s.handleDeleteGame)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler exposes the route table, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves requests until the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		log.Info().Str("addr", s.addr).Msg("starting play server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("play server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(sCtx)
	}()
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}
	}

	human := 0
	if req.HumanPlayer != nil {
		human = *req.HumanPlayer
	}
	if human != 0 && human != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "human_player must be 0 or 1"})
		return
	}

	piles := req.Piles
	if len(piles) == 0 {
		piles = s.piles
	}
	game := nim.NewGame(piles)
	if len(game.Moves()) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the board has no objects to take"})
		return
	}

	session := &GameSession{
		ID:    uuid.New().String(),
		Game:  game,
		Human: human,
	}
	if err := s.machineTurn(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.lock.Lock()
	s.sessions[session.ID] = session
	s.lock.Unlock()

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleGetGame(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	session, ok := s.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleMove(c *gin.Context) {
	var move nim.Move
	if err := c.ShouldBindJSON(&move); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	session, ok := s.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}
	// sessions always rest at the human's turn, so the move is theirs
	if err := session.Game.Apply(move); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.machineTurn(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (s *Server) handleDeleteGame(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.sessions[c.Param("id")]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}
	delete(s.sessions, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// machineTurn plays greedy moves until it is the human's turn or the game
// is over.
func (s *Server) machineTurn(session *GameSession) error {
	for {
		if _, over := session.Game.Winner(); over {
			return nil
		}
		if session.Game.Player == session.Human {
			return nil
		}
		action, err := s.ai.ChooseAction(nim.StateOf(session.Game), false)
		if err != nil {
			return err
		}
		move, ok := action.(nim.Move)
		if !ok {
			return errors.New("server: chooser returned a foreign action")
		}
		if err := session.Game.Apply(move); err != nil {
			return err
		}
		session.LastAIMove = &move
	}
}

func sessionResponse(session *GameSession) gin.H {
	resp := gin.H{
		"id":           session.ID,
		"piles":        session.Game.Piles,
		"player":       session.Game.Player,
		"human_player": session.Human,
	}
	if session.LastAIMove != nil {
		resp["last_ai_move"] = session.LastAIMove
	}
	if winner, over := session.Game.Winner(); over {
		resp["winner"] = winner
		resp["human_won"] = winner == session.Human
	}
	return resp
}
