package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
	"go.uber.org/zap"
)

// Manager owns the running sessions keyed by game id.
type Manager struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	games    map[string]*Session
	listeners []rules.Listener // attached to every session before it starts
}

// NewManager creates an empty manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger: logger,
		games:  make(map[string]*Session),
	}
}

// AddListener attaches listener to sessions started afterwards, ahead of
// their opening events. Renderers and the event feed use it to follow
// every game.
func (m *Manager) AddListener(listener rules.Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// StartGame creates a session with a fresh game id.
func (m *Manager) StartGame(src grid.Source, settings Settings) (*Session, error) {
	id := uuid.NewString()

	m.mu.RLock()
	listeners := append([]rules.Listener(nil), m.listeners...)
	m.mu.RUnlock()

	session, err := NewSession(id, src, settings, m.logger, listeners...)
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}

	m.mu.Lock()
	m.games[id] = session
	m.mu.Unlock()

	m.logger.Info("session registered", zap.String("game_id", id), zap.Int64("seed", session.Seed()))
	return session, nil
}

// Game returns the session with id.
func (m *Manager) Game(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.games[id]
	if !ok {
		return nil, domainerrors.WithMetadata(domainerrors.CodeGameNotFound,
			fmt.Sprintf("game %s not found", id),
			map[string]string{"game_id": id})
	}
	return session, nil
}

// EndGame removes the session with id.
func (m *Manager) EndGame(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return domainerrors.WithMetadata(domainerrors.CodeGameNotFound,
			fmt.Sprintf("game %s not found", id),
			map[string]string{"game_id": id})
	}
	delete(m.games, id)
	m.logger.Info("session ended", zap.String("game_id", id))
	return nil
}

// Games returns the ids of running sessions, sorted.
func (m *Manager) Games() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
