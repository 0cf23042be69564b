package trip

import (
	"sync"

	"github.com/rs/zerolog"
)

// Session is one user's transient trip-planning state: the selection
// controller plus a drag controller per modal. Nothing here is persisted;
// it is rebuilt each session.
type Session struct {
	Controller  *Controller
	ListModal   *DragController
	DetailModal *DragController
}

// Modal returns the drag controller for the named modal, or nil for an
// unknown name.
func (s *Session) Modal(name string) *DragController {
	switch name {
	case ModalList:
		return s.ListModal
	case ModalDetail:
		return s.DetailModal
	default:
		return nil
	}
}

// SetViewport re-derives both modals' bounds from the viewport height.
func (s *Session) SetViewport(viewportHeight float64) {
	s.ListModal.SetViewport(viewportHeight)
	s.DetailModal.SetViewport(viewportHeight)
}

// SessionManager hands out one Session per user, created on first use.
type SessionManager struct {
	fetcher RoutesFetcher
	logger  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a new session manager.
func NewSessionManager(fetcher RoutesFetcher, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		fetcher:  fetcher,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a user, creating it if needed.
func (m *SessionManager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}

	s := &Session{
		Controller:  NewController(m.fetcher, m.logger.With().Str("user_id", userID).Logger()),
		ListModal:   NewDragController(DefaultViewportHeight),
		DetailModal: NewDragController(DefaultViewportHeight),
	}
	m.sessions[userID] = s
	return s
}

// Remove drops a user's session, releasing its state.
func (m *SessionManager) Remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
