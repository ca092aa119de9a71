package server

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/game/session"
)

// SessionService runs an interactive session as a lifecycle service. The
// session is registered with the manager while it runs.
type SessionService struct {
	manager *session.Manager
	cfg     session.Config
	in      io.Reader
	logger  *zap.Logger

	mu   sync.Mutex
	sess *session.Session
}

// NewSessionService returns a service that opens a session for cfg and reads
// commands from in.
//
// Precondition: manager, in and logger are non-nil; cfg satisfies session.New.
func NewSessionService(manager *session.Manager, cfg session.Config, in io.Reader, logger *zap.Logger) *SessionService {
	return &SessionService{manager: manager, cfg: cfg, in: in, logger: logger}
}

// Start opens the session and runs it until quit, EOF or ctx is done.
func (s *SessionService) Start(ctx context.Context) error {
	sess, err := s.manager.Open(s.cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	return sess.Run(ctx, s.in)
}

// Stop unregisters the session.
func (s *SessionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return
	}
	if err := s.manager.Close(s.sess.CharacterID()); err != nil {
		s.logger.Warn("closing session", zap.Error(err))
	}
	s.sess = nil
}
