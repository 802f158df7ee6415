package auth

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Session struct {
	Id          string
	ClinicianId int
	Email       string
	Role        string
	Token       string
}

// SessionManager tracks the sessions of logged-in clinicians. Sessions live
// in memory only; a restart logs everybody out.
type SessionManager struct {
	logger *zap.SugaredLogger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager(logger *zap.SugaredLogger) *SessionManager {
	return &SessionManager{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Start(clinicianId int, email, role, token string) *Session {
	session := &Session{
		Id:          uuid.NewString(),
		ClinicianId: clinicianId,
		Email:       email,
		Role:        role,
		Token:       token,
	}

	m.mu.Lock()
	m.sessions[session.Id] = session
	m.mu.Unlock()

	return session
}

func (m *SessionManager) Get(sessionId string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessions[sessionId]
}

func (m *SessionManager) End(sessionId string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionId)
}

// TerminateForClinician ends every session belonging to the clinician,
// e.g. when the account is deleted while its owner is logged in.
func (m *SessionManager) TerminateForClinician(clinicianId int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		if session.ClinicianId == clinicianId {
			delete(m.sessions, id)
			m.logger.Infow("terminated session of deleted clinician", "clinicianId", clinicianId)
		}
	}
}
