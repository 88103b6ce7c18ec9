package core

import (
	"sync"

	"github.com/Rorical/RoriMeans/internal/models"
)

// SessionState keeps the notices shown to the user and the last failure.
type SessionState struct {
	mu        sync.RWMutex
	messages  []models.Message
	lastError error
}

func NewSessionState() *SessionState {
	return &SessionState{
		messages: make([]models.Message, 0),
	}
}

func (ss *SessionState) AddMessage(msg models.Message) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.messages = append(ss.messages, msg)
}

// AddProgramMessage adds a program message (system notifications)
func (ss *SessionState) AddProgramMessage(content string) {
	ss.AddMessage(models.Message{Content: content, Type: models.Program})
}

func (ss *SessionState) GetMessages() []models.Message {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	result := make([]models.Message, len(ss.messages))
	copy(result, ss.messages)
	return result
}

func (ss *SessionState) SetError(err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.lastError = err
}

func (ss *SessionState) GetLastError() error {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.lastError
}

func (ss *SessionState) ClearError() {
	ss.SetError(nil)
}
