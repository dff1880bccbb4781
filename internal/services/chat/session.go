package chat

import (
	"strings"
	"sync"
)

const (
	// maxDocumentChars bounds how much of an attached document is kept.
	// Local models have small context windows; anything beyond this is
	// unlikely to fit anyway.
	maxDocumentChars = 50000

	truncationNotice = "\n\n[Document truncated...]"
)

// Document is a text attachment included in the system prompt.
type Document struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// Session holds per-user transient state: the single-flight guard for
// generation, the web-search toggle, and attached documents. None of it
// is persisted.
type Session struct {
	mu            sync.Mutex
	busy          bool
	searchEnabled bool
	documents     []Document
}

// TryAcquire marks the session busy. It returns false if a generation is
// already in flight for this user.
func (s *Session) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) SetSearchEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchEnabled = enabled
}

func (s *Session) SearchEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchEnabled
}

// AttachDocument stores a document, truncating oversized content.
func (s *Session) AttachDocument(name, content string) Document {
	doc := Document{Name: name, Content: content}
	if len(content) > maxDocumentChars {
		doc.Content = content[:maxDocumentChars] + truncationNotice
		doc.Truncated = true
	}
	if strings.TrimSpace(doc.Name) == "" {
		doc.Name = "untitled"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
	return doc
}

// Documents returns a copy of the attached documents.
func (s *Session) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *Session) ClearDocuments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
}

// SessionManager hands out one Session per user.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[uint]*Session)}
}

// Get returns the user's session, creating it on first use.
func (m *SessionManager) Get(userID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{}
		m.sessions[userID] = session
	}
	return session
}

// Drop discards a user's session, e.g. when the user is deleted.
func (m *SessionManager) Drop(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
