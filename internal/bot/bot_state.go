package bot

import (
	"sync"
	"time"

	"sambo-academy/internal/models"
)

type BotState int

const (
	StateDefault BotState = iota
	StateSelectingGroup
	StateSelectingDate
	StateSelectingMonth
	StateMarkingStudent
	StateConfirmingMark
)

// sessionAction is what the trainer asked for when the group selection started.
type sessionAction int

const (
	actionNone sessionAction = iota
	actionRoster
	actionMark
	actionCalendar
	actionSubscriptions
)

type UserSession struct {
	mu sync.Mutex

	State  BotState
	Action sessionAction

	Groups        []*models.Group
	SelectedGroup *models.Group
	SelectedDate  time.Time

	// marking
	Roster []models.RosterEntry
	Cursor int
	Items  []models.MarkItem
}

func (s *UserSession) reset() {
	s.State = StateDefault
	s.Action = actionNone
	s.Groups = nil
	s.SelectedGroup = nil
	s.SelectedDate = time.Time{}
	s.Roster = nil
	s.Cursor = 0
	s.Items = nil
}

func (b *Bot) getOrCreateSession(chatID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.userSessions[chatID]; exists {
		return session
	}

	session := &UserSession{State: StateDefault}
	b.userSessions[chatID] = session
	return session
}
