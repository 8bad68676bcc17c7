package bracket

import (
	"encoding/json"
	"time"
)

type TournamentStatus string

const (
	TournamentSetup      TournamentStatus = "setup"
	TournamentInProgress TournamentStatus = "in-progress"
	TournamentCompleted  TournamentStatus = "completed"
)

const (
	DefaultIcon            = "mdi-trophy"
	DefaultPrimaryColor    = "#FF69B4"
	DefaultBackgroundColor = "#1a1a2e"
)

type Colors struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
}

func DefaultColors() Colors {
	return Colors{Primary: DefaultPrimaryColor, Background: DefaultBackgroundColor}
}

// Tournament is the document stored as tournament.json. Participants are
// kept as raw JSON since the roster shape belongs to the UI.
type Tournament struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name" validate:"required,pathsegment"`
	CreatedAt    Timestamp         `json:"createdAt"`
	Status       TournamentStatus  `json:"status"`
	Participants []json.RawMessage `json:"participants"`
	CurrentRound int               `json:"currentRound"`
	Icon         string            `json:"icon"`
	Colors       Colors            `json:"colors"`

	// Keys not listed above, carried through untouched
	Extra map[string]json.RawMessage `json:"-"`
}

// NewTournament builds the document written for a freshly created tournament.
func NewTournament(id int64, name string, createdAt time.Time) Tournament {
	return Tournament{
		ID:           id,
		Name:         name,
		CreatedAt:    NewTimestamp(createdAt),
		Status:       TournamentSetup,
		Participants: []json.RawMessage{},
		CurrentRound: 0,
		Icon:         DefaultIcon,
		Colors:       DefaultColors(),
	}
}

func (t *Tournament) ParticipantCount() int {
	return len(t.Participants)
}
