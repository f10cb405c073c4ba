package model

// EventType is the StatsBomb event type name (e.g. "Pass", "Ball Recovery").
type EventType string

const (
	EventPass           EventType = "Pass"
	EventShot           EventType = "Shot"
	EventDuel           EventType = "Duel"
	EventBlock          EventType = "Block"
	EventInterception   EventType = "Interception"
	EventBallRecovery   EventType = "Ball Recovery"
	EventFoulWon        EventType = "Foul Won"
	EventFoulCommitted  EventType = "Foul Committed"
	EventDribble        EventType = "Dribble"
	EventPressure       EventType = "Pressure"
	EventTackle         EventType = "Tackle"
	EventCarry          EventType = "Carry"
	EventBallReceipt    EventType = "Ball Receipt*"
	EventStartingXI     EventType = "Starting XI"
	EventHalfStart      EventType = "Half Start"
	EventHalfEnd        EventType = "Half End"
	EventDispossessed   EventType = "Dispossessed"
	EventClearance      EventType = "Clearance"
	EventMiscontrol     EventType = "Miscontrol"
	EventGoalKeeper     EventType = "Goal Keeper"
	EventSubstitution   EventType = "Substitution"
	EventInjuryStoppage EventType = "Injury Stoppage"
)

// Play patterns and outcome names referenced by the classification rules.
const (
	PlayPatternCounterAttack = "Counter Attack"

	DuelTypeTackle = "Tackle"
	OutcomeWon     = "Won"

	DribbleComplete = "Complete"

	ShotBlocked = "Blocked"

	PassIncomplete = "Incomplete"
	PassOut        = "Out"

	PositionGoalkeeper = "Goalkeeper"
)

// Pitch dimensions in StatsBomb units.
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
)

// Point is a pitch coordinate, x in [0,120] and y in [0,80].
type Point struct {
	X, Y float64
}

// ---- Raw events emitted by the event store ----

// Event is one row of a match event log. Events are never mutated after the
// store produces them.
type Event struct {
	ID            string
	Index         int // unique, increasing with playing time; gaps allowed
	Period        int
	Minute        int
	Second        int
	Type          EventType
	Team          string
	Player        string
	Possession    int
	PlayPattern   string
	Location      *Point // nil when the provider omits it
	RelatedEvents []string

	Pass    *PassDetail
	Shot    *ShotDetail
	Duel    *DuelDetail
	Dribble *DribbleDetail
}

// Timestamp returns the match clock in whole seconds (minute*60 + second).
func (e *Event) Timestamp() int {
	return e.Minute*60 + e.Second
}

type PassDetail struct {
	Recipient   string // "" when the pass has no recipient
	EndLocation *Point
	GoalAssist  bool
	ShotAssist  bool
	ThroughBall bool
	Cross       bool
	Outcome     string // "" for a completed pass
}

type ShotDetail struct {
	Outcome     string
	FreezeFrame []FreezeFramePlayer // nil when no 360 data is attached
}

// FreezeFramePlayer is one player's position at the moment of a shot.
type FreezeFramePlayer struct {
	Player   string
	Position string
	Location Point
	Teammate bool
}

type DuelDetail struct {
	Type    string
	Outcome string
}

type DribbleDetail struct {
	Outcome string
}

// ---- Derived observations ----

// PassObservation is one decisive pass: passer -> recipient within a team.
type PassObservation struct {
	Source string
	Target string
	Team   string
}

// DuelObservation is one scored confrontation between an attacker and a defender.
type DuelObservation struct {
	Attacker string
	Defender string
	Score    int
	Rule     string // name of the heuristic that produced it
}
