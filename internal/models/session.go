package models

import (
	"time"
)

// TeamSide identifies one of the two rosters in a session
type TeamSide string

const (
	// TeamSideA is the first roster
	TeamSideA TeamSide = "team_a"

	// TeamSideB is the second roster
	TeamSideB TeamSide = "team_b"
)

// Other returns the opposing side
func (t TeamSide) Other() TeamSide {
	if t == TeamSideA {
		return TeamSideB
	}
	return TeamSideA
}

// SessionStatus represents the lifecycle state of a session.
// Transitions are monotonic: pending -> (team_a|team_b|canceled|timed_out*) -> processed.
type SessionStatus string

const (
	// SessionStatusPending indicates the match has formed and no outcome is known yet
	SessionStatusPending SessionStatus = "pending"

	// SessionStatusTeamAWon indicates the oracle reported a win for team A
	SessionStatusTeamAWon SessionStatus = "team_a"

	// SessionStatusTeamBWon indicates the oracle reported a win for team B
	SessionStatusTeamBWon SessionStatus = "team_b"

	// SessionStatusCanceled indicates the session was canceled by player vote
	SessionStatusCanceled SessionStatus = "canceled"

	// SessionStatusTimedOut indicates the monitoring ceiling passed with no outcome
	SessionStatusTimedOut SessionStatus = "timed_out"

	// SessionStatusTimedOutReadyCheck indicates the draft ready check expired
	SessionStatusTimedOutReadyCheck SessionStatus = "timed_out_ready_check"

	// SessionStatusTimedOutCoinflip indicates the draft coinflip expired
	SessionStatusTimedOutCoinflip SessionStatus = "timed_out_coinflip"

	// SessionStatusTimedOutDraftTurn indicates a draft turn expired
	SessionStatusTimedOutDraftTurn SessionStatus = "timed_out_draft_turn"

	// SessionStatusProcessed indicates finalization ran; nothing further happens
	SessionStatusProcessed SessionStatus = "processed"
)

// Decided reports whether the status carries a match outcome
func (s SessionStatus) Decided() bool {
	return s == SessionStatusTeamAWon || s == SessionStatusTeamBWon
}

// TimedOut reports whether the status is one of the timeout variants
func (s SessionStatus) TimedOut() bool {
	switch s {
	case SessionStatusTimedOut, SessionStatusTimedOutReadyCheck,
		SessionStatusTimedOutCoinflip, SessionStatusTimedOutDraftTurn:
		return true
	}
	return false
}

// Final reports whether the session can no longer accept votes or outcomes
func (s SessionStatus) Final() bool {
	return s != SessionStatusPending
}

// WinningSide maps a decided status to the winning roster
func (s SessionStatus) WinningSide() TeamSide {
	if s == SessionStatusTeamBWon {
		return TeamSideB
	}
	return TeamSideA
}

// RosterSlot is an immutable snapshot of one player on a session roster
type RosterSlot struct {
	// PlayerID is the Discord user ID of the player
	PlayerID string

	// IGN is the player's in-game name at match time
	IGN string

	// Rating is the player's mean skill at match time
	Rating float64

	// Sigma is the player's rating uncertainty at match time
	Sigma float64
}

// Session represents one formed match with two four-player rosters
type Session struct {
	// ID is the unique identifier for the session
	ID string

	// Mode is the matchmaking pool this session came from
	Mode GameMode

	// Status is the current lifecycle state
	Status SessionStatus

	// TeamA and TeamB are the rosters, fixed once set
	TeamA []RosterSlot
	TeamB []RosterSlot

	// Votes holds the IDs of players who voted to cancel, in vote order
	Votes []string

	// Imbalance is the rating-sum difference the balancer achieved
	Imbalance float64

	// Draft is present only for draft-mode sessions
	Draft *DraftState

	// Fingerprint is the content hash of the oracle report that decided
	// this session, used to deduplicate outcomes
	Fingerprint string

	// Announced marks that a cancellation or timeout has been announced
	Announced bool

	// CreatedAt is when the match formed
	CreatedAt time.Time
}

// Roster returns the slots for one side
func (s *Session) Roster(side TeamSide) []RosterSlot {
	if side == TeamSideB {
		return s.TeamB
	}
	return s.TeamA
}

// HasParticipant reports whether the player is on either roster
func (s *Session) HasParticipant(playerID string) bool {
	for _, slot := range s.TeamA {
		if slot.PlayerID == playerID {
			return true
		}
	}
	for _, slot := range s.TeamB {
		if slot.PlayerID == playerID {
			return true
		}
	}
	return false
}

// SideOf returns which roster the player is on, or "" if neither
func (s *Session) SideOf(playerID string) TeamSide {
	for _, slot := range s.TeamA {
		if slot.PlayerID == playerID {
			return TeamSideA
		}
	}
	for _, slot := range s.TeamB {
		if slot.PlayerID == playerID {
			return TeamSideB
		}
	}
	return ""
}

// HasVoted reports whether the player already voted to cancel
func (s *Session) HasVoted(playerID string) bool {
	for _, v := range s.Votes {
		if v == playerID {
			return true
		}
	}
	return false
}

// Ongoing reports whether the session still blocks its players from queueing.
// A draft session whose draft never completed stops blocking once the draft
// reaches a timeout state, which the session status reflects.
func (s *Session) Ongoing() bool {
	return s.Status == SessionStatusPending || s.Status.Decided()
}
