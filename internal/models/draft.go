package models

import (
	"time"
)

// DraftStage represents the phase of a captain draft
type DraftStage string

const (
	// DraftStageReadyCheck waits for both captains to mark ready
	DraftStageReadyCheck DraftStage = "ready_check"

	// DraftStageCoinflip waits for captain A to call the coin
	DraftStageCoinflip DraftStage = "coinflip"

	// DraftStageInProgress runs the alternating ban/pick script
	DraftStageInProgress DraftStage = "draft_in_progress"

	// DraftStageComplete means the script finished; no further actions accepted
	DraftStageComplete DraftStage = "complete"
)

// DraftAction is the kind of selection a captain makes on their turn
type DraftAction string

const (
	// DraftActionBan removes an option from the pool for both sides
	DraftActionBan DraftAction = "ban"

	// DraftActionPick commits an option to the acting captain's roster
	DraftActionPick DraftAction = "pick"
)

// CoinFace is one side of the coinflip coin
type CoinFace string

const (
	CoinFaceHeads CoinFace = "heads"
	CoinFaceTails CoinFace = "tails"
)

// Valid reports whether the face is heads or tails
func (f CoinFace) Valid() bool {
	return f == CoinFaceHeads || f == CoinFaceTails
}

// DraftState is embedded in a draft-mode session and owns the pick/ban protocol
type DraftState struct {
	// Stage is the current phase of the draft
	Stage DraftStage

	// CaptainA and CaptainB are the captains' player IDs
	CaptainA string
	CaptainB string

	// Ready holds the captains who have marked ready
	Ready []string

	// CoinflipChoice is the face captain A called, empty before the call
	CoinflipChoice CoinFace

	// CoinflipResult is the face the engine drew, empty before the call
	CoinflipResult CoinFace

	// CoinflipWinner is the side whose captain drafts first
	CoinflipWinner TeamSide

	// TurnIndex is the position in the draft script, advancing only forward
	TurnIndex int

	// CurrentActor is the captain whose turn it is
	CurrentActor string

	// CurrentAction is the kind of selection expected this turn
	CurrentAction DraftAction

	// Available is the pool of options still selectable
	Available []string

	// Banned holds options removed from the pool for both sides
	Banned []string

	// PicksA and PicksB are each side's committed picks
	PicksA []string
	PicksB []string

	// StartedAt is when the draft entered ready check
	StartedAt time.Time

	// LastActionAt is when the draft last made progress, for timeout sweeps
	LastActionAt time.Time
}

// IsReady reports whether the captain already marked ready
func (d *DraftState) IsReady(captainID string) bool {
	for _, id := range d.Ready {
		if id == captainID {
			return true
		}
	}
	return false
}

// IsCaptain reports whether the player captains either side
func (d *DraftState) IsCaptain(playerID string) bool {
	return playerID == d.CaptainA || playerID == d.CaptainB
}

// InPool reports whether the option is still available
func (d *DraftState) InPool(option string) bool {
	for _, o := range d.Available {
		if o == option {
			return true
		}
	}
	return false
}

// WinnerCaptain returns the captain who won the coinflip
func (d *DraftState) WinnerCaptain() string {
	if d.CoinflipWinner == TeamSideB {
		return d.CaptainB
	}
	return d.CaptainA
}

// LoserCaptain returns the captain who lost the coinflip
func (d *DraftState) LoserCaptain() string {
	if d.CoinflipWinner == TeamSideB {
		return d.CaptainA
	}
	return d.CaptainB
}

// SideOfCaptain maps a captain ID to their roster side
func (d *DraftState) SideOfCaptain(captainID string) TeamSide {
	if captainID == d.CaptainB {
		return TeamSideB
	}
	return TeamSideA
}
