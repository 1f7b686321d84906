package models

// DoorOutcome classifies the result of a door-open attempt. All of these
// are expected game flow, not failures; a hard persistence failure on a
// win path surfaces as an error from the service instead.
type DoorOutcome string

const (
	OutcomeWon              DoorOutcome = "WON"
	OutcomeLost             DoorOutcome = "LOST"
	OutcomeAlreadyOpened    DoorOutcome = "ALREADY_OPENED"
	OutcomeNotYetAvailable  DoorOutcome = "NOT_YET_AVAILABLE"
	OutcomeCalendarInactive DoorOutcome = "CALENDAR_INACTIVE"
	OutcomePoolExhausted    DoorOutcome = "POOL_EXHAUSTED"
	// OutcomeInternalError is only ever rendered by the web layer when a
	// win-path persistence failure escalates; it never downgrades to LOST.
	OutcomeInternalError DoorOutcome = "INTERNAL_ERROR"
)

// DoorResult is returned to the web layer for rendering.
type DoorResult struct {
	Outcome     DoorOutcome `json:"outcome"`
	Day         int         `json:"day"`
	PrizeName   string      `json:"prizeName,omitempty"`
	Sponsor     string      `json:"sponsor,omitempty"`
	SponsorLink string      `json:"sponsorLink,omitempty"`
	ArtifactRef string      `json:"artifactRef,omitempty"`
	// ArtifactPending is set when the win stands but the proof token could
	// not be generated or stored.
	ArtifactPending bool `json:"artifactPending,omitempty"`
	// Reserved is set on a loss caused by the draw itself coming back
	// empty (race lost or grand prize still locked) after a positive odds
	// check.
	Reserved bool `json:"reserved,omitempty"`
}
