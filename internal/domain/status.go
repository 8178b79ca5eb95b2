/**
 * @description
 * This file defines the transaction status enumeration and the valid lifecycle
 * paths through it. Every status a transaction can hold is listed here, and the
 * helpers below are the single source of truth for which statuses are terminal
 * and how each one is rendered.
 *
 * @notes
 * - `awaiting_authorization` is a valid member reserved for step-up flows. No
 *   ticker rule or operation currently produces it, but removing it would break
 *   clients that already know the full enumeration.
 */

package domain

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusSubmitted                Status = "submitted"
	StatusConverting               Status = "converting"
	StatusInTransit                Status = "in_transit"
	StatusFundsArrived             Status = "funds_arrived"
	StatusFlaggedAwaitingClearance Status = "flagged_awaiting_clearance"
	StatusClearanceGranted         Status = "clearance_granted"
	StatusAwaitingAuthorization    Status = "awaiting_authorization"
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted,
		StatusConverting,
		StatusInTransit,
		StatusFundsArrived,
		StatusFlaggedAwaitingClearance,
		StatusClearanceGranted,
		StatusAwaitingAuthorization:
		return true
	}
	return false
}

// Terminal reports whether a transaction in s can never transition again.
func (s Status) Terminal() bool {
	return s == StatusFundsArrived
}

// Label returns the human-readable name shown wherever a transaction status is
// displayed. The switch is exhaustive over the enumeration so that adding a new
// status forces a conscious choice here.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusConverting:
		return "Converting"
	case StatusInTransit:
		return "In Transit"
	case StatusFundsArrived:
		return "Funds Arrived"
	case StatusFlaggedAwaitingClearance:
		return "Flagged - Awaiting Clearance"
	case StatusClearanceGranted:
		return "Clearance Granted"
	case StatusAwaitingAuthorization:
		return "Awaiting Authorization"
	default:
		return "Unknown"
	}
}
