package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusDeclined  BookingStatus = "declined"
	StatusOngoing   BookingStatus = "ongoing"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// validTransitions defines the state machine for booking status transitions.
// pending and accepted may leave via user action (accept/decline/cancel) or
// via the lifecycle sweep (ongoing/expired); only the sweep leaves ongoing.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusCancelled, StatusOngoing, StatusExpired},
	StatusAccepted:  {StatusCancelled, StatusOngoing, StatusExpired},
	StatusOngoing:   {StatusCompleted},
	StatusDeclined:  {},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusExpired:   {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// TerminalStatuses returns the statuses no transition leaves. This is also
// the dashboard "history" bucket.
func TerminalStatuses() []BookingStatus {
	return []BookingStatus{StatusDeclined, StatusCompleted, StatusCancelled, StatusExpired}
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
