// Package audit provides audit logging for device updates.
package audit

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// Operation names recorded in events
const (
	OpDeviceUpdate = "device.update"
)

// Event represents one attempt to update a device
type Event struct {
	ID         string            `json:"id"`
	RunID      string            `json:"run_id"`
	Timestamp  time.Time         `json:"timestamp"`
	User       string            `json:"user"`
	Operation  string            `json:"operation"`
	Serial     string            `json:"serial"`
	NetworkID  string            `json:"network_id,omitempty"`
	Changes    map[string]string `json:"changes,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	DryRun     bool              `json:"dry_run"`
	Duration   time.Duration     `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Serial      string
	NetworkID   string
	RunID       string
	StartTime   time.Time
	EndTime     time.Time
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event for a device
func NewEvent(runID, operation, serial string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		RunID:     runID,
		Timestamp: time.Now(),
		User:      currentUser(),
		Operation: operation,
		Serial:    serial,
	}
}

// WithNetwork sets the network the device was addressed in
func (e *Event) WithNetwork(networkID string) *Event {
	e.NetworkID = networkID
	return e
}

// WithChanges sets the fields sent in the update
func (e *Event) WithChanges(changes map[string]string) *Event {
	e.Changes = changes
	return e
}

// WithStatus records the HTTP status the API answered with
func (e *Event) WithStatus(code int) *Event {
	e.StatusCode = code
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	e.Error = ""
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(msg string) *Event {
	e.Success = false
	e.Error = msg
	return e
}

// WithDryRun marks an event whose update was previewed, not sent
func (e *Event) WithDryRun(dryRun bool) *Event {
	e.DryRun = dryRun
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func currentUser() string {
	for _, v := range []string{"USER", "USERNAME", "LOGNAME"} {
		if u := os.Getenv(v); u != "" {
			return u
		}
	}
	return "unknown"
}
