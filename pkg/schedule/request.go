package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Request statuses. A request enters the queue pending, becomes scheduled
// once the planner external to this portal picks it up, and completed after
// the exposures run.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// Priorities. PriorityOverride is only reachable through the admin-only
// checkbox on the single-entry form.
const (
	PriorityNormal   = "normal"
	PriorityOverride = "override"
)

// DefaultObservationType tags requests that do not declare a program type.
const DefaultObservationType = "default"

// Default reposition target, the centre of a 2048x2048 detector.
const (
	DefaultRepositionX = 1024
	DefaultRepositionY = 1024
)

// Request is one observation request as submitted by an observer, before
// any scheduling decision is made.
type Request struct {
	ObserverCode    string
	TargetName      string
	RA              string
	Dec             string
	ObservationType string
	Filters         string
	Priority        string
	Status          string
	NExp            int
	ExposureTime    int
	Reposition      bool
	RepositionX     int
	RepositionY     int
	Cadence         string
	UTCStartTime    string
	UTCStartDate    string
	UTCEndTime      string
	UTCEndDate      string
	LSTStartTime    string
	LSTStartDate    string
	LSTEndTime      string
	LSTEndDate      string
	SubmittedOn     time.Time
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`)

// ValidClock reports whether value follows the hh:mm:ss convention used for
// cadence and the UTC/LST window fields.
func ValidClock(value string) bool {
	return clockPattern.MatchString(value)
}

// Normalize fills defaults the same way the submission pipeline always has:
// pending status, normal priority, detector-centre reposition target, and a
// J2000 designation when no target name was given.
func (r *Request) Normalize() {
	r.RA = strings.TrimSpace(r.RA)
	r.Dec = strings.TrimSpace(r.Dec)
	r.TargetName = strings.TrimSpace(r.TargetName)
	r.Filters = strings.TrimSpace(r.Filters)
	r.Cadence = strings.TrimSpace(r.Cadence)

	if r.TargetName == "" {
		r.TargetName = fmt.Sprintf("J2000-%s%s", r.RA, r.Dec)
	}
	if r.ObservationType == "" {
		r.ObservationType = DefaultObservationType
	}
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.NExp == 0 {
		r.NExp = 1
	}
	if r.ExposureTime == 0 {
		r.ExposureTime = 1
	}
	if r.RepositionX == 0 {
		r.RepositionX = DefaultRepositionX
	}
	if r.RepositionY == 0 {
		r.RepositionY = DefaultRepositionY
	}
}

// Validate checks the submitted fields. It does not attempt coordinate
// astrometry; well-formedness of RA/Dec beyond presence is the scheduler's
// concern downstream.
func (r Request) Validate() error {
	if r.RA == "" {
		return fmt.Errorf("schedule: ra is required")
	}
	if r.Dec == "" {
		return fmt.Errorf("schedule: dec is required")
	}
	if r.NExp <= 0 {
		return fmt.Errorf("schedule: nexp must be a positive integer")
	}
	if r.ExposureTime <= 0 {
		return fmt.Errorf("schedule: exposure time must be a positive integer")
	}
	if r.Cadence != "" && !clockPattern.MatchString(r.Cadence) {
		return fmt.Errorf("schedule: cadence %q must follow hh:mm:ss", r.Cadence)
	}
	for name, value := range map[string]string{
		"utc_start_time": r.UTCStartTime,
		"utc_end_time":   r.UTCEndTime,
		"lst_start_time": r.LSTStartTime,
		"lst_end_time":   r.LSTEndTime,
	} {
		if value != "" && !clockPattern.MatchString(value) {
			return fmt.Errorf("schedule: %s %q must follow hh:mm:ss", name, value)
		}
	}
	return nil
}
