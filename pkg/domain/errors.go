package domain

import "errors"

// ErrInvalidWakeCommand is returned when a parked branch is woken with a
// payload that does not decode to a control command. This is a contract
// violation between cooperating branches, not a transient fault: the woken
// branch must abort, never silently continue.
var ErrInvalidWakeCommand = errors.New("wake payload is not a control command")

// ErrNotSampleSite is returned when a resample is requested against a
// message that is not of sample type. Also a fatal contract violation.
var ErrNotSampleSite = errors.New("resample requested at a non-sample site")

// ErrTraceNotFound is returned when no trace blob exists for a key.
var ErrTraceNotFound = errors.New("trace not found")

// ErrMsgNotFound is returned when no message slot exists for a key.
var ErrMsgNotFound = errors.New("message not found")

// ErrSiteNotFound is returned when a trace has no record for a site.
var ErrSiteNotFound = errors.New("site not found in trace")
