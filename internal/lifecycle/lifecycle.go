// Package lifecycle implements the request lifecycle attached to every
// remote operation: idle -> pending -> fulfilled | rejected, plus a
// monotonic sequence guard so completions that arrive after a newer
// operation has already applied are discarded instead of clobbering
// fresher state.
package lifecycle

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// State is the observable lifecycle of one logical resource.
type State struct {
	Status Status
	Err    string // user-displayable, set only when rejected
}

// Resource tracks the lifecycle of one logical resource. It is not
// safe for concurrent use on its own; the owning store serializes
// access under its own lock.
type Resource struct {
	state       State
	nextSeq     uint64
	lastApplied uint64
}

// Begin starts a new operation: status becomes pending, any prior
// error is cleared. The returned sequence number must be passed back
// to Fulfill or Reject when the operation completes.
func (r *Resource) Begin() uint64 {
	r.nextSeq++
	r.state.Status = StatusPending
	r.state.Err = ""
	return r.nextSeq
}

// Fulfill completes the operation identified by seq. It reports
// whether the completion was applied; a completion older than one
// already applied is discarded and the caller must not merge its
// payload.
func (r *Resource) Fulfill(seq uint64) bool {
	if seq <= r.lastApplied {
		return false
	}
	r.lastApplied = seq
	r.state = State{Status: StatusFulfilled}
	return true
}

// Reject completes the operation identified by seq with an error.
// Stale rejections are discarded like stale fulfillments.
func (r *Resource) Reject(seq uint64, msg string) bool {
	if seq <= r.lastApplied {
		return false
	}
	r.lastApplied = seq
	r.state = State{Status: StatusRejected, Err: msg}
	return true
}

// Reset returns the resource to idle and invalidates every in-flight
// operation, so completions issued before the reset are discarded.
func (r *Resource) Reset() {
	r.lastApplied = r.nextSeq
	r.state = State{Status: StatusIdle}
}

func (r *Resource) State() State {
	return r.state
}
