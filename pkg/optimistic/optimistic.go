// Package optimistic tracks mutations that are applied locally before the
// server has answered.
package optimistic

// Status of the most recent optimistic mutation.
type Status int

const (
	Idle Status = iota
	Pending
	Confirmed
	RolledBack
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Apply runs mutate, then commit. If commit fails, rollback runs and the
// commit error is returned. The status after each step is reported to
// report, which may be nil.
func Apply(mutate func(), commit func() error, rollback func(), report func(Status)) (Status, error) {
	if report == nil {
		report = func(Status) {}
	}

	mutate()
	report(Pending)

	if err := commit(); err != nil {
		rollback()
		report(RolledBack)
		return RolledBack, err
	}

	report(Confirmed)
	return Confirmed, nil
}
