package round

import "context"

// Repository exposes round persistence operations. Lifecycle decisions
// (which active round wins, when to demote) live in the usecase layer; the
// repository only answers structural queries.
type Repository interface {
	GetByID(ctx context.Context, id string) (Round, bool, error)
	GetBySequenceAndCycle(ctx context.Context, sequence, cycle int) (Round, bool, error)
	// ListActive returns every status=active round that is not early
	// terminated, ordered by cycle then sequence descending.
	ListActive(ctx context.Context) ([]Round, error)
	ListPendingOrActiveAfter(ctx context.Context, sequence int) ([]Round, error)
	// LatestCompleted returns the completed round with the highest sequence.
	LatestCompleted(ctx context.Context) (Round, bool, error)
	List(ctx context.Context) ([]Round, error)
	MaxSequence(ctx context.Context) (int, error)
	MaxCycle(ctx context.Context) (int, error)
	MatchdaysInUse(ctx context.Context) ([]int, error)
	Create(ctx context.Context, item Round) error
	Update(ctx context.Context, item Round) error
	UpdateStatus(ctx context.Context, id string, status string) error
	// RestampCycleAfter rewrites CycleNumber on every pending or active
	// round with a sequence above the given one. Returns rounds touched.
	RestampCycleAfter(ctx context.Context, sequence, cycle int) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}
