package lookup

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// Inputs shorter than these never reach the backend.
const (
	MinPlateLength = 4
	MinVINLength   = 6
)

// Searcher finds a vehicle by plate and/or VIN. A miss is nil, nil.
type Searcher interface {
	Search(ctx context.Context, plate, vin string) (*models.Vehicle, error)
}

// Status is the state of the lookup.
type Status int

const (
	StatusIdle Status = iota
	StatusSearching
	StatusFound
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSearching:
		return "searching"
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Query is what the user has typed so far.
type Query struct {
	Plate string
	VIN   string
}

// Normalize drops plate separators and upper-cases the VIN.
func (q Query) Normalize() Query {
	return Query{
		Plate: format.NormalizePlate(q.Plate),
		VIN:   strings.ToUpper(strings.TrimSpace(q.VIN)),
	}
}

// Searchable reports whether either field is long enough to search.
func (q Query) Searchable() bool {
	n := q.Normalize()
	return len(n.Plate) >= MinPlateLength || len(n.VIN) >= MinVINLength
}

// Result is the outcome of the latest lookup. Vehicle is set only when
// Status is StatusFound, in which case the vehicle fields are locked.
type Result struct {
	Status  Status
	Query   Query
	Vehicle *models.Vehicle
	Err     error
}

// Locked reports whether the found vehicle's fields must not be edited.
func (r Result) Locked() bool {
	return r.Status == StatusFound
}

// AutoFill debounces input and keeps only the newest response.
type AutoFill struct {
	searcher  Searcher
	debouncer *Debouncer
	ctx       context.Context
	onResult  func(Result)

	// notify serialises onResult so callbacks arrive in seq order.
	notify sync.Mutex

	mu     sync.Mutex
	seq    uint64
	result Result
}

// NewAutoFill creates an auto-fill. onResult, if non-nil, is called with
// every accepted result, one call at a time and never for a superseded
// input. It must not call back into the AutoFill. Searches run under ctx.
func NewAutoFill(ctx context.Context, searcher Searcher, delay time.Duration, onResult func(Result)) *AutoFill {
	if onResult == nil {
		onResult = func(Result) {}
	}
	return &AutoFill{
		searcher:  searcher,
		debouncer: NewDebouncer(delay),
		ctx:       ctx,
		onResult:  onResult,
	}
}

// Input records a keystroke. Short input resets to idle without a request;
// anything else re-arms the debounce timer.
func (a *AutoFill) Input(q Query) {
	q = q.Normalize()

	if !q.Searchable() {
		a.notify.Lock()
		defer a.notify.Unlock()
		a.mu.Lock()
		a.seq++
		a.debouncer.Stop()
		a.result = Result{Status: StatusIdle, Query: q}
		res := a.result
		a.mu.Unlock()
		a.onResult(res)
		return
	}

	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	a.debouncer.Trigger(func() {
		a.search(seq, q)
	})
}

// Result returns the latest accepted result.
func (a *AutoFill) Result() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Stop cancels any pending search. Responses still in flight are dropped and
// no callback runs once Stop returns.
func (a *AutoFill) Stop() {
	a.notify.Lock()
	defer a.notify.Unlock()
	a.mu.Lock()
	a.seq++
	a.mu.Unlock()
	a.debouncer.Stop()
}

func (a *AutoFill) search(seq uint64, q Query) {
	if !a.accept(seq, Result{Status: StatusSearching, Query: q}) {
		return
	}

	res := Search(a.ctx, a.searcher, q)
	if !a.accept(seq, res) {
		log.WithFields(log.Fields{"plate": q.Plate, "vin": q.VIN}).Debug("Dropped superseded vehicle lookup")
	}
}

// accept stores and delivers res if seq is still the newest input. The seq
// check and the callback both happen under notify, so a newer result can
// never be delivered ahead of an older one.
func (a *AutoFill) accept(seq uint64, res Result) bool {
	a.notify.Lock()
	defer a.notify.Unlock()
	a.mu.Lock()
	if seq != a.seq {
		a.mu.Unlock()
		return false
	}
	a.result = res
	a.mu.Unlock()
	a.onResult(res)
	return true
}

// Search performs one immediate lookup without debouncing.
func Search(ctx context.Context, searcher Searcher, q Query) Result {
	q = q.Normalize()
	if !q.Searchable() {
		return Result{Status: StatusIdle, Query: q}
	}

	plate, vin := q.Plate, q.VIN
	if len(plate) < MinPlateLength {
		plate = ""
	}
	if len(vin) < MinVINLength {
		vin = ""
	}

	v, err := searcher.Search(ctx, plate, vin)
	switch {
	case err != nil:
		log.WithError(err).WithFields(log.Fields{"plate": plate, "vin": vin}).Warn("Vehicle lookup failed")
		return Result{Status: StatusFailed, Query: q, Err: err}
	case v == nil:
		return Result{Status: StatusNotFound, Query: q}
	default:
		return Result{Status: StatusFound, Query: q, Vehicle: v}
	}
}

// CheckMileage enforces that a new reading is strictly greater than the
// vehicle's last recorded mileage, when there is one.
func CheckMileage(v *models.Vehicle, mileage int64) bool {
	if v == nil || v.Mileage == nil {
		return mileage >= 0
	}
	return mileage > *v.Mileage
}
