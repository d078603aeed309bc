package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

// Operation names used in logs and metrics.
const (
	OpAddRide  = "add_ride"
	OpBookRide = "book_ride"
	OpClearAll = "clear_all"
	OutcomeOK  = "success"
)

// MetricsRecorder observes registry outcomes. internal/metrics implements it
// with Prometheus collectors.
type MetricsRecorder interface {
	RecordOperation(operation, outcome string)
	RecordRides(rides []entities.Ride)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}
func (nopRecorder) RecordRides([]entities.Ride)    {}

// AddRideRequest is the input to AddRide. The json tags double as the HTTP
// request body of POST /rides.
type AddRideRequest struct {
	OwnerEmployeeID string               `json:"ownerEmployeeId"`
	VehicleType     entities.VehicleType `json:"vehicleType"`
	VehicleNo       string               `json:"vehicleNo"`
	VacantSeats     int                  `json:"vacantSeats"`
	Time            string               `json:"time"`
	PickupPoint     string               `json:"pickupPoint"`
	Destination     string               `json:"destination"`
}

// RideRegistry owns the day's carpool rides and enforces the booking rules.
//
// Go Learning Note — Copy-on-Write Snapshots:
// The published ride list is never modified after it is stored in the atomic
// pointer. Writers take mu, build a brand-new slice, save it, and swap the
// pointer. Readers just Load the pointer: they never block and never see a
// half-applied booking. Individual Ride values inside a snapshot may share
// booker arrays with the previous snapshot, which is safe because nothing
// appends to a published ride (Ride.Book works on a clone).
//
// Go Learning Note — Functional Options:
// NewRideRegistry takes the one required dependency (the store) positionally
// and everything with a sensible default as an Option. Tests swap the clock
// and id generator without a constructor that takes six arguments.
type RideRegistry struct {
	store         repository.RideStore
	clock         utils.DayClock
	newID         utils.IDGenerator
	notifier      *ChangeNotifier
	metrics       MetricsRecorder
	log           zerolog.Logger
	defaultBuffer int

	mu    sync.Mutex
	rides atomic.Pointer[[]entities.Ride]
}

// Option configures a RideRegistry.
type Option func(*RideRegistry)

func WithClock(c utils.DayClock) Option { return func(r *RideRegistry) { r.clock = c } }

func WithIDGenerator(g utils.IDGenerator) Option { return func(r *RideRegistry) { r.newID = g } }

func WithNotifier(n *ChangeNotifier) Option { return func(r *RideRegistry) { r.notifier = n } }

func WithMetrics(m MetricsRecorder) Option { return func(r *RideRegistry) { r.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(r *RideRegistry) { r.log = l } }

// WithDefaultBuffer changes the search window used when FindRidesNearTime is
// called without WithBuffer.
func WithDefaultBuffer(minutes int) Option {
	return func(r *RideRegistry) { r.defaultBuffer = minutes }
}

// NewRideRegistry creates an empty registry backed by store. Call Load to
// restore previously saved rides.
func NewRideRegistry(store repository.RideStore, opts ...Option) *RideRegistry {
	r := &RideRegistry{
		store:         store,
		clock:         utils.NewLocalDayClock(nil),
		newID:         utils.GenerateID,
		metrics:       nopRecorder{},
		log:           zerolog.Nop(),
		defaultBuffer: DefaultSearchBufferMinutes,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notifier == nil {
		r.notifier = NewChangeNotifier()
	}
	empty := []entities.Ride{}
	r.rides.Store(&empty)
	return r
}

// Load restores the ride list from the store and returns how many rides were
// restored. A store that fails or holds unreadable data leaves the registry
// empty; the reason is logged, never returned.
func (r *RideRegistry) Load(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	rides, err := r.store.Load(ctx)
	if err != nil {
		ev := r.log.Warn().Err(err)
		if errors.Is(err, repository.ErrCorruptPayload) {
			ev = ev.Bool("corrupt", true)
		}
		ev.Msg("stored rides ignored, starting empty")
		rides = nil
	}
	if rides == nil {
		rides = []entities.Ride{}
	}
	r.publish(rides)
	r.log.Info().Int("rides", len(rides)).Msg("ride registry loaded")
	return len(rides)
}

func (r *RideRegistry) current() []entities.Ride {
	return *r.rides.Load()
}

// publish swaps in rides and notifies listeners. Callers hold mu, so
// listeners see changes in the order they were made.
func (r *RideRegistry) publish(rides []entities.Ride) {
	r.rides.Store(&rides)
	r.metrics.RecordRides(rides)
	r.notifier.Publish(rides)
}

// commit persists rides and publishes them. On a store error nothing is
// published and the previous list stays current.
func (r *RideRegistry) commit(ctx context.Context, rides []entities.Ride) error {
	if err := r.store.Save(ctx, rides); err != nil {
		return err
	}
	r.publish(rides)
	return nil
}

func (r *RideRegistry) record(op string, res Result) Result {
	if res.Success {
		r.metrics.RecordOperation(op, OutcomeOK)
		return res
	}
	r.metrics.RecordOperation(op, string(res.Kind))
	ev := r.log.Debug()
	if res.Kind == KindStorage {
		ev = r.log.Error().Err(res.cause)
	}
	ev.Str("operation", op).Str("kind", string(res.Kind)).Msg(res.Message)
	return res
}

// AddRide validates req and appends a new ride dated today.
func (r *RideRegistry) AddRide(ctx context.Context, req AddRideRequest) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(OpAddRide, r.addRide(ctx, req))
}

func (r *RideRegistry) addRide(ctx context.Context, req AddRideRequest) Result {
	owner := entities.NormalizeEmployeeID(req.OwnerEmployeeID)
	vehicleNo := strings.TrimSpace(req.VehicleNo)
	pickup := strings.TrimSpace(req.PickupPoint)
	destination := strings.TrimSpace(req.Destination)

	switch {
	case owner == "":
		return fail(KindValidation, MsgEmployeeIDRequired)
	case vehicleNo == "":
		return fail(KindValidation, MsgVehicleNoRequired)
	case pickup == "" || destination == "":
		return fail(KindValidation, MsgPlacesRequired)
	case !utils.IsClock(req.Time):
		return fail(KindValidation, MsgTimeFormat)
	case req.VacantSeats < 1:
		return fail(KindValidation, MsgSeatsMin)
	case !req.VehicleType.Valid():
		return fail(KindValidation, MsgVehicleType)
	}

	today := r.clock.Today()
	rides := r.current()
	if ownerHasRideOn(rides, owner, today) {
		return fail(KindConflict, MsgOwnerRideExists)
	}
	if vehicleConflict(rides, vehicleNo, req.Time) {
		return fail(KindConflict, MsgVehicleConflict)
	}

	ride := entities.NewRide(r.newID(), owner, req.VehicleType, vehicleNo, req.VacantSeats, req.Time, pickup, destination, today)
	updated := make([]entities.Ride, len(rides), len(rides)+1)
	copy(updated, rides)
	updated = append(updated, ride)

	if err := r.commit(ctx, updated); err != nil {
		return storageFailure(err)
	}
	r.log.Info().
		Str("ride_id", ride.ID).
		Str("owner", owner).
		Str("vehicle_no", vehicleNo).
		Str("time", ride.Time).
		Int("seats", ride.VacantSeats).
		Msg("ride added")
	created := ride.Clone()
	return ok(&created)
}

// FindRidesNearTime returns today's rides with a free seat whose time is
// within the buffer (default 60 minutes) of desiredTime, in the order they
// were added. A malformed desiredTime matches nothing.
func (r *RideRegistry) FindRidesNearTime(desiredTime string, opts ...SearchOption) []entities.Ride {
	p := searchParams{bufferMinutes: r.defaultBuffer}
	for _, opt := range opts {
		opt(&p)
	}
	return matchNearTime(r.current(), r.clock.Today(), desiredTime, p)
}

// BookRide gives employeeID one seat on the ride.
func (r *RideRegistry) BookRide(ctx context.Context, rideID, employeeID string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(OpBookRide, r.bookRide(ctx, rideID, employeeID))
}

func (r *RideRegistry) bookRide(ctx context.Context, rideID, employeeID string) Result {
	employee := entities.NormalizeEmployeeID(employeeID)
	if employee == "" {
		return fail(KindValidation, MsgEmployeeIDRequired)
	}

	rides := r.current()
	idx := indexOfRide(rides, rideID)
	if idx == -1 {
		return fail(KindNotFound, MsgRideNotFound)
	}

	ride := rides[idx]
	today := r.clock.Today()
	switch {
	case ride.Date != today:
		return fail(KindValidation, MsgRideNotToday)
	case ride.OwnerEmployeeID == employee:
		return fail(KindConflict, MsgOwnerCannotBook)
	case ride.HasBooker(employee):
		return fail(KindConflict, MsgAlreadyBookedRide)
	case ride.VacantSeats <= 0:
		return fail(KindConflict, MsgNoVacantSeats)
	case bookedOn(rides, employee, today):
		return fail(KindConflict, MsgAlreadyBookedToday)
	}

	booked := ride.Book(employee)
	updated := make([]entities.Ride, len(rides))
	copy(updated, rides)
	updated[idx] = booked

	if err := r.commit(ctx, updated); err != nil {
		return storageFailure(err)
	}
	r.log.Info().
		Str("ride_id", booked.ID).
		Str("employee", employee).
		Int("vacant_seats", booked.VacantSeats).
		Msg("ride booked")
	out := booked.Clone()
	return ok(&out)
}

// HasVehicleConflict reports whether vehicleNo already has a ride within 60
// minutes of time. Rides from every stored date count.
func (r *RideRegistry) HasVehicleConflict(vehicleNo, time string) bool {
	return vehicleConflict(r.current(), strings.TrimSpace(vehicleNo), time)
}

// ClearAllRides removes every ride from the registry and the store. There is
// no undo; callers confirm with the operator first.
func (r *RideRegistry) ClearAllRides(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Clear(ctx); err != nil {
		return r.record(OpClearAll, storageFailure(err))
	}
	removed := len(r.current())
	r.publish([]entities.Ride{})
	r.log.Warn().Int("removed", removed).Msg("all rides cleared")
	return r.record(OpClearAll, ok(nil))
}

// Rides returns a copy of every ride, in insertion order.
func (r *RideRegistry) Rides() []entities.Ride {
	return entities.CloneRides(r.current())
}

// Ride looks up one ride by id.
func (r *RideRegistry) Ride(id string) (entities.Ride, bool) {
	rides := r.current()
	if i := indexOfRide(rides, id); i >= 0 {
		return rides[i].Clone(), true
	}
	return entities.Ride{}, false
}

// OnChange registers l for every change and calls it at once with the
// current rides. l runs while the registry's write lock is held, so it must
// not call AddRide, BookRide or ClearAllRides; reads are fine.
func (r *RideRegistry) OnChange(l Listener) (cancel func()) {
	return r.notifier.Subscribe(l)
}

// Today is the date new rides are stamped with.
func (r *RideRegistry) Today() string {
	return r.clock.Today()
}
