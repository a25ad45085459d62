package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory SessionStore with the same per-call semantics as
// the Postgres repository.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	sessions   []*models.ParkingSession
	registered map[string]bool
}

func newMemStore() *memStore {
	return &memStore{registered: make(map[string]bool)}
}

func (m *memStore) FindOpenByPlate(_ context.Context, plate string) (*models.ParkingSession, error) {
	if plate == "" || plate == models.UnknownPlate {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].Plate == plate && m.sessions[i].Status == models.StatusIn {
			copied := *m.sessions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindOpenByUid(_ context.Context, uid string) (*models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].RFIDUid == uid && m.sessions[i].Status == models.StatusIn {
			copied := *m.sessions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) IsRegistered(_ context.Context, plate string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered[plate], nil
}

func (m *memStore) CreateSession(_ context.Context, session models.ParkingSession) (*models.ParkingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	session.ID = m.nextID
	stored := session
	m.sessions = append(m.sessions, &stored)
	copied := session
	return &copied, nil
}

func (m *memStore) CloseSession(_ context.Context, id int64, exitTime time.Time, fee int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID == id && s.Status == models.StatusIn {
			t := exitTime
			f := fee
			s.ExitTime = &t
			s.Fee = &f
			s.Status = models.StatusOut
			return nil
		}
	}
	return fmt.Errorf("%w: %d", models.ErrSessionNotFound, id)
}

func (m *memStore) register(plate string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered[plate] = true
}

func (m *memStore) count(status models.SessionStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if s.Status == status {
			n++
		}
	}
	return n
}

func (m *memStore) last() *models.ParkingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) == 0 {
		return nil
	}
	copied := *m.sessions[len(m.sessions)-1]
	return &copied
}

// fixedAcquirer always reads the same plate.
type fixedAcquirer struct {
	plate string
	path  string
}

func (a fixedAcquirer) AcquirePlate(_ context.Context, _, _ string) (string, string) {
	return a.plate, a.path
}

// seqAcquirer returns scripted readings in order, sticking on the last one.
type seqAcquirer struct {
	mu      sync.Mutex
	results [][2]string
	i       int
}

func (a *seqAcquirer) AcquirePlate(_ context.Context, _, _ string) (string, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.results[a.i]
	if a.i < len(a.results)-1 {
		a.i++
	}
	return r[0], r[1]
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	loads  []models.LogEvent
}

func (n *recordingNotifier) Publish(event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	if log, ok := payload.(models.LogEvent); ok {
		n.loads = append(n.loads, log)
	}
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.loads))
	for _, l := range n.loads {
		out = append(out, l.Action)
	}
	return out
}

func newTestAccess(store SessionStore, acquirer PlateAcquirer, notifier Notifier, now time.Time) *AccessService {
	s := NewAccessService(store, acquirer, notifier, logrus.New(), "cam-entry", "cam-exit")
	s.now = func() time.Time { return now }
	return s
}

func TestEntryByPlateRegistered(t *testing.T) {
	store := newMemStore()
	store.register("30A12345")
	notifier := &recordingNotifier{}
	svc := newTestAccess(store, fixedAcquirer{"30A12345", "/tmp/e.jpg"}, notifier, at("08:00:00"))

	d, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, d.Status)
	assert.Equal(t, ActionAllowEntry, d.Action)
	assert.Equal(t, "30A12345", d.Plate)

	sess := store.last()
	require.NotNil(t, sess)
	assert.Equal(t, models.StatusIn, sess.Status)
	assert.Equal(t, "/tmp/e.jpg", sess.ImagePath)
	assert.Equal(t, []string{"new_log"}, notifier.events)
}

func TestEntryByPlateUnregistered(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{"99Z99999", "/tmp/e.jpg"}, &recordingNotifier{}, at("08:00:00"))

	d, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusDenied, d.Status)
	assert.Equal(t, ActionDenyEntry, d.Action)

	// The attempt is still recorded, with a DENIED session.
	sess := store.last()
	require.NotNil(t, sess)
	assert.Equal(t, models.StatusDenied, sess.Status)
}

func TestEntryByPlateAlreadyInside(t *testing.T) {
	store := newMemStore()
	store.register("30A12345")
	svc := newTestAccess(store, fixedAcquirer{"30A12345", "/tmp/e.jpg"}, &recordingNotifier{}, at("08:00:00"))

	_, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)

	d, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionDenyEntry, d.Action)
	assert.Equal(t, 1, store.count(models.StatusIn), "duplicate entry must not create a second open session")
}

func TestEntryByPlateCameraFailure(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, ""}, &recordingNotifier{}, at("08:00:00"))

	d, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusError, d.Status)
	assert.Equal(t, MsgCameraFailed, d.Msg)
	assert.Nil(t, store.last(), "no session without an evidence image on the camera lane")
}

func TestExitByPlateNoEntryRecord(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{"30A12345", "/tmp/x.jpg"}, &recordingNotifier{}, at("10:00:00"))

	d, err := svc.ExitByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionDenyExit, d.Action)
	assert.Equal(t, MsgNoEntryRecord, d.Msg)
	assert.Nil(t, store.last())
}

func TestExitByPlateGuestPaymentDue(t *testing.T) {
	store := newMemStore()
	store.sessions = append(store.sessions, &models.ParkingSession{
		ID: 1, Plate: "51B11111", EntryTime: at("10:00:00"), Status: models.StatusIn,
	})
	store.nextID = 1
	svc := newTestAccess(store, fixedAcquirer{"51B11111", "/tmp/x.jpg"}, &recordingNotifier{}, at("10:20:00"))

	d, err := svc.ExitByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionPaymentDue, d.Action)
	require.NotNil(t, d.Fee)
	assert.Equal(t, int64(2000), *d.Fee)

	sess := store.last()
	assert.Equal(t, models.StatusOut, sess.Status)
	require.NotNil(t, sess.Fee)
	assert.Equal(t, int64(2000), *sess.Fee)
}

func TestExitByPlateWithinGrace(t *testing.T) {
	store := newMemStore()
	store.sessions = append(store.sessions, &models.ParkingSession{
		ID: 1, Plate: "51B11111", EntryTime: at("10:00:00"), Status: models.StatusIn,
	})
	store.nextID = 1
	svc := newTestAccess(store, fixedAcquirer{"51B11111", "/tmp/x.jpg"}, &recordingNotifier{}, at("10:10:00"))

	d, err := svc.ExitByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionAllowExit, d.Action)
	require.NotNil(t, d.Fee)
	assert.Equal(t, int64(0), *d.Fee)
}

func TestExitByPlateRegisteredAlwaysFree(t *testing.T) {
	store := newMemStore()
	store.register("30A12345")
	store.sessions = append(store.sessions, &models.ParkingSession{
		ID: 1, Plate: "30A12345", EntryTime: at("06:00:00"), Status: models.StatusIn,
	})
	store.nextID = 1
	svc := newTestAccess(store, fixedAcquirer{"30A12345", "/tmp/x.jpg"}, &recordingNotifier{}, at("18:00:00"))

	d, err := svc.ExitByPlate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionAllowExit, d.Action)
	require.NotNil(t, d.Fee)
	assert.Equal(t, int64(0), *d.Fee, "registered vehicles close at fee 0 regardless of duration")
}

func TestEntryByRFID(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, "/tmp/r.jpg"}, &recordingNotifier{}, at("08:00:00"))

	d, err := svc.EntryByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionAllowEntry, d.Action)
	assert.Equal(t, "CARD01", d.UID)

	sess := store.last()
	require.NotNil(t, sess)
	assert.Equal(t, "CARD01", sess.RFIDUid)
	assert.Equal(t, models.UnknownPlate, sess.Plate)
	assert.Equal(t, models.StatusIn, sess.Status)
}

func TestEntryByRFIDCardBusy(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, "/tmp/r.jpg"}, &recordingNotifier{}, at("08:00:00"))

	_, err := svc.EntryByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	d, err := svc.EntryByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionDenyEntry, d.Action)
	assert.Equal(t, MsgCardBusy, d.Msg)
	assert.Equal(t, 1, store.count(models.StatusIn))
}

func TestEntryByRFIDConcurrentSameCard(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, "/tmp/r.jpg"}, &recordingNotifier{}, at("08:00:00"))

	const workers = 8
	decisions := make([]*Decision, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := svc.EntryByRFID(context.Background(), "CARD01")
			assert.NoError(t, err)
			decisions[i] = d
		}(i)
	}
	wg.Wait()

	allowed, denied := 0, 0
	for _, d := range decisions {
		switch d.Action {
		case ActionAllowEntry:
			allowed++
		case ActionDenyEntry:
			denied++
		}
	}

	assert.Equal(t, 1, allowed, "exactly one tap wins")
	assert.Equal(t, workers-1, denied)
	assert.Equal(t, 1, store.count(models.StatusIn))
}

func TestExitByRFIDCardNotInside(t *testing.T) {
	store := newMemStore()
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, "/tmp/r.jpg"}, &recordingNotifier{}, at("08:00:00"))

	d, err := svc.ExitByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionDenyExit, d.Action)
	assert.Equal(t, MsgCardNotInside, d.Msg)
}

func TestExitByRFIDPlateMismatch(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	entry := &seqAcquirer{results: [][2]string{
		{"30A12345", "/tmp/in.jpg"},
		{"30A99999", "/tmp/out.jpg"},
	}}
	svc := newTestAccess(store, entry, notifier, at("08:00:00"))

	_, err := svc.EntryByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	d, err := svc.ExitByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionDenyExit, d.Action)
	assert.Contains(t, d.Msg, "Mismatch: 30A12345 vs 30A99999")

	// The session stays open, unpriced, and the alert went out.
	sess := store.last()
	assert.Equal(t, models.StatusIn, sess.Status)
	assert.Nil(t, sess.Fee)
	assert.Contains(t, notifier.actions(), "EXIT BLOCKED")
}

func TestExitByRFIDUnknownEntryPlateSkipsMismatch(t *testing.T) {
	store := newMemStore()
	acq := &seqAcquirer{results: [][2]string{
		{models.UnknownPlate, "/tmp/in.jpg"},
		{"30A12345", "/tmp/out.jpg"},
	}}
	svc := newTestAccess(store, acq, &recordingNotifier{}, at("08:00:00"))

	_, err := svc.EntryByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	d, err := svc.ExitByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionAllowExit, d.Action)
	assert.Equal(t, models.StatusOut, store.last().Status)
}

func TestExitByRFIDPaymentDue(t *testing.T) {
	store := newMemStore()
	store.sessions = append(store.sessions, &models.ParkingSession{
		ID: 1, Plate: models.UnknownPlate, RFIDUid: "CARD01",
		EntryTime: at("09:00:00"), Status: models.StatusIn,
	})
	store.nextID = 1
	svc := newTestAccess(store, fixedAcquirer{models.UnknownPlate, "/tmp/out.jpg"}, &recordingNotifier{}, at("10:00:00"))

	d, err := svc.ExitByRFID(context.Background(), "CARD01")
	require.NoError(t, err)

	assert.Equal(t, ActionPaymentDue, d.Action)
	require.NotNil(t, d.Fee)
	assert.Equal(t, int64(6000), *d.Fee)
}

func TestDecisionsSurviveNilNotifier(t *testing.T) {
	store := newMemStore()
	store.register("30A12345")
	svc := newTestAccess(store, fixedAcquirer{"30A12345", "/tmp/e.jpg"}, nil, at("08:00:00"))

	d, err := svc.EntryByPlate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionAllowEntry, d.Action)
}
