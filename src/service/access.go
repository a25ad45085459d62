package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/sirupsen/logrus"
)

// Lane decision actions, as returned to the hardware clients.
const (
	ActionAllowEntry = "allow_entry"
	ActionDenyEntry  = "deny_entry"
	ActionAllowExit  = "allow_exit"
	ActionPaymentDue = "payment_due"
	ActionDenyExit   = "deny_exit"
)

// Decision statuses.
const (
	StatusOK     = "ok"
	StatusDenied = "denied"
	StatusError  = "error"
)

// Denial messages, stable strings the hardware and the controllers key on.
const (
	MsgCardBusy      = "Card busy"
	MsgNoEntryRecord = "No Entry Record"
	MsgCardNotInside = "Card not inside"
	MsgCameraFailed  = "Cam Fail"
)

const eventTimeFormat = "2006-01-02 15:04:05"

// Decision is the outcome of one lane event.
type Decision struct {
	Status string
	Action string
	Plate  string
	UID    string
	Fee    *int64
	Msg    string
}

// AccessService is the entry/exit state machine. Given a lane event it runs
// the snap-recognize loop, applies the business rules against the session
// store, and produces a gate decision. Mutations for one plate or card are
// serialized by a key-scoped lock so near-simultaneous events cannot create
// duplicate open sessions.
type AccessService struct {
	store    SessionStore
	acquirer PlateAcquirer
	notifier Notifier
	log      *logrus.Logger

	camEntry string
	camExit  string

	locks keyedMutex
	now   func() time.Time
}

// NewAccessService creates the access controller.
func NewAccessService(store SessionStore, acquirer PlateAcquirer, notifier Notifier, log *logrus.Logger, camEntry, camExit string) *AccessService {
	return &AccessService{
		store:    store,
		acquirer: acquirer,
		notifier: notifier,
		log:      log,
		camEntry: camEntry,
		camExit:  camExit,
		now:      time.Now,
	}
}

// EntryByPlate handles a camera-triggered entry: read the plate, admit
// registered vehicles, record everything else as DENIED.
func (s *AccessService) EntryByPlate(ctx context.Context) (*Decision, error) {
	plate, imgPath := s.acquirer.AcquirePlate(ctx, s.camEntry, "CAM_entry")
	if imgPath == "" {
		// No frame at all: the camera lane cannot decide or audit.
		return &Decision{Status: StatusError, Action: ActionDenyEntry, Plate: plate, Msg: MsgCameraFailed}, nil
	}

	if plate != models.UnknownPlate {
		unlock := s.locks.lock("plate:" + plate)
		defer unlock()
	}

	registered, err := s.store.IsRegistered(ctx, plate)
	if err != nil {
		return nil, err
	}

	if registered {
		open, err := s.store.FindOpenByPlate(ctx, plate)
		if err != nil {
			return nil, err
		}
		if open != nil {
			// A real plate may hold only one open session.
			return &Decision{Status: StatusDenied, Action: ActionDenyEntry, Plate: plate, Msg: "Already inside"}, nil
		}
	}

	status := models.StatusDenied
	if registered {
		status = models.StatusIn
	}

	now := s.now()
	if _, err := s.store.CreateSession(ctx, models.ParkingSession{
		Plate:     plate,
		EntryTime: now,
		ImagePath: imgPath,
		Status:    status,
	}); err != nil {
		return nil, err
	}

	logStatus := "Allowed"
	ticket := "Monthly"
	if !registered {
		logStatus = "Denied (Unregistered)"
		ticket = "Unknown"
	}
	s.publishLog(models.LogEvent{
		Plate:      plate,
		Action:     "ENTRY (Cam)",
		Status:     logStatus,
		Time:       now.Format(eventTimeFormat),
		Image:      webImage(imgPath),
		TicketType: ticket,
	})

	if registered {
		return &Decision{Status: StatusOK, Action: ActionAllowEntry, Plate: plate}, nil
	}
	return &Decision{Status: StatusDenied, Action: ActionDenyEntry, Plate: plate}, nil
}

// ExitByPlate handles a camera-triggered exit: look up the open session for
// the plate, price the stay, close the session.
func (s *AccessService) ExitByPlate(ctx context.Context) (*Decision, error) {
	plate, imgPath := s.acquirer.AcquirePlate(ctx, s.camExit, "CAM_exit")
	if imgPath == "" {
		return &Decision{Status: StatusError, Action: ActionDenyExit, Plate: plate, Msg: MsgCameraFailed}, nil
	}

	if plate != models.UnknownPlate {
		unlock := s.locks.lock("plate:" + plate)
		defer unlock()
	}

	session, err := s.store.FindOpenByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if session == nil {
		s.publishLog(models.LogEvent{
			Plate:      plate,
			Action:     "EXIT (Guest)",
			Status:     "Not Found",
			Time:       now.Format(eventTimeFormat),
			Image:      webImage(imgPath),
			TicketType: "Guest",
		})
		return &Decision{Status: StatusError, Action: ActionDenyExit, Plate: plate, Msg: MsgNoEntryRecord}, nil
	}

	registered, err := s.store.IsRegistered(ctx, plate)
	if err != nil {
		return nil, err
	}

	var fee int64
	exitUsed := now
	ticket := "Monthly"
	if !registered {
		fee, exitUsed = ComputeFee(session.EntryTime, time.Time{}, s.now)
		ticket = "Guest"
	}

	if err := s.store.CloseSession(ctx, session.ID, exitUsed, fee); err != nil {
		return nil, err
	}

	s.publishLog(models.LogEvent{
		Plate:      plate,
		Action:     fmt.Sprintf("EXIT (%s)", ticket),
		Status:     "Out",
		Time:       now.Format(eventTimeFormat),
		Image:      webImage(imgPath),
		Fee:        fee,
		TicketType: ticket,
	})

	action := ActionAllowExit
	if fee > 0 {
		action = ActionPaymentDue
	}
	return &Decision{Status: StatusOK, Action: action, Plate: plate, Fee: &fee}, nil
}

// EntryByRFID handles a card tap at the entry lane. The plate read is
// best-effort; the card is the identity. A card with an open session is
// rejected without touching the store.
func (s *AccessService) EntryByRFID(ctx context.Context, uid string) (*Decision, error) {
	plate, imgPath := s.acquirer.AcquirePlate(ctx, s.camEntry, "RFID_entry_"+uid)

	unlock := s.locks.lock("uid:" + uid)
	defer unlock()

	existing, err := s.store.FindOpenByUid(ctx, uid)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Decision{Status: StatusError, Action: ActionDenyEntry, UID: uid, Msg: MsgCardBusy}, nil
	}

	now := s.now()
	if _, err := s.store.CreateSession(ctx, models.ParkingSession{
		Plate:     plate,
		RFIDUid:   uid,
		EntryTime: now,
		ImagePath: imgPath,
		Status:    models.StatusIn,
	}); err != nil {
		return nil, err
	}

	s.publishLog(models.LogEvent{
		Plate:      displayPlate(plate, uid),
		Action:     "ENTRY (RFID)",
		Status:     "Allowed",
		Time:       now.Format(eventTimeFormat),
		Image:      webImage(imgPath),
		TicketType: "Guest",
	})

	return &Decision{Status: StatusOK, Action: ActionAllowEntry, UID: uid, Plate: plate}, nil
}

// ExitByRFID handles a card tap at the exit lane. The freshly read plate is
// checked against the plate stored on entry: when both are real and they
// differ the exit is blocked and an alert is published, with the session left
// open. The check only fires when both reads are informative, so an OCR miss
// on either side never causes a false rejection.
func (s *AccessService) ExitByRFID(ctx context.Context, uid string) (*Decision, error) {
	unlock := s.locks.lock("uid:" + uid)
	defer unlock()

	session, err := s.store.FindOpenByUid(ctx, uid)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &Decision{Status: StatusError, Action: ActionDenyExit, UID: uid, Msg: MsgCardNotInside}, nil
	}

	plate, imgPath := s.acquirer.AcquirePlate(ctx, s.camExit, "RFID_exit_"+uid)

	now := s.now()
	if session.Plate != models.UnknownPlate && plate != models.UnknownPlate && session.Plate != plate {
		s.log.WithFields(logrus.Fields{
			"uid":         uid,
			"entry_plate": session.Plate,
			"exit_plate":  plate,
		}).Warn("exit blocked: plate mismatch")

		s.publishLog(models.LogEvent{
			Plate:      fmt.Sprintf("%s (entry: %s)", plate, session.Plate),
			Action:     "EXIT BLOCKED",
			Status:     "Plate mismatch",
			Time:       now.Format(eventTimeFormat),
			Image:      webImage(imgPath),
			TicketType: "ALERT",
		})

		return &Decision{
			Status: StatusError,
			Action: ActionDenyExit,
			UID:    uid,
			Plate:  plate,
			Msg:    fmt.Sprintf("Mismatch: %s vs %s", session.Plate, plate),
		}, nil
	}

	fee, exitUsed := ComputeFee(session.EntryTime, time.Time{}, s.now)

	if err := s.store.CloseSession(ctx, session.ID, exitUsed, fee); err != nil {
		return nil, err
	}

	s.publishLog(models.LogEvent{
		Plate:      displayPlate(plate, uid),
		Action:     "EXIT (RFID)",
		Status:     "Out",
		Time:       now.Format(eventTimeFormat),
		Image:      webImage(imgPath),
		Fee:        fee,
		TicketType: "Guest",
	})

	action := ActionAllowExit
	if fee > 0 {
		action = ActionPaymentDue
	}
	return &Decision{Status: StatusOK, Action: action, UID: uid, Plate: plate, Fee: &fee}, nil
}

// publishLog forwards a decision event to the notifier. Publication is fire
// and forget; it can never fail a lane transaction.
func (s *AccessService) publishLog(event models.LogEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish("new_log", event)
}

// webImage maps an evidence path to its public URL.
func webImage(imagePath string) string {
	if imagePath == "" {
		return "/static/placeholder.jpg"
	}
	return "/captures/" + filepath.Base(imagePath)
}

// displayPlate renders a plate+card pair for the dashboard feed.
func displayPlate(plate, uid string) string {
	if plate != models.UnknownPlate {
		return fmt.Sprintf("%s (card: %s)", plate, uid)
	}
	return "RFID: " + uid
}
