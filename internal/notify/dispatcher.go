package notify

import (
	"log"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type EventKind string

const (
	EventCreated       EventKind = "created"
	EventConfirmed     EventKind = "confirmed"
	EventCancelled     EventKind = "cancelled"
	EventStatusChanged EventKind = "status_changed"
	EventReminder      EventKind = "reminder"
)

type Event struct {
	Kind        EventKind
	Appointment models.Appointment
}

// Sender delivers one notification to the client and vet involved.
// Email/SMS providers live behind this interface, outside the core.
type Sender interface {
	Send(ev Event) error
}

// LogSender is the default sender: it only logs. Real channels are
// plugged in at wiring time.
type LogSender struct{}

func (LogSender) Send(ev Event) error {
	log.Printf(
		"notify: %s appointment=%d vet=%d client=%d start=%s",
		ev.Kind,
		ev.Appointment.ID,
		ev.Appointment.VetID,
		ev.Appointment.ClientID,
		ev.Appointment.StartTime.Format("2006-01-02 15:04"),
	)
	return nil
}

// Dispatcher delivers events off the request path. The scheduler never
// blocks on, or fails because of, notification delivery.
type Dispatcher struct {
	sender Sender
	queue  chan Event
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sender.Send(ev); err != nil {
			log.Println("notify error:", err)
		}
	}
}

// A nil dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Println("notify queue full, dropping event")
	}
}
