package notify

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type UpcomingLister interface {
	ListUpcoming(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
}

// ReminderJob dispatches a reminder for every scheduled or confirmed
// appointment starting within the next 24 hours. Runs every morning.
type ReminderJob struct {
	repo       UpcomingLister
	dispatcher *Dispatcher
	cron       *cron.Cron
}

func NewReminderJob(repo UpcomingLister, dispatcher *Dispatcher) *ReminderJob {
	return &ReminderJob{
		repo:       repo,
		dispatcher: dispatcher,
		cron:       cron.New(),
	}
}

func (j *ReminderJob) Start() error {
	if _, err := j.cron.AddFunc("0 8 * * *", j.Run); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *ReminderJob) Stop() {
	j.cron.Stop()
}

func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	upcoming, err := j.repo.ListUpcoming(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		log.Println("reminder scan failed:", err)
		return
	}

	for _, ap := range upcoming {
		j.dispatcher.Dispatch(Event{
			Kind:        EventReminder,
			Appointment: ap,
		})
	}
}
