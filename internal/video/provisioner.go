package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type Meeting struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provisioner creates a join URL for remote consultations. Provisioning
// failures must never block appointment persistence: the scheduler logs
// them and leaves the meeting URL empty for later backfill.
type Provisioner interface {
	CreateMeeting(ctx context.Context, ap *models.Appointment) (*Meeting, error)
}

// LinkProvisioner mints room URLs under a configured base. It stands in
// for a real conferencing provider behind the same interface.
type LinkProvisioner struct {
	baseURL string
}

func NewLinkProvisioner(baseURL string) *LinkProvisioner {
	return &LinkProvisioner{baseURL: baseURL}
}

func (p *LinkProvisioner) CreateMeeting(
	ctx context.Context,
	ap *models.Appointment,
) (*Meeting, error) {

	id := uuid.NewString()
	return &Meeting{
		ID:  id,
		URL: fmt.Sprintf("%s/rooms/%s", p.baseURL, id),
	}, nil
}
