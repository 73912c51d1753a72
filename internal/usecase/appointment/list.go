package appointment

import (
	"context"
	"time"

	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/dto"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/timezone"
)

// ListAppointments bundles the read-only query surface. None of these
// carry conflict semantics.
type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) ByVetDay(
	ctx context.Context,
	clinicID uint,
	vetID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}

	loc := timezone.Location(clinic.Timezone)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	apps, err := uc.repo.ListForVetPeriod(ctx, vetID, start, end)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func (uc *ListAppointments) ByVetMonth(
	ctx context.Context,
	clinicID uint,
	vetID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}

	loc := timezone.Location(clinic.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	apps, err := uc.repo.ListForVetPeriod(ctx, vetID, start, end)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func (uc *ListAppointments) ByClient(
	ctx context.Context,
	clinicID uint,
	clientID uint,
	page domain.Page,
) ([]dto.AppointmentListDTO, error) {

	apps, err := uc.repo.ListForClient(ctx, clinicID, clientID, page)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func (uc *ListAppointments) Search(
	ctx context.Context,
	clinicID uint,
	query string,
	page domain.Page,
) ([]dto.AppointmentListDTO, error) {

	apps, err := uc.repo.SearchAppointments(ctx, clinicID, query, page)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func toDTOs(apps []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		item := dto.AppointmentListDTO{
			ID:         ap.ID,
			UUID:       ap.UUID,
			StartTime:  ap.StartTime,
			EndTime:    ap.EndTime,
			Status:     ap.Status,
			Type:       ap.Type,
			ClientName: ap.Client.Name,
			IsRemote:   ap.IsRemote,
		}
		if ap.Pet != nil {
			item.PetName = ap.Pet.Name
		}
		out = append(out, item)
	}
	return out
}
