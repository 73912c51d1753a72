package availability

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/cache"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// Repository is the slice of storage the availability service needs.
type Repository interface {
	ListSlots(ctx context.Context, vetID uint) ([]models.AvailabilitySlot, error)
	ListSlotsForDay(ctx context.Context, vetID uint, weekday int) ([]models.AvailabilitySlot, error)
	ReplaceSlots(ctx context.Context, vetID uint, slots []models.AvailabilitySlot) error

	ListHolidays(ctx context.Context, vetID uint) ([]models.Holiday, error)
	CountHolidaysOn(ctx context.Context, vetID uint, date time.Time) (int64, error)
	CreateHoliday(ctx context.Context, h *models.Holiday) error
	DeleteHoliday(ctx context.Context, vetID uint, holidayID uint) (bool, error)
}

// Service answers "is vet X theoretically available at time T". The answers
// are advisory: the scheduler only consults them when availability
// enforcement is switched on, otherwise they feed calendar rendering.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

const scheduleCacheTTL = 10 * time.Minute

func scheduleCacheKey(vetID uint) string {
	return fmt.Sprintf("availability:weekly:%d", vetID)
}

// IsVetAvailableAt reports whether hhmm ("15:04") falls inside at least one
// of the vet's slots for that weekday. Slot bounds are inclusive.
func (s *Service) IsVetAvailableAt(
	ctx context.Context,
	vetID uint,
	weekday time.Weekday,
	hhmm string,
) (bool, error) {

	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return false, httperr.ErrBusiness("invalid_time")
	}

	slots, err := s.repo.ListSlotsForDay(ctx, vetID, int(weekday))
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		start, err1 := time.Parse("15:04", slot.StartTime)
		end, err2 := time.Parse("15:04", slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			return true, nil
		}
	}
	return false, nil
}

// IsWindowAvailable is the window form used by the scheduler when
// enforcement is on: both ends must sit inside a single slot.
func (s *Service) IsWindowAvailable(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	slots, err := s.repo.ListSlotsForDay(ctx, vetID, int(start.Weekday()))
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		slotStart, err1 := time.Parse("15:04", slot.StartTime)
		slotEnd, err2 := time.Parse("15:04", slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}

		dayStart := time.Date(
			start.Year(), start.Month(), start.Day(),
			slotStart.Hour(), slotStart.Minute(), 0, 0, start.Location(),
		)
		dayEnd := time.Date(
			start.Year(), start.Month(), start.Day(),
			slotEnd.Hour(), slotEnd.Minute(), 0, 0, start.Location(),
		)

		if !start.Before(dayStart) && !end.After(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) IsHoliday(
	ctx context.Context,
	vetID uint,
	date time.Time,
) (bool, error) {

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.repo.CountHolidaysOn(ctx, vetID, day)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// WeeklySchedule groups the vet's slots by weekday for calendar rendering.
func (s *Service) WeeklySchedule(
	ctx context.Context,
	vetID uint,
) (map[int][]models.AvailabilitySlot, error) {

	key := scheduleCacheKey(vetID)

	var cached map[int][]models.AvailabilitySlot
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	slots, err := s.repo.ListSlots(ctx, vetID)
	if err != nil {
		return nil, err
	}

	schedule := make(map[int][]models.AvailabilitySlot, 7)
	for _, slot := range slots {
		schedule[slot.Weekday] = append(schedule[slot.Weekday], slot)
	}

	if err := s.cache.SetJSON(ctx, key, schedule, scheduleCacheTTL); err != nil {
		log.Println("availability cache set failed:", err)
	}

	return schedule, nil
}

// SetWeeklySchedule replaces the vet's whole pattern. Overlap among the
// vet's own slots is not validated: split shifts and redundant windows
// are both legal.
func (s *Service) SetWeeklySchedule(
	ctx context.Context,
	vetID uint,
	slots []models.AvailabilitySlot,
) error {

	for _, slot := range slots {
		if slot.Weekday < 0 || slot.Weekday > 6 {
			return httperr.ErrBusiness("invalid_weekday")
		}
		if _, err := time.Parse("15:04", slot.StartTime); err != nil {
			return httperr.ErrBusiness("invalid_time")
		}
		if _, err := time.Parse("15:04", slot.EndTime); err != nil {
			return httperr.ErrBusiness("invalid_time")
		}
	}

	if err := s.repo.ReplaceSlots(ctx, vetID, slots); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, scheduleCacheKey(vetID)); err != nil {
		log.Println("availability cache invalidation failed:", err)
	}
	return nil
}

// --------------------------------------------------
// Holidays
// --------------------------------------------------

func (s *Service) ListHolidays(
	ctx context.Context,
	vetID uint,
) ([]models.Holiday, error) {
	return s.repo.ListHolidays(ctx, vetID)
}

func (s *Service) AddHoliday(
	ctx context.Context,
	h *models.Holiday,
) error {

	if h.EndDate.Before(h.StartDate) {
		return httperr.ErrBusiness("invalid_date_range")
	}
	return s.repo.CreateHoliday(ctx, h)
}

func (s *Service) RemoveHoliday(
	ctx context.Context,
	vetID uint,
	holidayID uint,
) (bool, error) {
	return s.repo.DeleteHoliday(ctx, vetID, holidayID)
}
