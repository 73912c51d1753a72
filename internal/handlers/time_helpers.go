package handlers

import (
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/timezone"
)

// All date/time input is interpreted in the clinic's timezone.

func locationFromClinic(clinic *models.Clinic) *time.Location {
	if clinic != nil {
		return timezone.Location(clinic.Timezone)
	}
	return timezone.Location("")
}

func parseDateInClinic(clinic *models.Clinic, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromClinic(clinic),
	)
}

func parseDateTimeInClinic(
	clinic *models.Clinic,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromClinic(clinic),
	)
}
