package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	db  *gorm.DB
	svc *availability.Service
}

func NewAvailabilityHandler(db *gorm.DB, svc *availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, svc: svc}
}

// ======================================================
// REQUESTS
// ======================================================

type WeeklyScheduleRequest struct {
	Slots []WeeklySlotRequest `json:"slots" binding:"required"`
}

type WeeklySlotRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type HolidayRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// ======================================================
// WEEKLY SCHEDULE
// ======================================================

func (h *AvailabilityHandler) GetWeeklySchedule(c *gin.Context) {
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	schedule, err := h.svc.WeeklySchedule(c.Request.Context(), vetID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_schedule", "Failed to load schedule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (h *AvailabilityHandler) PutWeeklySchedule(c *gin.Context) {
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	var req WeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slots := make([]models.AvailabilitySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, models.AvailabilitySlot{
			VetID:     vetID,
			Weekday:   s.Weekday,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	if err := h.svc.SetWeeklySchedule(c.Request.Context(), vetID, slots); err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_weekday"):
			httperr.BadRequest(c, "invalid_weekday", "Weekday must be between 0 (Sunday) and 6 (Saturday).")
		case httperr.IsBusiness(err, "invalid_time"):
			httperr.BadRequest(c, "invalid_time", "Times must use the HH:MM format.")
		default:
			httperr.Internal(c, "failed_to_save_schedule", "Failed to save schedule.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// AVAILABILITY CHECK
// ======================================================

// CheckAvailability answers whether a given vet is marked available at a
// point in time. Query params: vet_id, date (2006-01-02), time (15:04).
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	vetID, err := strconv.ParseUint(c.Query("vet_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_vet_id", "Invalid vet id.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clinic not found.")
		return
	}

	date, err := parseDateInClinic(&clinic, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	hhmm := c.Query("time")

	holiday, err := h.svc.IsHoliday(c.Request.Context(), uint(vetID), date)
	if err != nil {
		httperr.Internal(c, "failed_to_check_availability", "Failed to check availability.")
		return
	}

	available := false
	if !holiday {
		available, err = h.svc.IsVetAvailableAt(c.Request.Context(), uint(vetID), date.Weekday(), hhmm)
		if err != nil {
			if httperr.IsBusiness(err, "invalid_time") {
				httperr.BadRequest(c, "invalid_time", "Time must use the HH:MM format.")
				return
			}
			httperr.Internal(c, "failed_to_check_availability", "Failed to check availability.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"vet_id":    vetID,
		"date":      date.Format("2006-01-02"),
		"holiday":   holiday,
		"available": available,
	})
}

// ======================================================
// HOLIDAYS
// ======================================================

func (h *AvailabilityHandler) ListHolidays(c *gin.Context) {
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	holidays, err := h.svc.ListHolidays(c.Request.Context(), vetID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_holidays", "Failed to list holidays.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

func (h *AvailabilityHandler) CreateHoliday(c *gin.Context) {
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err1 := time.Parse("2006-01-02", req.StartDate)
	end, err2 := time.Parse("2006-01-02", req.EndDate)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "Dates must use the YYYY-MM-DD format.")
		return
	}

	holiday := models.Holiday{
		VetID:     vetID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}

	if err := h.svc.AddHoliday(c.Request.Context(), &holiday); err != nil {
		if httperr.IsBusiness(err, "invalid_date_range") {
			httperr.BadRequest(c, "invalid_date_range", "End date must not be before start date.")
			return
		}
		httperr.Internal(c, "failed_to_create_holiday", "Failed to create holiday.")
		return
	}

	c.JSON(http.StatusCreated, holiday)
}

func (h *AvailabilityHandler) DeleteHoliday(c *gin.Context) {
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.RemoveHoliday(c.Request.Context(), vetID, id)
	if err != nil {
		httperr.Internal(c, "failed_to_delete_holiday", "Failed to delete holiday.")
		return
	}
	if !deleted {
		httperr.NotFound(c, "holiday_not_found", "Holiday not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
