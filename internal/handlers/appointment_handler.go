package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/httpresp"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	ucAppointment "github.com/MedVetSolutions/vet-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC     *ucAppointment.CreateAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
	transitionUC *ucAppointment.TransitionAppointment
	deleteUC     *ucAppointment.DeleteAppointment
	listUC       *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	transitionUC *ucAppointment.TransitionAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		transitionUC: transitionUC,
		deleteUC:     deleteUC,
		listUC:       listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	VetID    uint  `json:"vet_id" binding:"required"`
	ClientID uint  `json:"client_id" binding:"required"`
	PetID    *uint `json:"pet_id"`

	Type   string `json:"type"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`

	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end"`

	DurationMin int  `json:"duration_min"`
	IsRemote    bool `json:"is_remote"`
}

type UpdateAppointmentRequest struct {
	VetID *uint   `json:"vet_id,omitempty"`
	Date  *string `json:"date,omitempty"`
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`

	Type   *string `json:"type,omitempty"`
	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	PetID  *uint   `json:"pet_id,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClinicID:    clinicID,
		VetID:       req.VetID,
		ClientID:    req.ClientID,
		PetID:       req.PetID,
		Type:        req.Type,
		Reason:      req.Reason,
		Notes:       req.Notes,
		Date:        req.Date,
		Start:       req.Start,
		End:         req.End,
		DurationMin: req.DurationMin,
		IsRemote:    req.IsRemote,
	})

	if err != nil {
		mapSchedulingErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// UPDATE (RESCHEDULE / PATCH)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	patch := ucAppointment.UpdatePatch{
		VetID:  req.VetID,
		Type:   req.Type,
		Reason: req.Reason,
		Notes:  req.Notes,
		PetID:  req.PetID,
	}

	if req.Date != nil || req.Start != nil || req.End != nil {
		if req.Date == nil || req.Start == nil || req.End == nil {
			httperr.BadRequest(c, "incomplete_window", "date, start and end must be provided together.")
			return
		}

		var clinic models.Clinic
		if err := h.db.First(&clinic, clinicID).Error; err != nil {
			httperr.Internal(c, "clinic_not_found", "Clinic not found.")
			return
		}

		start, err1 := parseDateTimeInClinic(&clinic, *req.Date, *req.Start)
		end, err2 := parseDateTimeInClinic(&clinic, *req.Date, *req.End)
		if err1 != nil || err2 != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}

		patch.StartTime = &start
		patch.EndTime = &end
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), clinicID, id, patch)
	if err != nil {
		mapSchedulingErrors(c, err)
		return
	}
	if ap == nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE (ADMIN)
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.deleteUC.Execute(c.Request.Context(), clinicID, id)
	if err != nil {
		httperr.Internal(c, "failed_to_delete_appointment", "Failed to delete appointment.")
		return
	}
	if !deleted {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.transitionUC.Confirm)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, h.transitionUC.Start)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.transitionUC.Complete)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.transitionUC.Cancel)
}

func (h *AppointmentHandler) FlagFollowUp(c *gin.Context) {
	h.transition(c, h.transitionUC.FlagFollowUp)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, clinicID, id uint) (*models.Appointment, error),
) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	ap, err := fn(c.Request.Context(), clinicID, id)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_state") {
			httperr.BadRequest(c, "invalid_state", "The appointment cannot change to that state.")
			return
		}
		httperr.Internal(c, "failed_to_update_appointment", "Failed to update appointment.")
		return
	}
	if ap == nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) ListByDay(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clinic not found.")
		return
	}

	date, err := parseDateInClinic(&clinic, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	items, err := h.listUC.ByVetDay(c.Request.Context(), clinicID, vetID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	vetID := c.MustGet(middleware.ContextUserID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	items, err := h.listUC.ByVetMonth(c.Request.Context(), clinicID, vetID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

func (h *AppointmentHandler) ListByClient(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid client id.")
		return
	}

	page := pageFromQuery(c)
	items, err := h.listUC.ByClient(c.Request.Context(), clinicID, uint(clientID), page)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) Search(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	page := pageFromQuery(c)
	items, err := h.listUC.Search(c.Request.Context(), clinicID, c.Query("query"), page)
	if err != nil {
		httperr.Internal(c, "failed_to_search_appointments", "Failed to search appointments.")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// HELPERS
// ======================================================

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func pageFromQuery(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	return domain.Page{
		Page:  page,
		Limit: limit,
		Desc:  c.Query("order") == "desc",
	}
}

func mapSchedulingErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "time_conflict"):
		httperr.Conflict(c, "time_conflict",
			"The selected time slot is not available for the chosen veterinary.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, "invalid_time_range"):
		httperr.BadRequest(c, "invalid_time_range", "End time must be after start time.")
	case httperr.IsBusiness(err, "vet_on_holiday"):
		httperr.BadRequest(c, "vet_on_holiday", "The veterinary is away on that date.")
	case httperr.IsBusiness(err, "outside_availability"):
		httperr.BadRequest(c, "outside_availability", "Outside the veterinary's working hours.")
	case httperr.IsBusiness(err, "clinic_not_found"):
		httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
	default:
		httperr.Internal(c, "failed_to_save_appointment", "Failed to save appointment.")
	}
}
