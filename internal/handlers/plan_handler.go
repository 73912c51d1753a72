package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	"github.com/MedVetSolutions/vet-scheduler/internal/billing"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/usecase/plan"
)

// ======================================================
// HANDLER
// ======================================================

type PlanHandler struct {
	svc    *plan.Service
	stripe *billing.StripeService
	audit  *audit.Dispatcher
}

func NewPlanHandler(svc *plan.Service, stripe *billing.StripeService, auditor *audit.Dispatcher) *PlanHandler {
	return &PlanHandler{svc: svc, stripe: stripe, audit: auditor}
}

// auditPlan records an admin plan change under the acting user's clinic.
func (h *PlanHandler) auditPlan(c *gin.Context, action string, planID uint) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ClinicID: c.MustGet(middleware.ContextClinicID).(uint),
		UserID:   &userID,
		Action:   action,
		Entity:   "subscription_plan",
		EntityID: &planID,
	})
}

// ======================================================
// REQUESTS
// ======================================================

type PlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	NameI18n        map[string]string `json:"name_i18n"`
	DescriptionI18n map[string]string `json:"description_i18n"`

	Price       float64  `json:"price"`
	YearlyPrice *float64 `json:"yearly_price"`

	UserLimit        *int `json:"user_limit"`
	PetLimit         *int `json:"pet_limit"`
	AppointmentLimit *int `json:"appointment_limit"`

	IsActive  bool `json:"is_active"`
	IsPopular bool `json:"is_popular"`
	SortOrder int  `json:"sort_order"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CheckoutRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
	Yearly bool `json:"yearly"`
}

func (req *PlanRequest) apply(p *models.SubscriptionPlan) {
	p.Name = req.Name
	p.Description = req.Description
	p.NameI18n = req.NameI18n
	p.DescriptionI18n = req.DescriptionI18n
	p.Price = req.Price
	p.YearlyPrice = req.YearlyPrice
	p.UserLimit = req.UserLimit
	p.PetLimit = req.PetLimit
	p.AppointmentLimit = req.AppointmentLimit
	p.IsActive = req.IsActive
	p.IsPopular = req.IsPopular
	p.SortOrder = req.SortOrder
}

// ======================================================
// PUBLIC LISTING
// ======================================================

func (h *PlanHandler) ListActive(c *gin.Context) {
	plans, err := h.svc.List(c.Request.Context(), true)
	if err != nil {
		httperr.Internal(c, "failed_to_list_plans", "Failed to list plans.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// ======================================================
// ADMIN CRUD
// ======================================================

func (h *PlanHandler) ListAll(c *gin.Context) {
	plans, err := h.svc.List(c.Request.Context(), false)
	if err != nil {
		httperr.Internal(c, "failed_to_list_plans", "Failed to list plans.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, "failed_to_load_plan", "Failed to load plan.")
		return
	}
	if p == nil {
		httperr.NotFound(c, "plan_not_found", "Plan not found.")
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var p models.SubscriptionPlan
	req.apply(&p)

	if err := h.svc.Create(c.Request.Context(), &p); err != nil {
		mapPlanErrors(c, err)
		return
	}

	h.auditPlan(c, "plan_created", p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, "failed_to_load_plan", "Failed to load plan.")
		return
	}
	if p == nil {
		httperr.NotFound(c, "plan_not_found", "Plan not found.")
		return
	}

	req.apply(p)

	if err := h.svc.Update(c.Request.Context(), p); err != nil {
		mapPlanErrors(c, err)
		return
	}

	h.auditPlan(c, "plan_updated", p.ID)
	c.JSON(http.StatusOK, p)
}

func (h *PlanHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p, err := h.svc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		mapPlanErrors(c, err)
		return
	}
	if p == nil {
		httperr.NotFound(c, "plan_not_found", "Plan not found.")
		return
	}

	action := "plan_deactivated"
	if p.IsActive {
		action = "plan_activated"
	}
	h.auditPlan(c, action, p.ID)

	c.JSON(http.StatusOK, p)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, "failed_to_delete_plan", "Failed to delete plan.")
		return
	}
	if !deleted {
		httperr.NotFound(c, "plan_not_found", "Plan not found.")
		return
	}

	h.auditPlan(c, "plan_deleted", id)
	c.Status(http.StatusNoContent)
}

// ======================================================
// CHECKOUT
// ======================================================

func (h *PlanHandler) Checkout(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	if h.stripe == nil {
		httperr.Internal(c, "billing_unavailable", "Billing is not configured.")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p, err := h.svc.Get(c.Request.Context(), req.PlanID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_plan", "Failed to load plan.")
		return
	}
	if p == nil || !p.IsActive {
		httperr.NotFound(c, "plan_not_found", "Plan not found.")
		return
	}

	url, err := h.stripe.CreateCheckoutSession(clinicID, p, req.Yearly)
	if err != nil {
		if httperr.IsBusiness(err, "yearly_billing_unavailable") {
			httperr.BadRequest(c, "yearly_billing_unavailable", "This plan has no yearly price.")
			return
		}
		httperr.Internal(c, "failed_to_create_checkout", "Failed to create checkout session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

// ======================================================
// HELPERS
// ======================================================

func mapPlanErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "missing_name"):
		httperr.BadRequest(c, "missing_name", "Plan name is required.")
	case httperr.IsBusiness(err, "invalid_price"):
		httperr.BadRequest(c, "invalid_price", "Prices must not be negative.")
	case httperr.IsBusiness(err, "yearly_price_too_low"):
		httperr.BadRequest(c, "yearly_price_too_low", "Yearly price must be higher than the monthly price.")
	case httperr.IsBusiness(err, "invalid_limit"):
		httperr.BadRequest(c, "invalid_limit", "Limits must not be negative.")
	case httperr.IsBusiness(err, "active_plan_limit"):
		httperr.BadRequest(c, "active_plan_limit", "At most 3 plans can be active at the same time.")
	default:
		httperr.Internal(c, "failed_to_save_plan", "Failed to save plan.")
	}
}
