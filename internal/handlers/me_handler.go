package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/gate"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type MeHandler struct {
	db   *gorm.DB
	gate *gate.Gate
}

func NewMeHandler(db *gorm.DB, g *gate.Gate) *MeHandler {
	return &MeHandler{db: db, gate: g}
}

func (h *MeHandler) Profile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_profile", "Failed to load profile.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *MeHandler) Subscription(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var sub models.Subscription
	err := h.db.WithContext(c.Request.Context()).
		Preload("Plan").
		Preload("Plan.Features").
		Where("clinic_id = ? AND status = ?", clinicID, "active").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_subscription", "Failed to load subscription.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Entitlements reports, per gated action, whether the caller may perform it
// right now, with the denial reason when not. Frontends use this to grey
// out buttons instead of discovering a 403.
func (h *MeHandler) Entitlements(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		httperr.Internal(c, "failed_to_load_profile", "Failed to load profile.")
		return
	}

	actions := []gate.Action{
		gate.ActionCreateUser,
		gate.ActionCreatePet,
		gate.ActionCreateAppointment,
		gate.ActionAdvancedFeatures,
		gate.ActionExportData,
		gate.ActionAPIAccess,
		gate.ActionCustomBranding,
		gate.ActionPrioritySupport,
	}

	out := make(map[string]gin.H, len(actions))
	for _, action := range actions {
		allowed := h.gate.Allowed(c.Request.Context(), &user, action)
		entry := gin.H{"allowed": allowed}
		if !allowed {
			entry["reason"] = h.gate.RestrictionReason(c.Request.Context(), &user, action)
		}
		out[string(action)] = entry
	}

	c.JSON(http.StatusOK, gin.H{"entitlements": out})
}
