package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	page := pageFromQuery(c)

	q := h.db.WithContext(c.Request.Context()).
		Where("clinic_id = ?", clinicID).
		Order("created_at desc").
		Offset(page.Offset()).
		Limit(page.PerPage())

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Failed to list audit logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
