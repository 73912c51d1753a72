package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/validators"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (h *ClientHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	page := pageFromQuery(c)

	q := h.db.WithContext(c.Request.Context()).
		Where("clinic_id = ?", clinicID).
		Order("name asc").
		Offset(page.Offset()).
		Limit(page.PerPage())

	if search := c.Query("query"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Failed to list clients.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *ClientHandler) Get(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var client models.Client
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_client", "Failed to load client.")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Email != "" && !validators.IsValidEmail(req.Email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email address.")
		return
	}

	client := models.Client{
		ClinicID: clinicID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Failed to create client.")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var client models.Client
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_client", "Failed to load client.")
		return
	}

	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = req.Email
	client.Address = req.Address

	if err := h.db.WithContext(c.Request.Context()).Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Failed to update client.")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		Delete(&models.Client{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_client", "Failed to delete client.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
