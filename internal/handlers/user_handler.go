package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/gate"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type CreateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

type UpdateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

func (h *UserHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var users []models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("clinic_id = ?", clinicID).
		Order("name asc").
		Find(&users).Error
	if err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = "vet"
	}
	if !gate.KnownRole(role) {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&existing).Error
	if err == nil {
		httperr.BadRequest(c, "email_taken", "Email is already in use.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Internal(c, "failed_to_create_user", "Failed to create user.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_create_user", "Failed to create user.")
		return
	}

	user := models.User{
		ClinicID:     clinicID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         role,
		Specialty:    req.Specialty,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Failed to create user.")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_user", "Failed to load user.")
		return
	}

	if req.Role != "" {
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if !gate.KnownRole(role) {
			httperr.BadRequest(c, "invalid_role", "Unknown role.")
			return
		}
		user.Role = role
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Specialty = req.Specialty

	if err := h.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update user.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if id == callerID {
		httperr.Forbidden(c, "cannot_delete_self", "You cannot delete your own account.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		Delete(&models.User{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_user", "Failed to delete user.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
