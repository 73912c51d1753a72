package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type PetHandler struct {
	db *gorm.DB
}

func NewPetHandler(db *gorm.DB) *PetHandler {
	return &PetHandler{db: db}
}

type PetRequest struct {
	ClientID  uint    `json:"client_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	BirthDate *string `json:"birth_date"`
	Weight    float64 `json:"weight"`
	Notes     string  `json:"notes"`
}

func (req *PetRequest) birthDate() (*time.Time, error) {
	if req.BirthDate == nil || *req.BirthDate == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *req.BirthDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *PetHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	page := pageFromQuery(c)

	q := h.db.WithContext(c.Request.Context()).
		Preload("Client").
		Where("clinic_id = ?", clinicID).
		Order("name asc").
		Offset(page.Offset()).
		Limit(page.PerPage())

	if clientID := c.Query("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var pets []models.Pet
	if err := q.Find(&pets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_pets", "Failed to list pets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

func (h *PetHandler) Get(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var pet models.Pet
	err := h.db.WithContext(c.Request.Context()).
		Preload("Client").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "pet_not_found", "Pet not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_pet", "Failed to load pet.")
		return
	}

	c.JSON(http.StatusOK, pet)
}

func (h *PetHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	birth, err := req.birthDate()
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Birth date must use the YYYY-MM-DD format.")
		return
	}

	var owner models.Client
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", req.ClientID, clinicID).
		First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.BadRequest(c, "client_not_found", "Client not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_create_pet", "Failed to create pet.")
		return
	}

	pet := models.Pet{
		ClinicID:  clinicID,
		ClientID:  req.ClientID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: birth,
		Weight:    req.Weight,
		Notes:     req.Notes,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&pet).Error; err != nil {
		httperr.Internal(c, "failed_to_create_pet", "Failed to create pet.")
		return
	}

	c.JSON(http.StatusCreated, pet)
}

func (h *PetHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	birth, err := req.birthDate()
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Birth date must use the YYYY-MM-DD format.")
		return
	}

	var pet models.Pet
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "pet_not_found", "Pet not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_pet", "Failed to load pet.")
		return
	}

	pet.ClientID = req.ClientID
	pet.Name = req.Name
	pet.Species = req.Species
	pet.Breed = req.Breed
	pet.BirthDate = birth
	pet.Weight = req.Weight
	pet.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(&pet).Error; err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Failed to update pet.")
		return
	}

	c.JSON(http.StatusOK, pet)
}

func (h *PetHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		Delete(&models.Pet{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_pet", "Failed to delete pet.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "pet_not_found", "Pet not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
