package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentListDTO struct {
	ID         uint      `json:"id"`
	UUID       uuid.UUID `json:"uuid"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Type       string    `json:"type"`
	ClientName string    `json:"client_name"`
	PetName    string    `json:"pet_name"`
	IsRemote   bool      `json:"is_remote"`
}
