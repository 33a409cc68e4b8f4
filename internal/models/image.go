package models

import "time"

// ImageCategories lists the categories offered when importing an image.
var ImageCategories = []string{
	"Radiographie Panoramique",
	"Radiographie Rétro-alvéolaire",
	"Scanner 3D",
	"Photo Intra-orale",
	"Photo Extra-orale",
	"Empreinte Numérique",
	"Autre",
}

// Image is a file attached to a patient. FilePath points inside the images
// folder of the data layout.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	PatientID   uint      `gorm:"index;not null" json:"patient_id"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	FilePath    string    `gorm:"size:1024;not null" json:"file_path"`
	Description string    `gorm:"type:text" json:"description,omitempty"`

	Format   string `gorm:"size:20" json:"format,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Modality string `gorm:"size:16" json:"modality,omitempty"`
}
