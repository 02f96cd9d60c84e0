package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryItem showcases a completed capstone project.
type GalleryItem struct {
	ID           uuid.UUID  `json:"id"`
	ProjectID    *uuid.UUID `json:"projectId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ClientName   *string    `json:"clientName,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	AcademicYear *string    `json:"academicYear,omitempty"`
	TeamMembers  []string   `json:"teamMembers"`
	IsFeatured   bool       `json:"isFeatured"`
	DisplayOrder int        `json:"displayOrder"`
	IsPublished  bool       `json:"isPublished"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// GalleryInput is the admin payload for creating or updating an item.
type GalleryInput struct {
	ProjectID    *uuid.UUID `json:"projectId,omitempty"`
	Title        string     `json:"title" validate:"omitempty,max=200"`
	Description  string     `json:"description" validate:"omitempty,max=10000"`
	ClientName   *string    `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ImageURL     *string    `json:"imageUrl,omitempty" validate:"omitempty,url,max=500"`
	AcademicYear *string    `json:"academicYear,omitempty" validate:"omitempty,max=20"`
	TeamMembers  []string   `json:"teamMembers" validate:"max=20,dive,required,max=120"`
	IsFeatured   bool       `json:"isFeatured"`
	DisplayOrder int        `json:"displayOrder" validate:"min=0"`
	IsPublished  *bool      `json:"isPublished,omitempty"`
}
