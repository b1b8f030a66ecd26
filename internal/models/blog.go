package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogCategory struct {
	gorm.Model
	Name string `json:"name"`
	Slug string `gorm:"uniqueIndex" json:"slug"`
}

type BlogPost struct {
	gorm.Model
	Title         string       `json:"title"`
	Slug          string       `gorm:"uniqueIndex" json:"slug"`
	Content       string       `json:"content"`
	FeaturedImage string       `json:"featured_image"`
	CategoryID    *uint        `json:"category_id"`
	Category      *BlogCategory `json:"category"`
	AuthorID      uint         `json:"author_id"`
	Author        User         `json:"author"`
	Published     bool         `json:"published"`
	PublishedAt   time.Time    `json:"published_at"`
}
