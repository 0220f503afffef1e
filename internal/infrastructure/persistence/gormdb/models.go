package gormdb

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel maps the users table.
type UserModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:50;not null"`
	Email     string `gorm:"uniqueIndex;size:100;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	Avatar    string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BookModel maps the books table.
type BookModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Title         string    `gorm:"index:idx_search;size:200;not null"`
	Author        string    `gorm:"index:idx_search;size:100;not null"`
	Description   string    `gorm:"type:text"`
	CoverImage    string    `gorm:"size:500"`
	Genre         string    `gorm:"index;size:50"`
	Year          int       `gorm:"column:published_year"`
	CreatedBy     string    `gorm:"index;size:36;not null"`
	AverageRating float64   `gorm:"not null;default:0"`
	ReviewCount   int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string {
	return "books"
}

func (m *BookModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ReviewModel maps the reviews table.
type ReviewModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	BookID    string    `gorm:"index:idx_book_created,priority:1;size:36;not null"`
	UserID    string    `gorm:"index;size:36;not null"`
	UserName  string    `gorm:"size:50"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_book_created,priority:2"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

func (m *ReviewModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
