package models

import (
	"time"
)

// Category groups articles in the feed
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// AllCategories is the feed sentinel that disables category filtering
const AllCategories = "all"

// DefaultCategories is seeded when the categories table is empty
var DefaultCategories = []Category{
	{Name: "정치", Color: "#ef4444", SortOrder: 1},
	{Name: "경제", Color: "#f59e0b", SortOrder: 2},
	{Name: "사회", Color: "#10b981", SortOrder: 3},
	{Name: "생활/문화", Color: "#8b5cf6", SortOrder: 4},
	{Name: "IT/과학", Color: "#3b82f6", SortOrder: 5},
	{Name: "세계", Color: "#06b6d4", SortOrder: 6},
	{Name: "연예", Color: "#ec4899", SortOrder: 7},
	{Name: "스포츠", Color: "#84cc16", SortOrder: 8},
}

// CategoryInput is the admin create/update payload
type CategoryInput struct {
	Name      string `json:"name" validate:"required,max=50"`
	Color     string `json:"color" validate:"required,hexcolor"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}
