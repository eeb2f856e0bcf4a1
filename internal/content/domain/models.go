// Package domain contains the site content models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Known collections. The set is not closed; these are the ones the public
// site reads today.
const (
	CollectionSlides      = "slides"
	CollectionCauses      = "causes"
	CollectionNews        = "news"
	CollectionPages       = "pages"
	CollectionPartners    = "partners"
	CollectionImpactStats = "impact_stats"
)

// ContentRecord is a publishable record in a named collection. Body is
// opaque to the server; the shape is owned by whichever page renders the
// collection.
type ContentRecord struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Collection   string            `gorm:"type:text;not null;uniqueIndex:ux_content_collection_slug,priority:1" json:"collection"`
	Slug         string            `gorm:"type:text;not null;uniqueIndex:ux_content_collection_slug,priority:2" json:"slug"`
	Title        string            `gorm:"type:text;not null" json:"title"`
	Body         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"body"`
	Published    bool              `gorm:"not null;index" json:"published"`
	DisplayOrder int               `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (ContentRecord) TableName() string { return "content_records" }
