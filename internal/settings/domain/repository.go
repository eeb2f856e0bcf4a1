package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB) (*OrgProfile, error)
	FindForUpdate(ctx context.Context, db *gorm.DB) (*OrgProfile, error)
	Save(ctx context.Context, db *gorm.DB, profile *OrgProfile) error
}
