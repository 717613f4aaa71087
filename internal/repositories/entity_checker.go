package repositories

import (
	"github.com/scribely/backend/internal/models"
	"gorm.io/gorm"
)

// EntityChecker reports whether a favoritable entity currently exists. The
// favorite store consults it before accepting a target.
type EntityChecker interface {
	EntityExists(kind models.FavoritableKind, id uint) (bool, error)
}

// EntityCascade removes every dependent record referencing a deleted entity.
// Implementations run inside the deletion transaction, so a reader never
// observes a deleted entity with surviving dependents.
type EntityCascade interface {
	DeleteForEntity(tx *gorm.DB, kind models.FavoritableKind, id uint) error
}

// GormEntityChecker resolves entity existence against the relational store
type GormEntityChecker struct {
	db *gorm.DB
}

// NewGormEntityChecker creates a new GormEntityChecker
func NewGormEntityChecker(db *gorm.DB) *GormEntityChecker {
	return &GormEntityChecker{db: db}
}

// EntityExists checks whether the referenced post or user is present
func (c *GormEntityChecker) EntityExists(kind models.FavoritableKind, id uint) (bool, error) {
	var count int64
	var err error
	switch kind {
	case models.FavoritablePost:
		err = c.db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	case models.FavoritableUser:
		err = c.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
