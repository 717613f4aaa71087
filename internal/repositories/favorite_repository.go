package repositories

import (
	"github.com/scribely/backend/internal/models"
	"gorm.io/gorm"
)

// FavoriteRepository owns the favorite records and their invariants: at most
// one favorite per (user, target) pair, no self-favoriting, and cascade
// removal when either side of the relation is deleted.
type FavoriteRepository interface {
	Favorite(userID uint, target models.FavoritableRef) (*models.Favorite, error)
	Unfavorite(userID uint, target models.FavoritableRef) error
	HasFavorited(userID uint, target models.FavoritableRef) (bool, error)
	ListFavoritesOf(userID uint) (*models.FavoriteListing, error)
	ListFavoritersOf(authorID uint) ([]uint, error)
	DeleteForEntity(tx *gorm.DB, kind models.FavoritableKind, id uint) error
}

// PostgresFavoriteRepository implements FavoriteRepository on gorm
type PostgresFavoriteRepository struct {
	db      *gorm.DB
	checker EntityChecker
}

// NewPostgresFavoriteRepository creates a new PostgresFavoriteRepository
func NewPostgresFavoriteRepository(db *gorm.DB, checker EntityChecker) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db, checker: checker}
}

// Favorite records that userID favorited the target. The operation is
// idempotent: favoriting an already-favorited target returns the existing
// record unchanged. A duplicate-key conflict from a concurrent attempt on the
// same pair is resolved the same way, never surfaced to the caller.
func (r *PostgresFavoriteRepository) Favorite(userID uint, target models.FavoritableRef) (*models.Favorite, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if target.Kind == models.FavoritableUser && target.ID == userID {
		return nil, ErrSelfFavorite
	}

	exists, err := r.checker.EntityExists(target.Kind, target.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	fav := models.Favorite{
		UserID:          userID,
		FavoritableKind: target.Kind,
		FavoritableID:   target.ID,
	}
	err = r.db.Where(
		"user_id = ? AND favoritable_kind = ? AND favoritable_id = ?",
		userID, target.Kind, target.ID,
	).FirstOrCreate(&fav).Error
	if err != nil {
		// A concurrent create on the same pair can hit the unique index
		// between the lookup and the insert. The row is there now, so the
		// idempotent contract holds: fetch and return it.
		var existing models.Favorite
		lookupErr := r.db.Where(
			"user_id = ? AND favoritable_kind = ? AND favoritable_id = ?",
			userID, target.Kind, target.ID,
		).First(&existing).Error
		if lookupErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &fav, nil
}

// Unfavorite removes the favorite for (userID, target). It fails with
// ErrFavoriteNotFound when there is nothing to remove, so callers can
// distinguish that from success.
func (r *PostgresFavoriteRepository) Unfavorite(userID uint, target models.FavoritableRef) error {
	if err := target.Validate(); err != nil {
		return err
	}
	res := r.db.Where(
		"user_id = ? AND favoritable_kind = ? AND favoritable_id = ?",
		userID, target.Kind, target.ID,
	).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// HasFavorited checks whether userID currently has a favorite on the target
func (r *PostgresFavoriteRepository) HasFavorited(userID uint, target models.FavoritableRef) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).Where(
		"user_id = ? AND favoritable_kind = ? AND favoritable_id = ?",
		userID, target.Kind, target.ID,
	).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFavoritesOf returns the user's favorites partitioned by target kind,
// each resolved to the underlying entity, in favorite-creation order. Targets
// that no longer resolve are skipped.
func (r *PostgresFavoriteRepository) ListFavoritesOf(userID uint) (*models.FavoriteListing, error) {
	var favorites []models.Favorite
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&favorites).Error; err != nil {
		return nil, err
	}

	var postIDs, userIDs []uint
	for _, f := range favorites {
		switch f.FavoritableKind {
		case models.FavoritablePost:
			postIDs = append(postIDs, f.FavoritableID)
		case models.FavoritableUser:
			userIDs = append(userIDs, f.FavoritableID)
		}
	}

	postsByID := make(map[uint]models.Post, len(postIDs))
	if len(postIDs) > 0 {
		var posts []models.Post
		if err := r.db.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
			return nil, err
		}
		for _, p := range posts {
			postsByID[p.ID] = p
		}
	}

	usersByID := make(map[uint]models.User, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		if err := r.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	listing := &models.FavoriteListing{
		Posts: []models.Post{},
		Users: []models.UserCompact{},
	}
	for _, f := range favorites {
		switch f.FavoritableKind {
		case models.FavoritablePost:
			if p, ok := postsByID[f.FavoritableID]; ok {
				listing.Posts = append(listing.Posts, p)
			}
		case models.FavoritableUser:
			if u, ok := usersByID[f.FavoritableID]; ok {
				listing.Users = append(listing.Users, u.ToCompact())
			}
		}
	}
	return listing, nil
}

// ListFavoritersOf returns the ids of every user with a live favorite on the
// author, in favorite-creation order. Used by the notification dispatcher.
func (r *PostgresFavoriteRepository) ListFavoritersOf(authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Favorite{}).
		Where("favoritable_kind = ? AND favoritable_id = ?", models.FavoritableUser, authorID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteForEntity removes every favorite referencing the deleted entity: all
// favorites targeting it and, for a deleted user, all favorites they owned.
// Runs on the caller's transaction so the cascade commits with the deletion.
func (r *PostgresFavoriteRepository) DeleteForEntity(tx *gorm.DB, kind models.FavoritableKind, id uint) error {
	if err := tx.Where("favoritable_kind = ? AND favoritable_id = ?", kind, id).
		Delete(&models.Favorite{}).Error; err != nil {
		return err
	}
	if kind == models.FavoritableUser {
		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
	}
	return nil
}
