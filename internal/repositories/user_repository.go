package repositories

import (
	"errors"

	"github.com/scribely/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	UpsertUserByEmail(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db       *gorm.DB
	cascades []EntityCascade
}

// NewPostgresUserRepository creates a new PostgresUserRepository. The cascades
// run inside the deletion transaction and clean up records referencing a
// deleted user or their posts.
func NewPostgresUserRepository(db *gorm.DB, cascades ...EntityCascade) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, cascades: cascades}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	err := r.db.Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// UpsertUserByEmail creates the user or, when a user with the same email
// already exists, updates that user's name and password in place. Used by the
// import command.
func (r *PostgresUserRepository) UpsertUserByEmail(user *models.User) error {
	var existing models.User
	err := r.db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		existing.Name = user.Name
		if user.Password != "" {
			existing.Password = user.Password
		}
		if err := r.db.Save(&existing).Error; err != nil {
			return err
		}
		*user = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users
func (r *PostgresUserRepository) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	err := r.db.Save(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// DeleteUser deletes a user and, in the same transaction, their posts and
// every dependent record: favorites they made, favorites targeting them or
// their posts, and their notifications. Any failure rolls the whole deletion
// back.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		for _, postID := range postIDs {
			for _, c := range r.cascades {
				if err := c.DeleteForEntity(tx, models.FavoritablePost, postID); err != nil {
					return err
				}
			}
		}
		if len(postIDs) > 0 {
			if err := tx.Delete(&models.Post{}, postIDs).Error; err != nil {
				return err
			}
		}

		for _, c := range r.cascades {
			if err := c.DeleteForEntity(tx, models.FavoritableUser, id); err != nil {
				return err
			}
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// SearchUsers searches for users by name or email
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	// Search by name or email (case-insensitive)
	if err := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
