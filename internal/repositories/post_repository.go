package repositories

import (
	"errors"

	"github.com/scribely/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByAuthorID(authorID uint) ([]models.Post, error)
	GetAllPosts() ([]models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db       *gorm.DB
	cascades []EntityCascade
}

// NewPostgresPostRepository creates a new PostgresPostRepository. The cascades
// run inside the deletion transaction and remove records referencing a
// deleted post.
func NewPostgresPostRepository(db *gorm.DB, cascades ...EntityCascade) *PostgresPostRepository {
	return &PostgresPostRepository{db: db, cascades: cascades}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthorID retrieves all posts written by a user, newest first
func (r *PostgresPostRepository) GetPostsByAuthorID(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAllPosts retrieves all posts, newest first
func (r *PostgresPostRepository) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost deletes a post and, in the same transaction, every favorite and
// notification referencing it. Any failure rolls the whole deletion back.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range r.cascades {
			if err := c.DeleteForEntity(tx, models.FavoritablePost, id); err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}
