package services

import (
	"errors"

	"feedapi/models"

	"gorm.io/gorm"
)

// PostStore is the document store adapter for posts and users. It does
// no cross-entity consistency work; sequencing side effects across
// entities belongs to FeedService.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// FindPosts returns one page of posts, newest first, plus the total
// number of posts across all pages.
func (s *PostStore) FindPosts(skip, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := s.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := s.db.Preload("User").
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (s *PostStore) FindPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) FindPostByIDWithCreator(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) InsertPost(post *models.Post) error {
	return s.db.Create(post).Error
}

func (s *PostStore) ReplacePost(post *models.Post) error {
	return s.db.Save(post).Error
}

func (s *PostStore) DeletePostByID(id uint) error {
	result := s.db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostStore) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostStore) SaveUser(user *models.User) error {
	return s.db.Save(user).Error
}

// AppendUserPost records the post in the user's post set.
func (s *PostStore) AppendUserPost(user *models.User, post *models.Post) error {
	return s.db.Model(user).Association("Posts").Append(post)
}

// RemoveUserPost drops the post from the user's post set.
func (s *PostStore) RemoveUserPost(user *models.User, post *models.Post) error {
	return s.db.Model(user).Association("Posts").Delete(post)
}
