package services

import (
	"fmt"
	"log"

	"feedapi/models"

	"gorm.io/gorm"
)

// FeedService is the post mutation pipeline. It sequences the store,
// the image store and the broadcaster for every mutation; steps within
// one mutation are strictly sequential. Failures after the post row is
// written (user post-list update, image cleanup, broadcast) degrade
// consistency but never fail the mutation.
type FeedService struct {
	store    *PostStore
	images   *ImageStore
	hub      *HubService
	pageSize int
}

func NewFeedService(db *gorm.DB, images *ImageStore, hub *HubService, pageSize int) *FeedService {
	return &FeedService{
		store:    NewPostStore(db),
		images:   images,
		hub:      hub,
		pageSize: pageSize,
	}
}

// GetPosts returns one page of posts, newest first, with the total
// post count. Pages below 1 are clamped to the first page.
func (s *FeedService) GetPosts(page int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	skip := (page - 1) * s.pageSize
	return s.store.FindPosts(skip, s.pageSize)
}

func (s *FeedService) GetPost(id uint) (*models.Post, error) {
	return s.store.FindPostByID(id)
}

// CreatePost persists a new post for userID and returns it with a
// creator summary. The image must already be uploaded as raw bytes;
// without one nothing is persisted.
func (s *FeedService) CreatePost(userID uint, req *models.CreatePostRequest, imageData []byte, imageName string) (*models.Post, *models.CreatorSummary, error) {
	if len(imageData) == 0 {
		return nil, nil, ErrMissingImage
	}

	imageRef, err := s.images.Store(imageData, imageName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store image: %w", err)
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: imageRef,
		UserID:   userID,
	}

	if err := s.store.InsertPost(post); err != nil {
		s.images.Delete(imageRef)
		return nil, nil, err
	}

	creator := &models.CreatorSummary{ID: userID}

	// The post is committed from here on. A failing user-list update
	// leaves the post without a back-reference; that is logged, not
	// rolled back.
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		log.Printf("Failed to load user %d after creating post %d: %v", userID, post.ID, err)
	} else {
		creator.Name = user.Name
		if err := s.store.AppendUserPost(user, post); err != nil {
			log.Printf("Failed to record post %d on user %d: %v", post.ID, userID, err)
		}
	}

	s.hub.BroadcastPostEvent("create", models.PostWithCreator{Post: *post, Creator: *creator})

	return post, creator, nil
}

// UpdatePost applies title, content and image changes to a post owned
// by userID. A replaced image's old file is deleted before the new
// state is persisted; the old asset is abandoned the moment the new
// reference is accepted.
func (s *FeedService) UpdatePost(userID, id uint, req *models.UpdatePostRequest, imageData []byte, imageName string) (*models.Post, error) {
	if len(imageData) == 0 && req.Image == "" {
		return nil, ErrMissingImage
	}

	post, err := s.store.FindPostByIDWithCreator(id)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, ErrForbidden
	}

	imageRef := req.Image
	if len(imageData) > 0 {
		imageRef, err = s.images.Store(imageData, imageName)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
	}

	if imageRef != post.ImageURL {
		s.images.Delete(post.ImageURL)
	}

	post.Title = req.Title
	post.Content = req.Content
	post.ImageURL = imageRef

	if err := s.store.ReplacePost(post); err != nil {
		return nil, err
	}

	s.hub.BroadcastPostEvent("update", post)

	return post, nil
}

// DeletePost removes a post owned by userID, its image file and its
// entry in the owner's post set. Image deletion is best effort and the
// user-list update never aborts an already-approved delete.
func (s *FeedService) DeletePost(userID, id uint) error {
	post, err := s.store.FindPostByID(id)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return ErrForbidden
	}

	s.images.Delete(post.ImageURL)

	if err := s.store.DeletePostByID(id); err != nil {
		return err
	}

	user, err := s.store.FindUserByID(userID)
	if err != nil {
		log.Printf("Failed to load user %d after deleting post %d: %v", userID, id, err)
	} else if err := s.store.RemoveUserPost(user, post); err != nil {
		log.Printf("Failed to remove post %d from user %d: %v", id, userID, err)
	}

	s.hub.BroadcastPostEvent("delete", id)

	return nil
}
