package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"feedapi/config"
	"feedapi/models"
	"feedapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeedController struct {
	feedService *services.FeedService
}

func NewFeedController(db *gorm.DB, cfg *config.Config, images *services.ImageStore, hubService *services.HubService) *FeedController {
	return &FeedController{
		feedService: services.NewFeedService(db, images, hubService, cfg.PageSize),
	}
}

func (fc *FeedController) getUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	if id, ok := userID.(uint); ok {
		return id, true
	}
	return 0, false
}

// GetPosts returns one page of the feed, newest posts first.
func (fc *FeedController) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, totalItems, err := fc.feedService.GetPosts(page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Fetched posts successfully.",
		"posts":      posts,
		"totalItems": totalItems,
	})
}

func (fc *FeedController) GetPost(c *gin.Context) {
	id, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := fc.feedService.GetPost(id)
	if err != nil {
		fc.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post fetched.", "post": post})
}

// CreatePost creates a post from a multipart form carrying title,
// content and an image file.
func (fc *FeedController) CreatePost(c *gin.Context) {
	userID, exists := fc.getUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ErrValidation.Error()})
		return
	}

	imageData, imageName, err := readImageFile(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ErrMissingImage.Error()})
		return
	}

	post, creator, err := fc.feedService.CreatePost(userID, &req, imageData, imageName)
	if err != nil {
		fc.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully!",
		"post":    post,
		"creator": creator,
	})
}

// UpdatePost replaces title, content and image of a post owned by the
// caller. The image comes either as a new upload or as the existing
// reference in the image form field.
func (fc *FeedController) UpdatePost(c *gin.Context) {
	userID, exists := fc.getUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ErrValidation.Error()})
		return
	}

	imageData, imageName, _ := readImageFile(c)

	post, err := fc.feedService.UpdatePost(userID, id, &req, imageData, imageName)
	if err != nil {
		fc.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated.", "post": post})
}

func (fc *FeedController) DeletePost(c *gin.Context) {
	userID, exists := fc.getUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	if err := fc.feedService.DeletePost(userID, id); err != nil {
		fc.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted post."})
}

// handleServiceError maps pipeline errors to HTTP statuses in one
// place; everything unrecognized is an internal failure.
func (fc *FeedController) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMissingImage), errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parsePostID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func readImageFile(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, "", err
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, fileHeader.Filename, nil
}
