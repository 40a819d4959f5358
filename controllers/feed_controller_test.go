package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedapi/config"
	"feedapi/controllers"
	"feedapi/handlers"
	"feedapi/models"
	"feedapi/routes"
	"feedapi/services"
	"feedapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	cfg := &config.Config{PageSize: 2, ImageDir: t.TempDir()}

	images, err := services.NewImageStore(cfg.ImageDir)
	require.NoError(t, err)

	hub := services.NewHubService()
	t.Cleanup(hub.Shutdown)

	r := gin.New()
	routes.SetupRoutes(r,
		controllers.NewAuthController(db),
		controllers.NewFeedController(db, cfg, images, hub),
		handlers.NewWebSocketHandler(hub),
	)

	return &apiTestEnv{router: r, db: db}
}

func (env *apiTestEnv) createUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user := &models.User{Email: email, Name: name, Password: "hashed", Status: "I am new!"}
	require.NoError(t, env.db.Create(user).Error)

	token, err := utils.GenerateJWT(user.ID)
	require.NoError(t, err)
	return user, token
}

func postForm(t *testing.T, fields map[string]string, imageName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (env *apiTestEnv) do(method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *apiTestEnv) createPost(t *testing.T, token, title string) uint {
	t.Helper()

	body, contentType := postForm(t, map[string]string{
		"title":   title,
		"content": "content of " + title,
	}, "pic.png", []byte("png-bytes"))

	w := env.do(http.MethodPost, "/api/v1/feed/post", token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Post.ID
}

func TestFeedRequiresAuth(t *testing.T) {
	env := newAPITestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/feed/posts", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostEndpoint(t *testing.T) {
	t.Run("valid multipart create", func(t *testing.T) {
		env := newAPITestEnv(t)
		user, token := env.createUser(t, "Alice", "alice@example.com")

		body, contentType := postForm(t, map[string]string{
			"title":   "A fine title",
			"content": "Some content",
		}, "pic.png", []byte("png-bytes"))

		w := env.do(http.MethodPost, "/api/v1/feed/post", token, body, contentType)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Post    models.Post           `json:"post"`
			Creator models.CreatorSummary `json:"creator"`
			Message string                `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "A fine title", resp.Post.Title)
		assert.NotEmpty(t, resp.Post.ImageURL)
		assert.Equal(t, user.ID, resp.Creator.ID)
		assert.Equal(t, "Alice", resp.Creator.Name)
	})

	t.Run("missing image is 422", func(t *testing.T) {
		env := newAPITestEnv(t)
		_, token := env.createUser(t, "Alice", "alice@example.com")

		body, contentType := postForm(t, map[string]string{
			"title":   "A fine title",
			"content": "Some content",
		}, "", nil)

		w := env.do(http.MethodPost, "/api/v1/feed/post", token, body, contentType)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var count int64
		require.NoError(t, env.db.Model(&models.Post{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("short title is 422", func(t *testing.T) {
		env := newAPITestEnv(t)
		_, token := env.createUser(t, "Alice", "alice@example.com")

		body, contentType := postForm(t, map[string]string{
			"title":   "hey",
			"content": "Some content",
		}, "pic.png", []byte("png-bytes"))

		w := env.do(http.MethodPost, "/api/v1/feed/post", token, body, contentType)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetPostsEndpoint(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.createUser(t, "Alice", "alice@example.com")

	for i := 1; i <= 3; i++ {
		env.createPost(t, token, fmt.Sprintf("Post number %d", i))
	}

	w := env.do(http.MethodGet, "/api/v1/feed/posts?page=1", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts      []models.Post `json:"posts"`
		TotalItems int64         `json:"totalItems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp.TotalItems)
	assert.Len(t, resp.Posts, 2)
}

func TestUpdatePostEndpointForbidden(t *testing.T) {
	env := newAPITestEnv(t)
	_, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	_, otherToken := env.createUser(t, "Bob", "bob@example.com")

	postID := env.createPost(t, ownerToken, "Original title")

	body, contentType := postForm(t, map[string]string{
		"title":   "Hijacked title",
		"content": "New content",
		"image":   "whatever.png",
	}, "", nil)

	w := env.do(http.MethodPut, fmt.Sprintf("/api/v1/feed/post/%d", postID), otherToken, body, contentType)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeletePostEndpoint(t *testing.T) {
	env := newAPITestEnv(t)
	_, ownerToken := env.createUser(t, "Alice", "alice@example.com")
	_, otherToken := env.createUser(t, "Bob", "bob@example.com")

	postID := env.createPost(t, ownerToken, "Original title")

	t.Run("non-owner is 403 and post survives", func(t *testing.T) {
		w := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/feed/post/%d", postID), otherToken, nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/feed/post/%d", postID), ownerToken, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner delete then 404", func(t *testing.T) {
		w := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/feed/post/%d", postID), ownerToken, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/feed/post/%d", postID), ownerToken, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing post is 404", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/api/v1/feed/post/9999", ownerToken, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
