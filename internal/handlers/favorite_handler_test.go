package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scribely/backend/internal/events"
	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
	"github.com/scribely/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Favorite{},
		&models.Notification{},
	))
	return db
}

func newTestContext(t *testing.T, method, path, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
	}
	return c, rec
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: title, Body: "body"}
	require.NoError(t, db.Create(post).Error)
	return post
}

func newFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	repo := repositories.NewPostgresFavoriteRepository(db, repositories.NewGormEntityChecker(db))
	return NewFavoriteHandler(repo)
}

func TestFavoritePostEndpoint(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")
	author := seedUser(t, db, "jack")
	post := seedPost(t, db, author.ID, "Hello")

	c, rec := newTestContext(t, http.MethodPost, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))

	require.NoError(t, h.FavoritePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Favoriting again still reports created and stores nothing new
	c, rec = newTestContext(t, http.MethodPost, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.FavoritePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFavoritePostEndpointNotFound(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")

	c, _ := newTestContext(t, http.MethodPost, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues("12345")

	err := h.FavoritePost(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestFavoriteSelfEndpointRejected(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")

	c, _ := newTestContext(t, http.MethodPost, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(user.ID))

	err := h.FavoriteUser(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnfavoriteEndpointNotFound(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")
	author := seedUser(t, db, "jack")
	post := seedPost(t, db, author.ID, "Hello")

	c, _ := newTestContext(t, http.MethodDelete, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))

	err := h.UnfavoritePost(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUnfavoriteEndpoint(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")
	author := seedUser(t, db, "jack")

	c, rec := newTestContext(t, http.MethodPost, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(author.ID))
	require.NoError(t, h.FavoriteUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t, http.MethodDelete, "/", "", user.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(author.ID))
	require.NoError(t, h.UnfavoriteUser(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetFavoritesEndpointPartition(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	user := seedUser(t, db, "john")
	author := seedUser(t, db, "jack")
	post := seedPost(t, db, author.ID, "Hello")

	for _, target := range []struct {
		handler func(echo.Context) error
		id      uint
	}{
		{h.FavoritePost, post.ID},
		{h.FavoriteUser, author.ID},
	} {
		c, _ := newTestContext(t, http.MethodPost, "/", "", user.ID)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(target.id))
		require.NoError(t, target.handler(c))
	}

	c, rec := newTestContext(t, http.MethodGet, "/favorites", "", user.ID)
	require.NoError(t, h.GetFavorites(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.FavoriteListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Data.Posts, 1)
	assert.Equal(t, "Hello", body.Data.Posts[0].Title)
	require.Len(t, body.Data.Users, 1)
	assert.Equal(t, "jack", body.Data.Users[0].Name)
}

func TestFavoriteEndpointsRequireAuth(t *testing.T) {
	db := setupHandlerDB(t)
	h := newFavoriteHandler(db)

	c, _ := newTestContext(t, http.MethodPost, "/", "", 0)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.FavoritePost(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestCreatePostPublishesEvent(t *testing.T) {
	db := setupHandlerDB(t)

	checker := repositories.NewGormEntityChecker(db)
	favRepo := repositories.NewPostgresFavoriteRepository(db, checker)
	notifRepo := repositories.NewPostgresNotificationRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db, favRepo, notifRepo)

	bus := events.NewBus(4)
	h := NewPostHandler(postRepo, bus)

	author := seedUser(t, db, "jack")

	c, rec := newTestContext(t, http.MethodPost, "/posts", `{"title": "Hello", "body": "World"}`, author.ID)
	require.NoError(t, h.CreatePost(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case event := <-bus.Events():
		assert.Equal(t, author.ID, event.AuthorID)
		assert.NotZero(t, event.PostID)
		assert.NotEmpty(t, event.EventID)
	default:
		t.Fatal("expected a publication event on the bus")
	}
}
