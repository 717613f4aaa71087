package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FavoriteHandler handles favorite/unfavorite HTTP requests for both target
// kinds: posts and authors
type FavoriteHandler struct {
	favoriteRepository repositories.FavoriteRepository
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteRepo repositories.FavoriteRepository) *FavoriteHandler {
	return &FavoriteHandler{favoriteRepository: favoriteRepo}
}

// RegisterFavoriteRoutes registers favorite-related routes
func (h *FavoriteHandler) RegisterFavoriteRoutes(g *echo.Group) {
	g.GET("/favorites", h.GetFavorites)
	g.POST("/posts/:id/favorite", h.FavoritePost)
	g.DELETE("/posts/:id/favorite", h.UnfavoritePost)
	g.GET("/posts/:id/favorite", h.GetPostFavoriteStatus)
	g.POST("/users/:id/favorite", h.FavoriteUser)
	g.DELETE("/users/:id/favorite", h.UnfavoriteUser)
}

// GetFavorites returns the authenticated user's favorites, partitioned into
// posts and users, in favorite-creation order
func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	listing, err := h.favoriteRepository.ListFavoritesOf(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"data": listing})
}

// FavoritePost favorites a post. Favoriting an already-favorited post is a
// no-op that still reports success.
func (h *FavoriteHandler) FavoritePost(c echo.Context) error {
	return h.favorite(c, models.FavoritablePost)
}

// UnfavoritePost removes a post from the user's favorites
func (h *FavoriteHandler) UnfavoritePost(c echo.Context) error {
	return h.unfavorite(c, models.FavoritablePost)
}

// FavoriteUser favorites an author. Favoriting yourself is rejected.
func (h *FavoriteHandler) FavoriteUser(c echo.Context) error {
	return h.favorite(c, models.FavoritableUser)
}

// UnfavoriteUser removes an author from the user's favorites
func (h *FavoriteHandler) UnfavoriteUser(c echo.Context) error {
	return h.unfavorite(c, models.FavoritableUser)
}

// GetPostFavoriteStatus checks whether the authenticated user has favorited a post
func (h *FavoriteHandler) GetPostFavoriteStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	favorited, err := h.favoriteRepository.HasFavorited(currentUserID, models.PostRef(uint(targetID)))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": targetID, "favorited": favorited})
}

func (h *FavoriteHandler) favorite(c echo.Context, kind models.FavoritableKind) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid target ID")
	}

	favorite, err := h.favoriteRepository.Favorite(currentUserID, models.FavoritableRef{Kind: kind, ID: uint(targetID)})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelfFavorite):
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot favorite yourself")
		case errors.Is(err, repositories.ErrTargetNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Favorite target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) unfavorite(c echo.Context, kind models.FavoritableKind) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid target ID")
	}

	err = h.favoriteRepository.Unfavorite(currentUserID, models.FavoritableRef{Kind: kind, ID: uint(targetID)})
	if err != nil {
		if errors.Is(err, repositories.ErrFavoriteNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Favorite not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
