package controllers

import (
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// ToggleFavorite handles POST /v1/user/favorites/:product_id
func (h *Handler) ToggleFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}

	added, err := h.svc.Favorites.Toggle(c.Request.Context(), user.ID, productID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	message := "Removed from favorites"
	if added {
		message = "Added to favorites"
	}
	utils.Success(c, message, gin.H{"product_id": productID, "favorited": added})
}

// ListFavorites handles GET /v1/user/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	favorites, err := h.svc.Favorites.List(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Favorites retrieved successfully", favorites)
}
