package controllers

import (
	"errors"
	"strconv"

	"github.com/Govind-619/ScentSphere/middleware"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/storage"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP handlers call into
type Services struct {
	Catalog   *services.CatalogService
	Wallet    *services.WalletService
	Promos    *services.PromoService
	GiftCodes *services.GiftCodeService
	Orders    *services.OrderService
	TopUps    *services.TopUpService
	Favorites *services.FavoriteService
	Profiles  *services.ProfileService
	Disk      storage.Disk
}

// Handler serves the storefront API
type Handler struct {
	svc Services
}

// NewHandler builds a Handler over svc
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// currentUser returns the authenticated profile or answers 401
func currentUser(c *gin.Context) (models.Profile, bool) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return models.Profile{}, false
	}
	return profile, true
}

// idParam parses a positive numeric path parameter or answers 400
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// uploadProof stores the "proof" multipart file, if present, and returns its
// public URL and object path. Failures are answered and reported as !ok.
func (h *Handler) uploadProof(c *gin.Context, userID uint) (url, path string, ok bool) {
	file, err := c.FormFile("proof")
	if err != nil {
		return "", "", true
	}
	img, err := utils.ReadImageFile(file)
	if err != nil {
		utils.LogError("Rejected proof upload from user %d: %v", userID, err)
		utils.BadRequest(c, err.Error())
		return "", "", false
	}
	if h.svc.Disk == nil {
		utils.RespondError(c, errors.New("object storage is not configured"))
		return "", "", false
	}

	path = utils.ProofPath(userID, img.Ext)
	url, err = storage.Upload(c.Request.Context(), h.svc.Disk, path, img.Data, img.ContentType)
	if err != nil {
		utils.RespondError(c, err)
		return "", "", false
	}
	utils.LogDebug("Stored payment proof for user %d at %s", userID, path)
	return url, path, true
}

// discardProof removes an uploaded proof whose operation failed
func (h *Handler) discardProof(c *gin.Context, path string) {
	if path == "" || h.svc.Disk == nil {
		return
	}
	if err := h.svc.Disk.Delete(c.Request.Context(), path); err != nil {
		utils.LogError("Failed to remove orphaned proof %s: %v", path, err)
	}
}
