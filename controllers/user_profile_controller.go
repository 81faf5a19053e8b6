package controllers

import (
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile handles GET /v1/user/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.svc.Profiles.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile retrieved successfully", profile)
}
