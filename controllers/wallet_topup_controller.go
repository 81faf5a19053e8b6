package controllers

import (
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// SubmitTopUp handles POST /v1/user/wallet/topup. The multipart form carries
// "amount" and the "proof" image of the transfer.
func (h *Handler) SubmitTopUp(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("SubmitTopUp called for user %d", user.ID)

	amount, err := utils.ParseAmount(c.PostForm("amount"))
	if err != nil {
		utils.BadRequest(c, "Amount is required and must be a valid number")
		return
	}
	if _, err := c.FormFile("proof"); err != nil {
		utils.BadRequest(c, "Please upload your payment proof")
		return
	}

	url, path, ok := h.uploadProof(c, user.ID)
	if !ok {
		return
	}

	txn, err := h.svc.TopUps.SubmitTopUp(c.Request.Context(), user.ID, amount, url)
	if err != nil {
		h.discardProof(c, path)
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, utils.MsgTopUpSubmitted, txn)
}
