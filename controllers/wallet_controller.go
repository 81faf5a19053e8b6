package controllers

import (
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetWalletBalance handles GET /v1/user/wallet
func (h *Handler) GetWalletBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	balance, err := h.svc.Wallet.Balance(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Wallet balance retrieved successfully", gin.H{
		"balance": balance,
	})
}

// GetWalletTransactions handles GET /v1/user/wallet/transactions
func (h *Handler) GetWalletTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page := utils.NewPagination(c)
	txns, err := h.svc.Wallet.ListTransactions(c.Request.Context(), user.ID, page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Wallet transactions retrieved successfully", txns, page)
}
