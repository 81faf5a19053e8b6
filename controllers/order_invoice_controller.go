package controllers

import (
	"fmt"
	"net/http"

	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// DownloadInvoice handles GET /v1/user/orders/:id/invoice and streams a PDF
func (h *Handler) DownloadInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Orders.GetOrder(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	pdf, err := utils.GenerateInvoicePDF(*order, user.Email)
	if err != nil {
		utils.LogError("Failed to render invoice for order %d: %v", order.ID, err)
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
