package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// ProcessTransactionRequest is the body of POST /v1/admin/transactions/:id/process
type ProcessTransactionRequest struct {
	Action string `json:"action" binding:"required,oneof=confirm reject"`
	Note   string `json:"note"`
}

// ListTopUps handles GET /v1/admin/transactions. The status defaults to pending.
func (h *Handler) ListTopUps(c *gin.Context) {
	page := utils.NewPagination(c)
	status := c.DefaultQuery("status", "pending")
	if status == "all" {
		status = ""
	}
	txns, err := h.svc.TopUps.List(c.Request.Context(), status, page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Top-up requests retrieved successfully", txns, page)
}

// ProcessTransaction handles POST /v1/admin/transactions/:id/process
func (h *Handler) ProcessTransaction(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProcessTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Action must be confirm or reject")
		return
	}

	result, err := h.svc.TopUps.Process(c.Request.Context(), &admin, id, req.Action, req.Note)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	message := fmt.Sprintf("Transaction %s", result.Transaction.Status)
	if result.AlreadyProcessed {
		message = fmt.Sprintf("Transaction was already %s", result.Transaction.Status)
	}
	utils.Success(c, message, result)
}

// ExportTopUps handles GET /v1/admin/transactions/export and downloads an .xlsx workbook
func (h *Handler) ExportTopUps(c *gin.Context) {
	status := c.Query("status")
	data, err := h.svc.TopUps.ExportXLSX(c.Request.Context(), status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	filename := fmt.Sprintf("topups_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
