package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger_wallet_session/models"
)

func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Transaction.Snapshot())
}

// Probe re-runs the startup checks against the wallet and the ledger.
func (h *Handler) Probe(c *gin.Context) {
	if err := h.service.Transaction.Probe(c.Request.Context()); err != nil {
		newErrorResponse(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, h.service.Transaction.Snapshot())
}

func (h *Handler) Connect(c *gin.Context) {
	if err := h.service.Transaction.Connect(c.Request.Context()); err != nil {
		newErrorResponse(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, h.service.Transaction.Snapshot())
}

func (h *Handler) Disconnect(c *gin.Context) {
	h.service.Transaction.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, h.service.Transaction.Snapshot())
}

// EditDraft меняет одно поле формы перевода. Тело запроса {name:string,value:string}
func (h *Handler) EditDraft(c *gin.Context) {
	var input models.DraftEdit
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Transaction.EditDraft(input.Name, input.Value); err != nil {
		newErrorResponse(c, statusFor(err), err.Error())
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"formData": h.service.Transaction.Snapshot().FormData,
	})
}
