package server

import (
	"context"
	"net/http"

	"github.com/MarcoSafwat16/AMScout/dispatch"
	"github.com/gin-gonic/gin"
)

// Admin dashboard operations. Every route in this file sits behind the
// admin guard.

func (h *Handler) ToggleAdmin(c *gin.Context) {
	h.adminToggle(c, h.dispatcher.ToggleAdmin)
}

func (h *Handler) ToggleBlock(c *gin.Context) {
	h.adminToggle(c, h.dispatcher.ToggleBlock)
}

func (h *Handler) ToggleMute(c *gin.Context) {
	h.adminToggle(c, h.dispatcher.ToggleMute)
}

func (h *Handler) adminToggle(c *gin.Context, toggle func(ctx context.Context, userId string) error) {
	if _, ok := h.admin(c); !ok {
		return
	}
	if err := toggle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) SetPoints(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	var in struct {
		Points int `json:"points"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.SetPoints(c.Request.Context(), c.Param("id"), in.Points); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) UpdatePromoText(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.UpdatePromoText(c.Request.Context(), in.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) DeletePost(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	if err := h.dispatcher.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	if err := h.dispatcher.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// --- products (seller or admin surface) ---

func (h *Handler) AddProduct(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in dispatch.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	id, err := h.dispatcher.AddProduct(c.Request.Context(), u.Id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in dispatch.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.UpdateProduct(c.Request.Context(), u.Id, c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}
	if err := h.dispatcher.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
