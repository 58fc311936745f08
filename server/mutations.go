package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/MarcoSafwat16/AMScout/dispatch"
	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/gin-gonic/gin"
)

// readMediaUpload extracts the optional "media" file from a multipart form.
func readMediaUpload(c *gin.Context) (*dispatch.MediaUpload, error) {
	file, header, err := c.Request.FormFile("media")
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &dispatch.MediaUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) CreatePost(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	media, err := readMediaUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed media upload"})
		return
	}

	in := dispatch.PostInput{
		Caption: c.PostForm("caption"),
		Media:   media,
		Type:    model.PostType(c.DefaultPostForm("type", string(model.PostTypeStandard))),
	}
	if tagged := c.PostForm("taggedUsernames"); tagged != "" {
		in.TaggedUsernames = strings.Split(tagged, ",")
	}

	id, err := h.dispatcher.CreatePost(c.Request.Context(), u, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) AddComment(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in struct {
		Text     string `json:"text"`
		ParentId string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.AddComment(c.Request.Context(), u, c.Param("id"), in.ParentId, in.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{})
}

func (h *Handler) ToggleFollow(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	if err := h.dispatcher.ToggleFollow(c.Request.Context(), u.Id, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	var in dispatch.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.UpdateProfile(c.Request.Context(), u.Id, in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) SendMessage(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	media, err := readMediaUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed media upload"})
		return
	}
	in := dispatch.MessageInput{
		Text:       c.PostForm("text"),
		StickerUrl: c.PostForm("stickerUrl"),
		Media:      media,
	}
	id, err := h.dispatcher.SendMessage(c.Request.Context(), u.Id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) AddStory(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in struct {
		ImageDataUrl string `json:"imageDataUrl"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.ImageDataUrl == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if err := h.dispatcher.AddStory(c.Request.Context(), u.Id, in.ImageDataUrl); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{})
}

// AddStoryReaction writes the reaction, then awards the story owner points
// as an independent operation: a failed award never rolls back or fails the
// reaction.
func (h *Handler) AddStoryReaction(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in struct {
		StoryId string `json:"storyId"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	if in.Type == "" {
		in.Type = "like"
	}
	ownerId := c.Param("userId")
	if err := h.dispatcher.AddStoryReaction(c.Request.Context(), u, ownerId, in.StoryId, in.Type); err != nil {
		respondError(c, err)
		return
	}
	h.awardStoryPoints(c, ownerId, 2)
	c.JSON(http.StatusCreated, gin.H{})
}

func (h *Handler) AddStoryComment(c *gin.Context) {
	u, ok := h.contributor(c)
	if !ok {
		return
	}
	var in struct {
		StoryId string `json:"storyId"`
		Text    string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	ownerId := c.Param("userId")
	if err := h.dispatcher.AddStoryComment(c.Request.Context(), u, ownerId, in.StoryId, in.Text); err != nil {
		respondError(c, err)
		return
	}
	h.awardStoryPoints(c, ownerId, 5)
	c.JSON(http.StatusCreated, gin.H{})
}

func (h *Handler) awardStoryPoints(c *gin.Context, ownerId string, points int) {
	if err := h.dispatcher.AwardPoints(c.Request.Context(), ownerId, points); err != nil {
		// Best effort, the engagement itself already succeeded.
		log.Log.Warn("failed to award story points to ", ownerId, ": ", err)
	}
}

// --- cart ---

func (h *Handler) AddToCart(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	var in struct {
		ProductId string `json:"productId"`
		Variant   model.ProductVariant
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}

	product, found := h.findProduct(in.ProductId)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"msg": "product not found"})
		return
	}
	if in.Variant.Type != "" && !product.HasVariant(in.Variant) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown product variant"})
		return
	}
	h.dispatcher.AddToCart(u.Id, product, in.Variant)
	c.JSON(http.StatusOK, gin.H{"itemCount": h.dispatcher.Cart(u.Id).ItemCount()})
}

func (h *Handler) findProduct(productId string) (model.Product, bool) {
	for _, p := range h.engine.Latest().Products {
		if p.Id == productId {
			return p, true
		}
	}
	return model.Product{}, false
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	h.dispatcher.UpdateCartQuantity(u.Id, c.Param("itemId"), in.Quantity)
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	h.dispatcher.RemoveFromCart(u.Id, c.Param("itemId"))
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) Checkout(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	if err := h.dispatcher.Checkout(u.Id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
