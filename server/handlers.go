package server

import (
	"net/http"
	"sync"

	"github.com/MarcoSafwat16/AMScout/cache"
	"github.com/MarcoSafwat16/AMScout/dispatch"
	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/session"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/suggest"
	"github.com/MarcoSafwat16/AMScout/view"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Handler exposes the derived views and the mutation dispatcher over HTTP.
// Everything it serves is a projection of the sync engine's latest resolve
// result; it holds no entity state of its own.
type Handler struct {
	engine     *cache.Engine
	dispatcher *dispatch.Dispatcher
	suggester  suggest.Suggester
	docs       store.DocumentStore

	// presences tracks one presence state machine per connected viewer.
	mu        sync.Mutex
	presences map[string]*session.Presence
}

func NewHandler(engine *cache.Engine, dispatcher *dispatch.Dispatcher, suggester suggest.Suggester, docs store.DocumentStore) *Handler {
	return &Handler{
		engine:     engine,
		dispatcher: dispatcher,
		suggester:  suggester,
		docs:       docs,
		presences:  make(map[string]*session.Presence),
	}
}

func (h *Handler) presenceOf(viewerId string) *session.Presence {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.presences[viewerId]; !ok {
		h.presences[viewerId] = session.NewPresence(h.docs, viewerId)
	}
	return h.presences[viewerId]
}

// viewer resolves the acting user from the "sub" header set by the JWT
// middleware against the current users snapshot.
func (h *Handler) viewer(c *gin.Context) (model.User, bool) {
	sub := c.Request.Header.Get("sub")
	u, ok := h.engine.Latest().Users[sub]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unknown viewer"})
		return model.User{}, false
	}
	if u.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"msg": "account is blocked"})
		return model.User{}, false
	}
	return u, true
}

// contributor is viewer plus the view-only ban check, required for every
// content mutation.
func (h *Handler) contributor(c *gin.Context) (model.User, bool) {
	u, ok := h.viewer(c)
	if !ok {
		return u, false
	}
	if u.IsMuted {
		c.JSON(http.StatusForbidden, gin.H{"msg": "account is view-only"})
		return model.User{}, false
	}
	return u, true
}

func (h *Handler) admin(c *gin.Context) (model.User, bool) {
	u, ok := h.viewer(c)
	if !ok {
		return u, false
	}
	if !u.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"msg": "admin only"})
		return model.User{}, false
	}
	return u, true
}

// respondError converts dispatcher errors into user-facing responses:
// validation failures report inline, missing documents 404, and any remote
// failure becomes a retryable notice. Raw transport errors never leak.
func respondError(c *gin.Context, err error) {
	switch errors.Cause(err) {
	case dispatch.ErrEmptyPost, dispatch.ErrEmptyComment, dispatch.ErrEmptyMessage,
		dispatch.ErrSelfFollow, dispatch.ErrParentNotFound, dispatch.ErrInvalidProduct,
		dispatch.ErrReelNeedsVideo, model.ErrEmptyCart:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case store.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"msg": "temporary failure, please retry"})
	}
}

// --- view projections ---

func (h *Handler) GetFeed(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	res := h.engine.Latest()
	c.JSON(http.StatusOK, gin.H{
		"posts":     view.Feed(res.Posts, &u),
		"promoText": res.Config.PromoBannerText,
	})
}

func (h *Handler) GetReels(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"reels": view.Reels(h.engine.Latest().Posts)})
}

func (h *Handler) GetStories(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": h.engine.Latest().Stories})
}

func (h *Handler) GetChat(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	res := h.engine.Latest()
	c.JSON(http.StatusOK, gin.H{
		"messages":    res.Messages,
		"onlineCount": view.OnlineCount(res.Users),
	})
}

func (h *Handler) GetShop(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	res := h.engine.Latest()
	category := c.DefaultQuery("category", view.CategoryAll)
	c.JSON(http.StatusOK, gin.H{
		"products":   view.FilterByCategory(res.Products, category),
		"categories": view.Categories(res.Products),
	})
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	res := h.engine.Latest()
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": view.TopUsers(res.Users),
		"onlineCount": view.OnlineCount(res.Users),
	})
}

func (h *Handler) GetNotifications(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.engine.Latest().Notifications})
}

func (h *Handler) GetProfile(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	res := h.engine.Latest()
	userId := c.Param("id")
	u, ok := res.Users[userId]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  u,
		"posts": view.PostsByAuthor(res.Posts, userId),
	})
}

func (h *Handler) GetCart(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	cart := h.dispatcher.Cart(u.Id)
	c.JSON(http.StatusOK, gin.H{
		"items":     cart.Items(),
		"subtotal":  cart.Subtotal(),
		"itemCount": cart.ItemCount(),
	})
}

// --- advisory suggestions ---

func (h *Handler) SuggestCaption(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"caption": suggest.CaptionOrEmpty(c.Request.Context(), h.suggester, c.Query("topic")),
	})
}

func (h *Handler) SuggestReplies(c *gin.Context) {
	if _, ok := h.viewer(c); !ok {
		return
	}
	var in struct {
		History string `json:"history"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggest.RepliesOrEmpty(c.Request.Context(), h.suggester, in.History),
	})
}

// --- presence ---

func (h *Handler) UpdatePresence(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}
	var in struct {
		Visible bool `json:"visible"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
		return
	}
	h.presenceOf(u.Id).HandleVisibility(c.Request.Context(), in.Visible)
	c.JSON(http.StatusOK, gin.H{"state": h.presenceOf(u.Id).State()})
}
