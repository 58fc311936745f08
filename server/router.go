package server

import (
	"github.com/MarcoSafwat16/AMScout/server/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the full route table. Every route sits behind the JWT
// middleware; admin-only routes add their own guard in the handler.
func NewRouter(h *Handler) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/", middlewares.JWT())

	// projections
	api.GET("/feed", h.GetFeed)
	api.GET("/reels", h.GetReels)
	api.GET("/stories", h.GetStories)
	api.GET("/chat", h.GetChat)
	api.GET("/shop", h.GetShop)
	api.GET("/leaderboard", h.GetLeaderboard)
	api.GET("/notifications", h.GetNotifications)
	api.GET("/profiles/:id", h.GetProfile)
	api.GET("/cart", h.GetCart)
	api.GET("/stream", h.Stream)

	// mutations
	api.POST("/posts", h.CreatePost)
	api.POST("/posts/:id/comments", h.AddComment)
	api.POST("/follow/:id", h.ToggleFollow)
	api.PUT("/profile", h.UpdateProfile)
	api.POST("/chat/messages", h.SendMessage)
	api.POST("/stories", h.AddStory)
	api.POST("/stories/:userId/reactions", h.AddStoryReaction)
	api.POST("/stories/:userId/comments", h.AddStoryComment)
	api.POST("/presence", h.UpdatePresence)

	// cart
	api.POST("/cart/items", h.AddToCart)
	api.PUT("/cart/items/:itemId", h.UpdateCartItem)
	api.DELETE("/cart/items/:itemId", h.RemoveCartItem)
	api.POST("/checkout", h.Checkout)

	// shop listings
	api.POST("/products", h.AddProduct)
	api.PUT("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeleteProduct)

	// advisory suggestions
	api.GET("/suggest/caption", h.SuggestCaption)
	api.POST("/suggest/replies", h.SuggestReplies)

	// admin dashboard
	admin := api.Group("/admin")
	admin.POST("/users/:id/toggle-admin", h.ToggleAdmin)
	admin.POST("/users/:id/toggle-block", h.ToggleBlock)
	admin.POST("/users/:id/toggle-mute", h.ToggleMute)
	admin.PUT("/users/:id/points", h.SetPoints)
	admin.PUT("/promo", h.UpdatePromoText)
	admin.DELETE("/posts/:id", h.DeletePost)
	admin.DELETE("/chat/messages/:id", h.DeleteMessage)

	return router
}
