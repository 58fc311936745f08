package server

import (
	"net/http"

	"github.com/MarcoSafwat16/AMScout/view"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/MarcoSafwat16/AMScout/utils/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens in the JWT middleware; cross-origin browsers are
	// expected clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is one push to a connected client: the viewer-specific
// projections recomputed from the latest resolve result.
type streamFrame struct {
	Feed          interface{} `json:"feed"`
	Reels         interface{} `json:"reels"`
	Stories       interface{} `json:"stories"`
	Messages      interface{} `json:"messages"`
	Products      interface{} `json:"products"`
	Notifications interface{} `json:"notifications"`
	Leaderboard   interface{} `json:"leaderboard"`
	OnlineCount   int         `json:"onlineCount"`
	PromoText     string      `json:"promoText"`
}

// Stream upgrades the connection and pushes a frame on every engine
// recompute until the client goes away. A connected stream is what drives
// the viewer's presence: connect marks them online, disconnect offline.
func (h *Handler) Stream(c *gin.Context) {
	u, ok := h.viewer(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Log.Warn("stream upgrade failed for ", u.Id, ": ", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	updates := h.engine.AddListener(ctx)

	presence := h.presenceOf(u.Id)
	presence.ForceOnline(ctx)
	defer presence.ForceOffline(ctx)

	// Reader goroutine: the client never sends application data; reading
	// only detects the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Initial frame, then one per recompute.
	if err := conn.WriteJSON(h.frameFor(u.Id)); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-updates:
			if err := conn.WriteJSON(h.frameFor(u.Id)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) frameFor(viewerId string) streamFrame {
	res := h.engine.Latest()
	viewer := res.Users[viewerId]
	return streamFrame{
		Feed:          view.Feed(res.Posts, &viewer),
		Reels:         view.Reels(res.Posts),
		Stories:       res.Stories,
		Messages:      res.Messages,
		Products:      res.Products,
		Notifications: res.Notifications,
		Leaderboard:   view.TopUsers(res.Users),
		OnlineCount:   view.OnlineCount(res.Users),
		PromoText:     res.Config.PromoBannerText,
	}
}
