package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/events"
	"github.com/hainam0320/EXE201-sub000/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /orders/ws?token=...
//
// Live order feed for seller/admin dashboards. Browsers cannot set an
// Authorization header on a websocket handshake, so the token rides on the
// query string.
func OrderFeed(hub *events.Hub, guard auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := guard.Authenticate(c.Query("token"))
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Payload(err))
			return
		}
		if !guard.Authorize(id, models.RoleSeller, models.RoleAdmin) {
			err := apperr.New(apperr.KindForbidden, "order feed is for sellers and admins")
			c.JSON(apperr.HTTPStatus(err), apperr.Payload(err))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		hub.Add(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Remove(conn)
				break
			}
		}
	}
}
