package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/projectauth"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"go.uber.org/zap"
)

var (
	boardClients   = make(map[string]map[*websocket.Conn]bool)
	boardClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastTaskRefresh tells every board subscriber of a project to refetch
// its task list.
func BroadcastTaskRefresh(projectID string) {
	boardClientsMu.RLock()
	clients, exists := boardClients[projectID]
	if !exists || len(clients) == 0 {
		boardClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	boardClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":       "refresh",
			"message":    "Task board updated",
			"project_id": projectID,
		})

		if err != nil {
			zap.L().Debug("dropping task board client", zap.String("project_id", projectID), zap.Error(err))
			boardClientsMu.Lock()
			if clients, exists := boardClients[projectID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(boardClients, projectID)
				}
			}
			boardClientsMu.Unlock()
			conn.Close()
		}
	}
}

// TaskBoardSocket streams task-board refresh events for one project. The same
// gates as getProjectTasks apply before the upgrade.
func TaskBoardSocket(c *gin.Context) {
	claims := utils.CurrentClaims(c)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(c, err)
		return
	}

	projectID, err := idParam(c, "project_id")

	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if _, err := findTenantProject(tenantID, projectID); err != nil {
		utils.RespondError(c, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if _, err := projectauth.RequireMember(db.DB, projectID, userID); err != nil {
		utils.RespondError(c, err)
		return
	}

	key := c.Param("project_id")

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	boardClientsMu.Lock()
	if boardClients[key] == nil {
		boardClients[key] = make(map[*websocket.Conn]bool)
	}
	boardClients[key][conn] = true
	boardClientsMu.Unlock()

	defer func() {
		boardClientsMu.Lock()

		if clients, exists := boardClients[key]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(boardClients, key)
			}
		}

		boardClientsMu.Unlock()
		conn.Close()
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":       "connected",
		"message":    "Task board connection established",
		"project_id": key,
	})

	if err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})

	defer func() {
		ticker.Stop()
		close(done)
	}()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("task board connection error", zap.String("project_id", key), zap.Error(err))
			}
			break
		}
	}
}
