package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"sync"
	"tavern/auth"
	"tavern/config"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

type ConnectedClient struct {
	userID string
	fun    SendSocketFunc
	close  func()
}

// ConnectedClients is needed as a campaign has many listeners and a user may
// be connected more than once
type ConnectedClients []*ConnectedClient

var (
	// CampaignFeeds holds the feed clients by campaign ID
	CampaignFeeds = cmap.New[ConnectedClients]()

	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
)

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origins := config.CorsOrigins()
	return slices.Contains(origins, "*") || slices.Contains(origins, origin)
}

func addClient(campaignID string, c *ConnectedClient) {
	CampaignFeeds.Upsert(campaignID, ConnectedClients{c}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if exist {
			return append(slices.Clone(valueInMap), c)
		}
		return newValue
	})
}

func removeClient(campaignID string, c *ConnectedClient) {
	CampaignFeeds.Upsert(campaignID, ConnectedClients{}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if !exist {
			return newValue
		}
		for _, oc := range valueInMap {
			if oc == c {
				continue
			}
			newValue = append(newValue, oc)
		}
		return newValue
	})
	CampaignFeeds.RemoveCb(campaignID, func(key string, v ConnectedClients, exists bool) bool {
		return exists && len(v) == 0
	})
}

// Publish sends the message to every client following the campaign
func Publish(campaignID string, messageType FeedMessageType, data any) {
	clients, ok := CampaignFeeds.Get(campaignID)
	if !ok {
		return
	}
	payload, err := json.Marshal(FeedMessage{Type: messageType, Data: data})
	if err != nil {
		log.Printf("Feed marshal error: %v", err)
		return
	}
	for _, client := range clients {
		client.fun(payload)
	}
}

// disconnectUser drops the feed connections of a user that lost access
func disconnectUser(campaignID, userID string) {
	clients, ok := CampaignFeeds.Get(campaignID)
	if !ok {
		return
	}
	for _, client := range clients {
		if client.userID == userID {
			client.close()
		}
	}
}

// CampaignFeed upgrades to a websocket that receives the campaign messages
func CampaignFeed(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Setup client, gorilla connections support a single concurrent writer
	var writeMutex sync.Mutex
	isConnected := true
	client := ConnectedClient{userID: user.ID}
	client.fun = func(data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if !isConnected {
			return false
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	}
	client.close = func() {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		isConnected = false
		conn.Close()
	}
	campaignID := scope.Campaign.ID
	addClient(campaignID, &client)
	defer removeClient(campaignID, &client)
	// Main read cycle
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if string(message) == "ping" {
			client.fun([]byte("pong"))
		}
	}
}
