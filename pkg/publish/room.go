package publish

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	socketBufferSize = 1024
	writeWait        = time.Second
)

// Room streams broker messages to websocket clients as JSON.  Clients may
// pass ?topic=<name> (repeatable) to only receive some topics.
type Room struct {
	broker   *Broker
	upgrader websocket.Upgrader
}

func NewRoom(broker *Broker) *Room {
	return &Room{
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  socketBufferSize,
			WriteBufferSize: socketBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer socket.Close()

	wanted := map[string]bool{}
	for _, t := range req.URL.Query()["topic"] {
		wanted[t] = true
	}

	name := req.RemoteAddr
	msgs := r.broker.Subscribe("ws:" + name)
	defer r.broker.Unsubscribe(msgs)
	log.WithField("client", name).Info("Websocket client joined")
	defer log.WithField("client", name).Info("Websocket client left")

	// We don't expect anything from the client, but reading is how we find
	// out that it has gone away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := socket.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case m, ok := <-msgs:
			if !ok {
				_ = socket.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if len(wanted) > 0 && !wanted[m.Topic] {
				continue
			}
			_ = socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := socket.WriteJSON(m); err != nil {
				log.WithError(err).Debug("Websocket write failed")
				return
			}
		}
	}
}
