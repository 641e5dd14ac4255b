package socket

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DedS3t/cashflow-backend/app/models"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Server pushes committed engine events to the clients of a room.
type Server struct {
	io  *socketio.Server
	log logrus.FieldLogger
}

type roomMessage struct {
	RoomID string `json:"room_id"`
}

func NewServer(log logrus.FieldLogger) (*Server, error) {
	io, err := socketio.NewServer(nil)
	if err != nil {
		return nil, err
	}
	s := &Server{io: io, log: log}

	io.OnConnect("/", func(c socketio.Conn) error {
		c.SetContext("")
		return nil
	})

	io.OnEvent("/", "join-room", func(c socketio.Conn, jsonStr string) {
		var msg roomMessage
		if err := json.Unmarshal([]byte(jsonStr), &msg); err != nil || msg.RoomID == "" {
			c.Emit("error-message", "room_id required")
			return
		}
		c.Join(msg.RoomID)
		c.Emit("joined-room", msg.RoomID)
		log.WithFields(logrus.Fields{"conn": c.ID(), "room_id": msg.RoomID}).Debug("socket joined room")
	})

	io.OnEvent("/", "leave-room", func(c socketio.Conn, jsonStr string) {
		var msg roomMessage
		if err := json.Unmarshal([]byte(jsonStr), &msg); err == nil {
			c.Leave(msg.RoomID)
		}
	})

	io.OnError("/", func(c socketio.Conn, e error) {
		log.WithError(e).Warn("socket error")
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		c.LeaveAll()
	})
	return s, nil
}

// Emit broadcasts e to its room under the event's kind.
func (s *Server) Emit(e models.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		s.log.WithError(err).WithField("kind", e.Kind).Error("encode event")
		return
	}
	s.io.BroadcastToRoom("/", e.RoomID, string(e.Kind), string(data))
}

// ListenAndServe serves socket.io on addr until the listener fails.
func (s *Server) ListenAndServe(addr, allowedOrigins string) error {
	go s.io.Serve()
	defer s.io.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io)
	return http.ListenAndServe(addr, c.Handler(mux))
}
