package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/second-brain-be/types"
)

// WebSocketService streams retrieval-augmented answers over a websocket so
// the client sees the answer as it is generated.
type WebSocketService struct {
	answer   *AnswerService
	upgrader websocket.Upgrader
}

func NewWebSocketService(answer *AnswerService) *WebSocketService {
	return &WebSocketService{
		answer: answer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // single-user deployment behind the auth middleware
			},
		},
	}
}

func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(message, &req); err != nil {
			s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "invalid request"})
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketPong})
		case types.TypeWebsocketAsk:
			s.handleAskMessage(r, conn, req.Payload)
		default:
			s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "unknown message type"})
		}
	}
}

func (s *WebSocketService) handleAskMessage(r *http.Request, conn *websocket.Conn, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "invalid payload"})
		return
	}
	var ask types.WebSocketAskPayload
	if err := json.Unmarshal(raw, &ask); err != nil || ask.Question == "" {
		s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "question is required"})
		return
	}

	s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketProcessing})
	err = s.answer.AnswerStream(r.Context(), ask.Question, func(chunk string) {
		s.send(conn, types.WebSocketResponse{
			Type:    types.TypeWebsocketAnswer,
			Payload: types.WebSocketAnswerResponse{Chunk: chunk},
		})
	})
	if err != nil {
		log.Printf("Answer stream failed: %v", err)
		s.send(conn, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: apologyMessage})
		return
	}
	s.send(conn, types.WebSocketResponse{
		Type:    types.TypeWebsocketAnswer,
		Payload: types.WebSocketAnswerResponse{Done: true},
	})
}

func (s *WebSocketService) send(conn *websocket.Conn, resp types.WebSocketResponse) {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}
