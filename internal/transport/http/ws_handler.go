package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// maxInflightPerConn caps concurrent handlers on one socket.
const maxInflightPerConn = 4

// WSHandler serves chat, quiz generation and grading over one websocket.
type WSHandler struct {
	answers  Answerer
	quizzes  QuizMaker
	upgrader websocket.Upgrader
}

func NewWSHandler(answers Answerer, quizzes QuizMaker) *WSHandler {
	return &WSHandler{
		answers: answers,
		quizzes: quizzes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type readyPayload struct {
	Operations []string `json:"operations"`
}

// ServeWS upgrades the request and answers each inbound message on its own goroutine,
// so a slow quiz does not hold up chat replies. Replies carry the request id.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	// reading pauses while the limit is reached, so one socket cannot pile up LLM jobs
	var inflight errgroup.Group
	inflight.SetLimit(maxInflightPerConn)

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// keep draining so in-flight handlers never block
				for range send {
				}
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "ready", Payload: readyPayload{Operations: []string{"query", "generate", "submit"}}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		inflight.Go(func() error {
			reply := h.dispatch(ctx, inbound)
			reply.ID = inbound.ID
			send <- reply
			return nil
		})
	}

	cancel()
	_ = inflight.Wait()
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, msg inboundMessage) outboundMessage[any] {
	switch msg.Type {
	case "query":
		var payload queryRequest
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errorMessage("invalid query payload")
		}
		return outboundMessage[any]{Type: "answer", Payload: h.answers.Answer(ctx, payload.Prompt)}
	case "generate":
		var payload quizRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return errorMessage("invalid generate payload")
			}
		}
		return outboundMessage[any]{Type: "quiz", Payload: quizResponse{Questions: h.quizzes.GenerateQuiz(ctx, payload.Topic)}}
	case "submit":
		var payload gradeRequest
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errorMessage("invalid submit payload")
		}
		return outboundMessage[any]{Type: "graded", Payload: gradeAll(payload.Submissions)}
	default:
		return errorMessage("unsupported message type")
	}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

