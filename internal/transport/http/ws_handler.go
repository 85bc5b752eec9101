package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"team-quiz-service/internal/app"
	"team-quiz-service/internal/domain"
)

type WSHandler struct {
	service     *app.GameService
	defaultPack string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.GameService, defaultPack string) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultPack: defaultPack,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type teamPayload struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
}

type questionPayload struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type answerPayload struct {
	TeamID string `json:"teamId"`
	Option int    `json:"option"`
}

type ackPayload struct {
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// use cases. Every applied mutation reaches all subscribers as a full state
// snapshot; silently rejected mutations are acknowledged with applied=false
// so the UI can disable the affordance instead of surfacing an error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	packID := r.URL.Query().Get("packId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}
	if packID == "" {
		packID = h.defaultPack
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if _, err := h.service.Open(r.Context(), gameID, packID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	// The subscription delivers the initial snapshot, so no explicit
	// post-open state message is needed.
	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer h.service.Close(gameID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handleMessage(send, gameID, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handleMessage(send chan<- outboundMessage[any], gameID string, inbound inboundMessage) {
	switch inbound.Type {
	case "addTeam", "removeTeam", "renameTeam":
		var payload teamPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid team payload")
			return
		}
		h.applyTeamOp(send, gameID, inbound.Type, payload)
	case "addQuestion", "updateQuestion":
		var payload questionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid question payload")
			return
		}
		question := domain.Question{
			ID:            payload.ID,
			Prompt:        payload.Prompt,
			Options:       payload.Options,
			CorrectAnswer: payload.CorrectAnswer,
		}
		var (
			applied bool
			err     error
		)
		if inbound.Type == "addQuestion" {
			_, applied, err = h.service.AddQuestion(gameID, question)
		} else {
			_, applied, err = h.service.UpdateQuestion(gameID, question)
		}
		h.ack(send, inbound.Type, applied, err)
	case "deleteQuestion":
		var payload questionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid question payload")
			return
		}
		_, applied, err := h.service.DeleteQuestion(gameID, payload.ID)
		h.ack(send, inbound.Type, applied, err)
	case "updateSettings":
		var payload domain.Settings
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid settings payload")
			return
		}
		_, applied, err := h.service.UpdateSettings(gameID, payload)
		h.ack(send, inbound.Type, applied, err)
	case "start":
		if _, err := h.service.Start(gameID); err != nil {
			send <- errorMessage(err.Error())
		}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid answer payload")
			return
		}
		if _, err := h.service.SubmitAnswer(gameID, payload.TeamID, payload.Option); err != nil {
			send <- errorMessage(err.Error())
		}
	case "reveal":
		if _, err := h.service.Reveal(gameID); err != nil {
			send <- errorMessage(err.Error())
		}
	case "next":
		snapshot, err := h.service.Advance(gameID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		if snapshot.Report != nil {
			send <- outboundMessage[any]{Type: "report", Payload: *snapshot.Report}
		}
	default:
		send <- errorMessage("unsupported message type")
	}
}

func (h *WSHandler) applyTeamOp(send chan<- outboundMessage[any], gameID, op string, payload teamPayload) {
	var (
		applied bool
		err     error
	)
	switch op {
	case "addTeam":
		_, applied, err = h.service.AddTeam(gameID, payload.Name)
	case "removeTeam":
		_, applied, err = h.service.RemoveTeam(gameID, payload.TeamID)
	case "renameTeam":
		_, applied, err = h.service.RenameTeam(gameID, payload.TeamID, payload.Name)
	}
	h.ack(send, op, applied, err)
}

func (h *WSHandler) ack(send chan<- outboundMessage[any], action string, applied bool, err error) {
	if err != nil {
		send <- errorMessage(err.Error())
		return
	}
	send <- outboundMessage[any]{Type: "ack", Payload: ackPayload{Action: action, Applied: applied}}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
