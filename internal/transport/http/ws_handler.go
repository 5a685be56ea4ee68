package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler runs the play loop over a websocket. Generation happens off the read loop so
// a cancel message can overtake it.
type WSHandler struct {
	games    *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(games *app.GameService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type resumePayload struct {
	ShareID string `json:"shareId"`
}

type selectPayload struct {
	GameID string `json:"gameId"`
	Option string `json:"option"`
}

type nextPayload struct {
	GameID string `json:"gameId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// outbox queues replies for the connection's writer. A push gives up once the
// connection is closing or the writer has stopped.
type outbox struct {
	send       chan<- outboundMessage[any]
	closed     <-chan struct{}
	writerDone <-chan struct{}
}

func (o outbox) push(msgType string, payload any) bool {
	select {
	case o.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		return true
	case <-o.closed:
	case <-o.writerDone:
	}
	return false
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades an authenticated request and serves start, resume, cancel, select and
// next messages until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := owner(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var generations sync.WaitGroup
	var pending pendingGeneration

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Warn("ws write error", "error", err)
				conn.Close()
				return
			}
		}
	}()

	out := outbox{send: send, closed: closeSignals, writerDone: writerDone}
	reply := func(msgType string, payload any) {
		out.push(msgType, payload)
	}
	replyErr := func(err error) {
		_, message := classify(err)
		reply("error", errorPayload{Message: message})
	}
	replyView := func(view app.GameView) {
		if view.Status == app.StatusCompleted {
			reply("completed", view)
			return
		}
		if view.Status == app.StatusAnswered {
			reply("answered", view)
			return
		}
		reply("question", view)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var spec domain.QuizSpec
			if err := json.Unmarshal(inbound.Payload, &spec); err != nil {
				reply("error", errorPayload{Message: "invalid start payload"})
				continue
			}
			genCtx, seq := pending.start(ctx)
			generations.Add(1)
			go func() {
				defer generations.Done()
				defer pending.finish(seq)
				view, err := h.games.Generate(genCtx, userID, spec)
				switch {
				case errors.Is(err, domain.ErrGenerationCanceled):
					reply("canceled", nil)
				case err != nil:
					replyErr(err)
				default:
					replyView(view)
				}
			}()
		case "cancel":
			h.games.CancelGeneration(userID)
			if !pending.cancel() {
				reply("canceled", nil)
			}
		case "resume":
			var payload resumePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.ShareID == "" {
				reply("error", errorPayload{Message: "invalid resume payload"})
				continue
			}
			view, err := h.games.StartShared(ctx, userID, payload.ShareID)
			if err != nil {
				replyErr(err)
				continue
			}
			replyView(view)
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply("error", errorPayload{Message: "invalid select payload"})
				continue
			}
			view, err := h.games.Select(ctx, userID, payload.GameID, payload.Option)
			if err != nil {
				replyErr(err)
				continue
			}
			replyView(view)
		case "next":
			var payload nextPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply("error", errorPayload{Message: "invalid next payload"})
				continue
			}
			view, err := h.games.Advance(ctx, userID, payload.GameID)
			if err != nil {
				replyErr(err)
				continue
			}
			replyView(view)
		default:
			reply("error", errorPayload{Message: "unsupported message type"})
		}
	}

	cancel()
	close(closeSignals)
	generations.Wait()
	close(send)
	<-writerDone
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// pendingGeneration is the connection's in-flight generation. Canceling it covers the
// window before the game service has registered the request.
type pendingGeneration struct {
	mu   sync.Mutex
	seq  int
	stop context.CancelFunc
}

func (p *pendingGeneration) start(parent context.Context) (context.Context, int) {
	ctx, stop := context.WithCancel(parent)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		p.stop()
	}
	p.seq++
	p.stop = stop
	return ctx, p.seq
}

func (p *pendingGeneration) finish(seq int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq == seq && p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

// cancel reports whether a generation was in flight.
func (p *pendingGeneration) cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return false
	}
	p.stop()
	p.stop = nil
	return true
}
