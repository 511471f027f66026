package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/presence"
	userrepo "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/adapter"
	userport "github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/port"
)

const (
	socketReadTimeout = 60 * time.Second

	// Mirror keys outlive any realistic session but still expire if an
	// instance dies without running its disconnect path.
	presenceMirrorTTL = 24 * time.Hour
)

// ChatSocketController owns the realtime endpoint: token handshake, room
// membership, presence transitions and the inbound frame protocol.
type ChatSocketController struct {
	hub     *realtime.Hub
	tracker *presence.Tracker
	users   userport.UserRepository
	cache   cport.Cache
	secret  string

	sendUC   *usecase.SendMessageUseCase
	joinUC   *usecase.JoinConversationUseCase
	markUC   *usecase.MarkReadUseCase
	typingUC *usecase.TypingIndicatorUseCase

	inflightTimeout time.Duration
}

func NewChatSocketController(pool *pgxpool.Pool, hub *realtime.Hub, tracker *presence.Tracker, client qport.Client, cache cport.Cache, secret string) *ChatSocketController {
	conversations := adapter.NewPgConversationRepository(pool)
	messages := adapter.NewPgMessageRepository(pool)
	return &ChatSocketController{
		hub:     hub,
		tracker: tracker,
		users:   userrepo.NewPgUserRepository(pool),
		cache:   cache,
		secret:  secret,
		sendUC: &usecase.SendMessageUseCase{
			Conversations: conversations,
			Messages:      messages,
			Queue:         client,
			Broadcaster:   hub,
		},
		joinUC: &usecase.JoinConversationUseCase{Conversations: conversations},
		markUC: &usecase.MarkReadUseCase{
			Conversations: conversations,
			Messages:      messages,
			Broadcaster:   hub,
		},
		typingUC: &usecase.TypingIndicatorUseCase{
			Conversations: conversations,
			Broadcaster:   hub,
			Cache:         cache,
			TTL:           typingTTLFromEnv(),
		},
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Tokens carry the trust; origin checks add nothing for native clients.
		return true
	},
}

// socketFrame is the single inbound frame shape; Type selects the action.
type socketFrame struct {
	Type           string  `json:"type"`
	ConversationID string  `json:"conversationId,omitempty"`
	Content        *string `json:"content,omitempty"`
	GifURL         *string `json:"gifUrl,omitempty"`
	Encrypted      bool    `json:"encrypted,omitempty"`
	Ciphertext     *string `json:"ciphertext,omitempty"`
	IV             *string `json:"iv,omitempty"`
	SessionKey     *string `json:"sessionKey,omitempty"`
	EncryptedImage *string `json:"encryptedImage,omitempty"`
	ImageIV        *string `json:"imageIv,omitempty"`
	ImageMimeType  *string `json:"imageMimeType,omitempty"`
	MessageType    string  `json:"messageType,omitempty"`
	ReplyToID      *string `json:"replyTo,omitempty"`
}

type socketEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Handle authenticates via the token query parameter, upgrades and serves
// frames until the client goes away. A missing or invalid token closes the
// handshake before the upgrade.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
			return
		}
		userID, err := auth.ParseToken(token, ctl.secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			slog.Warn("websocket upgrade failed", "userId", userID, "error", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.hub.Attach(conn)
		ctl.hub.Join(chat.UserRoom(userID), conn)
		ctl.connected(userID, conn.ID)
		defer func() {
			ctl.hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.disconnected(userID, conn.ID)
		}()

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		})

		ctl.reply(conn, "connected", gin.H{"userId": userID})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}

			var frame socketFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "invalid frame")
				continue
			}

			switch frame.Type {
			case "join_conversation":
				ctl.handleJoin(c, conn, frame)
			case "leave_conversation":
				ctl.handleLeave(conn, frame)
			case "send_message":
				ctl.handleSend(c, conn, frame)
			case "typing":
				ctl.handleTyping(c, conn, frame, true)
			case "stop_typing":
				ctl.handleTyping(c, conn, frame, false)
			case "mark_as_read":
				ctl.handleMarkRead(c, conn, frame)
			default:
				ctl.replyError(conn, "unknown frame type")
			}
		}
	}
}

// connected flips the durable presence shadow and announces the transition
// only when this is the user's first live session.
func (ctl *ChatSocketController) connected(userID, sessionID string) {
	if !ctl.tracker.Connect(userID, sessionID) {
		return
	}
	now := time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()
	if err := ctl.users.SetPresence(ctx, userID, true, now); err != nil {
		slog.Warn("presence write failed", "userId", userID, "error", err)
	}
	ctl.mirrorPresence(ctx, userID, true)
	ctl.hub.Publish([]string{realtime.RoomGlobal}, usecase.EventUserStatusChange,
		presence.StatusChange{UserID: userID, IsOnline: true})
}

func (ctl *ChatSocketController) disconnected(userID, sessionID string) {
	if !ctl.tracker.Disconnect(userID, sessionID) {
		return
	}
	now := time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()
	if err := ctl.users.SetPresence(ctx, userID, false, now); err != nil {
		slog.Warn("presence write failed", "userId", userID, "error", err)
	}
	ctl.mirrorPresence(ctx, userID, false)
	ctl.hub.Publish([]string{realtime.RoomGlobal}, usecase.EventUserStatusChange,
		presence.StatusChange{UserID: userID, IsOnline: false, LastActive: &now})
}

// mirrorPresence shadows the online flag in the cache so sibling instances can
// answer presence lookups without a database round trip. The durable row in
// Postgres stays the source of truth, so a lost key only costs a query.
func (ctl *ChatSocketController) mirrorPresence(ctx context.Context, userID string, online bool) {
	if ctl.cache == nil {
		return
	}
	key := presence.MirrorKey(userID)
	var err error
	if online {
		err = ctl.cache.Set(ctx, key, "1", presenceMirrorTTL)
	} else {
		_, err = ctl.cache.Del(ctx, key)
	}
	if err != nil {
		slog.Warn("presence mirror update failed", "userId", userID, "error", err)
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame socketFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "conversationId is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	room, err := ctl.joinUC.Execute(ctx, frame.ConversationID, conn.UserID)
	if err != nil {
		ctl.replyError(conn, errorMessage(err))
		return
	}
	ctl.hub.Join(room, conn)
	ctl.reply(conn, "joined_conversation", gin.H{"conversationId": frame.ConversationID})
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame socketFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "conversationId is required")
		return
	}
	ctl.hub.Leave(chat.ConversationRoom(frame.ConversationID), conn)
	ctl.reply(conn, "left_conversation", gin.H{"conversationId": frame.ConversationID})
}

func (ctl *ChatSocketController) handleSend(c *gin.Context, conn *realtime.Connection, frame socketFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "conversationId is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	message, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       conn.UserID,
		Content:        frame.Content,
		GifURL:         frame.GifURL,
		Encrypted:      frame.Encrypted,
		Ciphertext:     frame.Ciphertext,
		IV:             frame.IV,
		SessionKey:     frame.SessionKey,
		EncryptedImage: frame.EncryptedImage,
		ImageIV:        frame.ImageIV,
		ImageMimeType:  frame.ImageMimeType,
		MessageType:    frame.MessageType,
		ReplyToID:      frame.ReplyToID,
	})
	if err != nil {
		ctl.replyError(conn, errorMessage(err))
		return
	}
	// The use case already fanned out new_message; ack the sender directly in
	// case it has not joined the conversation room.
	ctl.reply(conn, usecase.EventNewMessage, usecase.MessageEvent{
		ConversationID: frame.ConversationID,
		Message:        usecase.NewMessageView(message),
	})
}

func (ctl *ChatSocketController) handleTyping(c *gin.Context, conn *realtime.Connection, frame socketFrame, isTyping bool) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "conversationId is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	if err := ctl.typingUC.Execute(ctx, frame.ConversationID, conn.UserID, isTyping); err != nil {
		ctl.replyError(conn, errorMessage(err))
		return
	}
	event := usecase.EventUserTyping
	if !isTyping {
		event = usecase.EventUserStopTyping
	}
	ctl.hub.PublishExcept([]string{chat.ConversationRoom(frame.ConversationID)}, conn.UserID, event,
		usecase.TypingEvent{ConversationID: frame.ConversationID, UserID: conn.UserID})
}

func (ctl *ChatSocketController) handleMarkRead(c *gin.Context, conn *realtime.Connection, frame socketFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "conversationId is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	if _, err := ctl.markUC.Execute(ctx, frame.ConversationID, conn.UserID); err != nil {
		ctl.replyError(conn, errorMessage(err))
	}
}

// reply addresses a single session; room fan-out stays in the use cases.
func (ctl *ChatSocketController) reply(conn *realtime.Connection, event string, data any) {
	payload, err := json.Marshal(socketEnvelope{Type: event, Data: data})
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, message string) {
	ctl.reply(conn, "error", gin.H{"message": message})
}
