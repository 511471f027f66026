package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/ratelimit"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/upload"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/presentation/controller"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/presence"
	usercontroller "github.com/dihanio/LapakNesaBackend/internal/pkg/user/presentation/controller"
)

// Dependencies bundles the shared infrastructure handed to the per-endpoint
// controllers.
type Dependencies struct {
	Pool        *pgxpool.Pool
	Queue       qport.Client
	Hub         *realtime.Hub
	Tracker     *presence.Tracker
	Cache       cport.Cache
	Uploader    upload.Uploader
	Limiter     ratelimit.Limiter
	TokenSecret string
}

// RegisterRoutes registers the chat surface under the given router group.
// REST endpoints require a Bearer token; the websocket endpoint authenticates
// through its token query parameter instead.
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	socketCtl := controller.NewChatSocketController(deps.Pool, deps.Hub, deps.Tracker, deps.Queue, deps.Cache, deps.TokenSecret)
	g.GET("/ws", socketCtl.Handle())

	api := g.Group("", auth.Middleware(deps.TokenSecret))

	createCtl := controller.NewCreateConversationController(deps.Pool)
	listCtl := controller.NewListConversationsController(deps.Pool)
	hideCtl := controller.NewHideConversationController(deps.Pool)
	restoreCtl := controller.NewRestoreConversationController(deps.Pool)
	clearCtl := controller.NewClearConversationController(deps.Pool)
	getMsgCtl := controller.NewGetMessagesController(deps.Pool, deps.Hub)
	sendMsgCtl := controller.NewSendMessageController(deps.Pool, deps.Queue, deps.Hub, deps.Limiter)
	sendImgCtl := controller.NewSendImageController(deps.Pool, deps.Queue, deps.Hub, deps.Uploader, deps.Limiter)
	sendEncImgCtl := controller.NewSendEncryptedImageController(deps.Pool, deps.Queue, deps.Hub, deps.Limiter)
	sendGifCtl := controller.NewSendGifController(deps.Pool, deps.Queue, deps.Hub, deps.Limiter)
	markReadCtl := controller.NewMarkReadController(deps.Pool, deps.Hub)
	typingCtl := controller.NewTypingController(deps.Pool, deps.Hub, deps.Cache)
	searchCtl := controller.NewSearchMessagesController(deps.Pool)
	deleteCtl := controller.NewDeleteMessageController(deps.Pool, deps.Hub)
	unreadCtl := controller.NewUnreadCountController(deps.Pool)
	storeKeyCtl := usercontroller.NewStorePublicKeyController(deps.Pool)
	getKeyCtl := usercontroller.NewGetPublicKeyController(deps.Pool)
	presenceCtl := usercontroller.NewGetPresenceController(deps.Pool, deps.Cache)

	api.POST("/conversations", createCtl.Handle())
	api.GET("/conversations", listCtl.Handle())
	api.PUT("/conversations/:conversationId/restore", restoreCtl.Handle())
	api.DELETE("/conversations/:conversationId", hideCtl.Handle())
	api.DELETE("/conversations/:conversationId/hard", clearCtl.Handle())
	api.GET("/conversations/:conversationId/messages", getMsgCtl.Handle())
	api.POST("/conversations/:conversationId/messages", sendMsgCtl.Handle())
	api.POST("/conversations/:conversationId/image", sendImgCtl.Handle())
	api.POST("/conversations/:conversationId/encrypted-image", sendEncImgCtl.Handle())
	api.POST("/conversations/:conversationId/gif", sendGifCtl.Handle())
	api.PUT("/conversations/:conversationId/read", markReadCtl.Handle())
	api.POST("/conversations/:conversationId/typing", typingCtl.Handle())
	api.GET("/conversations/:conversationId/typing", typingCtl.HandleStatus())
	api.GET("/search", searchCtl.Handle())
	api.DELETE("/messages/:messageId", deleteCtl.Handle())
	api.GET("/unread", unreadCtl.Handle())
	api.POST("/public-key", storeKeyCtl.Handle())
	api.GET("/public-key/:userId", getKeyCtl.Handle())
	api.GET("/presence/:userId", presenceCtl.Handle())
}
