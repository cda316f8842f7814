// README: API gateway; registers HTTP routes and delegates to the conversation service.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dinesmart/internal/http/handlers"
	"dinesmart/internal/http/middleware"
)

type ServerDeps struct {
	Conversation handlers.ConversationService
	Logger       zerolog.Logger
}

type Server struct {
	conversation handlers.ConversationService
	log          zerolog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		conversation: deps.Conversation,
		log:          deps.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	r.GET("/", handlers.Index)

	chat := handlers.NewChatHandler(s.conversation, s.log)
	r.POST("/api/sessions", chat.CreateSession)
	r.GET("/api/sessions/:id", chat.GetSession)
	r.POST("/api/sessions/:id/messages", chat.PostMessage)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
