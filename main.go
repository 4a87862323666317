package main

import (
	"context"
	"fmt"
	"os"

	"AstralLink/data/database/mongoutil"
	"AstralLink/global"
	"AstralLink/logger"
	mid "AstralLink/middleware"
	midsec "AstralLink/middleware/security"
	"AstralLink/module/planner"
	plannerstore "AstralLink/module/planner/store"
	"AstralLink/module/space"
	spacestore "AstralLink/module/space/store"
	"AstralLink/module/user"
	usersvc "AstralLink/module/user/service"
	userstore "AstralLink/module/user/store"
	"AstralLink/module/voice"
	voicestore "AstralLink/module/voice/store"
	"AstralLink/service/chat"
	"AstralLink/service/storage"
	redisx "AstralLink/service/storage/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := global.LoadConfig()
	global.ConfigIds()

	ctx := context.Background()
	mongoCli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.Database,
	})
	if err != nil {
		logger.Errorf("[boot] mongo connect failed: %v", err)
		os.Exit(1)
	}
	defer func() { _ = mongoCli.Close(context.Background()) }()

	// Redis only backs the presence hot cache; the process still serves
	// without it.
	var presence usersvc.PresenceMirror
	if err := redisx.InitRedis(redisx.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB}); err != nil {
		logger.Warnf("[boot] redis unavailable, presence cache disabled: %v", err)
	} else {
		presence = storage.Mirror{}
		defer func() { _ = redisx.CloseRedis() }()
	}

	sessions := userstore.NewMongoSessionStore(mongoCli)
	users := userstore.NewMongoUserStore(mongoCli)
	gate := usersvc.NewAuthGate(sessions, users, presence)

	spaceStore := spacestore.NewMongoStore(mongoCli)
	plannerStore := plannerstore.NewMongoStore(mongoCli)
	voiceStore := voicestore.NewMongoStore(mongoCli)

	userH := user.NewHandler(gate, users, usersvc.NewIdentityClient(cfg.AuthURL), cfg.CookieDomain)
	spaceH := space.NewHandler(spaceStore, users, presence)
	plannerH := planner.NewHandler(plannerStore, spaceStore)
	voiceH := voice.NewHandler(voiceStore, users)

	// The realtime core: one registry per process, injected into the socket
	// handlers.
	ws := chat.NewServer(chat.NewRegistry())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mid.Origin(cfg.CORSOrigins))
	mid.Use(midsec.Middleware(gate))

	api := r.Group("/api")

	// auth
	mid.GET(api, "/auth/session", userH.HandlerSession, mid.RouteOpt{IsAuth: false})
	mid.GET(api, "/auth/me", userH.HandlerMe, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/auth/logout", userH.HandlerLogout, mid.RouteOpt{IsAuth: false})

	// servers + channels
	mid.POST(api, "/servers", spaceH.HandlerCreateServer, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers", spaceH.HandlerListServers, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id", spaceH.HandlerGetServer, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/servers/:server_id/channels", spaceH.HandlerCreateChannel, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/channels", spaceH.HandlerListChannels, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/members", spaceH.HandlerListMembers, mid.RouteOpt{IsAuth: true})

	// messages
	mid.GET(api, "/channels/:channel_id/messages", spaceH.HandlerListMessages, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/channels/:channel_id/threads", spaceH.HandlerListThreads, mid.RouteOpt{IsAuth: false})
	mid.POST(api, "/channels/:channel_id/messages", spaceH.HandlerSendMessage, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/messages/:message_id/reactions", spaceH.HandlerAddReaction, mid.RouteOpt{IsAuth: true})

	// presence
	mid.POST(api, "/presence/status", spaceH.HandlerUpdateStatus, mid.RouteOpt{IsAuth: true})

	// calendar
	mid.POST(api, "/servers/:server_id/events", plannerH.HandlerCreateEvent, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/events", plannerH.HandlerListEvents, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/events/:event_id", plannerH.HandlerGetEvent, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/servers/:server_id/events/:event_id", plannerH.HandlerUpdateEvent, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/servers/:server_id/events/:event_id", plannerH.HandlerDeleteEvent, mid.RouteOpt{IsAuth: true})

	// tasks
	mid.POST(api, "/servers/:server_id/tasks", plannerH.HandlerCreateTask, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/tasks", plannerH.HandlerListTasks, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/tasks/:task_id", plannerH.HandlerGetTask, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/servers/:server_id/tasks/:task_id", plannerH.HandlerUpdateTask, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/servers/:server_id/tasks/:task_id", plannerH.HandlerDeleteTask, mid.RouteOpt{IsAuth: true})

	// notes
	mid.POST(api, "/servers/:server_id/notes", plannerH.HandlerCreateNote, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/notes", plannerH.HandlerListNotes, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/servers/:server_id/notes/:note_id", plannerH.HandlerGetNote, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/servers/:server_id/notes/:note_id", plannerH.HandlerUpdateNote, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/servers/:server_id/notes/:note_id", plannerH.HandlerDeleteNote, mid.RouteOpt{IsAuth: true})

	// voice membership
	mid.POST(api, "/channels/:channel_id/join", voiceH.HandlerJoin, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/channels/:channel_id/leave", voiceH.HandlerLeave, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/channels/:channel_id/participants", voiceH.HandlerListParticipants, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/channels/:channel_id/toggle-mute", voiceH.HandlerToggleMute, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/channels/:channel_id/toggle-video", voiceH.HandlerToggleVideo, mid.RouteOpt{IsAuth: true})

	// realtime sockets: the signaling path must register before the channel
	// wildcard so "signaling" never resolves as a channel id
	r.GET("/ws/signaling/:user_id", ws.HandleSignalWS)
	r.GET("/ws/:channel_id", ws.HandleChannelWS)

	logger.Infof("[HTTP] Listening on :%d", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Errorf("HTTP server failed: %v", err)
		os.Exit(1)
	}
}
