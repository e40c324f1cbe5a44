package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"social-client/internal/backend"
	"social-client/internal/config"
	"social-client/internal/demo"
	"social-client/internal/events"
	"social-client/internal/feed"
	"social-client/internal/handlers"
	"social-client/internal/messages"
	"social-client/internal/middleware"
	"social-client/internal/models"
	"social-client/internal/observability"
	"social-client/internal/persist"
	"social-client/internal/profile"
	"social-client/internal/rabbitmq"
	"social-client/internal/realtime"
	"social-client/internal/session"
	"social-client/internal/storage"
	"social-client/internal/store"
	"social-client/internal/telemetry"
	"social-client/internal/ui"
	"social-client/internal/ws"
)

const serviceName = "social-client"

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("tracer shutdown error: %v", err)
			}
		}()
	}

	kv, err := storage.Open(ctx, cfg.StorageDriver, cfg.DBDSN, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer kv.Close()
	persistStore := persist.New(kv)

	if cfg.AMQPURL != "" {
		eventPub, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, serviceName)
		if err != nil {
			log.Printf("event publishing disabled: %v", err)
		} else {
			observability.SetPublisher(eventPub)
			defer eventPub.Close()
		}
	}

	auditPub := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer auditPub.Close()
	status := rabbitmq.Describe(auditPub)
	log.Printf("audit publisher: mode=%s reason=%s", status.Mode, status.Reason)
	emitter := telemetry.NewAuditEmitter(auditPub, "audit."+serviceName, serviceName, cfg.AppEnv)

	appEvents := events.NewBus()
	appEvents.Subscribe(observability.ForwardAppEvents(ctx))
	appEvents.Subscribe(emitter.SessionAudit(ctx))

	msgStore := messages.NewStore(cfg.SelfID)
	feedStore := feed.NewStore()
	sessStore := session.NewStore()
	uiStore := ui.NewStore()
	profileStore := profile.NewStore(initialProfile(ctx, persistStore))

	countDispatches("messages", msgStore)
	countDispatches("feed", feedStore)
	countDispatches("session", sessStore)
	countDispatches("ui", uiStore)
	countDispatches("profile", profileStore)

	api := backend.NewMock(backend.WithDelay(cfg.APIDelay), backend.WithSelfID(cfg.SelfID))

	var demoSource handlers.DemoSource
	if cfg.DemoData {
		client := demo.NewClient(cfg.DemoTimeout)
		loadDemoConversations(ctx, client, api, cfg.SelfID)
		demoSource = client
	}

	rt := realtime.NewBus()
	unbind := realtime.Bind(rt, msgStore)
	defer unbind()

	hub := ws.NewHub()
	detach := hub.Attach(msgStore)
	defer detach()
	wsHandler := ws.NewHandler(hub, msgStore)
	searchWS := ws.NewSearchHandler(api, cfg.SearchDebounce)

	msgHandler := handlers.NewMessagesHandler(msgStore, api, cfg.TypingTimeout)
	defer msgHandler.Close()
	feedHandler := handlers.NewFeedHandler(feedStore, api, demoSource)
	searchHandler := handlers.NewSearchHandler(api)
	authHandler := handlers.NewAuthHandler(sessStore, persistStore, appEvents)
	profileHandler := handlers.NewProfileHandler(profileStore, persistStore, api)
	uiHandler := handlers.NewUIHandler(uiStore)

	router := gin.New()

	// middlewares
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.Session(persistStore))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/conversations", msgHandler.ListConversations)
	router.POST("/conversations", msgHandler.StartConversation)
	router.GET("/conversations/:id/messages", msgHandler.GetMessages)
	router.POST("/conversations/:id/messages", msgHandler.PostMessage)
	router.POST("/conversations/:id/typing", msgHandler.Typing)
	router.POST("/conversations/:id/read", msgHandler.MarkRead)
	router.DELETE("/conversations/:id/active", msgHandler.CloseConversation)
	router.GET("/unread", msgHandler.Unread)

	router.GET("/feed", feedHandler.ListPosts)
	router.POST("/feed", feedHandler.CreatePost)
	router.POST("/feed/:id/like", feedHandler.ToggleLike)
	router.POST("/feed/:id/repost", feedHandler.ToggleRepost)
	router.POST("/feed/:id/view", feedHandler.View)
	router.GET("/feed/:id/comments", feedHandler.Comments)
	router.GET("/trending", feedHandler.Trending)
	router.GET("/me/posts", feedHandler.MyPosts)

	router.GET("/search", searchHandler.Search)

	router.GET("/profile", profileHandler.Get)
	router.PATCH("/profile", profileHandler.Update)
	router.POST("/profile/following/:id", profileHandler.Follow)
	router.DELETE("/profile/following/:id", profileHandler.Unfollow)
	router.POST("/profile/replies", profileHandler.AddReply)
	router.DELETE("/profile/replies/:id", profileHandler.RemoveReply)
	router.POST("/profile/media", profileHandler.AddMedia)
	router.DELETE("/profile/media/:id", profileHandler.RemoveMedia)
	router.GET("/who-to-follow", profileHandler.WhoToFollow)
	router.PUT("/who-to-follow", profileHandler.SaveWhoToFollow)

	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authHandler.Logout)
	router.GET("/auth/me", authHandler.Me)
	router.PATCH("/auth/me", middleware.RequireSession(), authHandler.UpdateMe)

	router.GET("/ui", uiHandler.Get)
	router.POST("/ui/theme", uiHandler.SetTheme)
	router.POST("/ui/theme/toggle", uiHandler.ToggleTheme)
	router.POST("/ui/sidebar/toggle", uiHandler.ToggleSidebar)

	router.GET("/ws", wsHandler.HandleLobby)
	router.GET("/ws/conversations/:id", wsHandler.HandleConversation)
	router.GET("/ws/search", searchWS.Handle)

	handlers.RegisterDebugRoutes(router, emitter, rt, cfg.DebugEnabled())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s env=%s storage=%s demo=%t", cfg.Port, cfg.AppEnv, cfg.StorageDriver, cfg.DemoData)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

func countDispatches[S any, A interface{ Type() string }](name string, st *store.Store[S, A]) {
	st.Subscribe(func(_ S, a A) {
		observability.IncDispatch(name, a.Type())
	})
}

// initialProfile overlays the persisted profile on the demo defaults.
func initialProfile(ctx context.Context, p *persist.Store) profile.State {
	state := profile.DefaultState(time.Now())
	saved, ok := p.LoadProfile(ctx)
	if !ok {
		return state
	}
	state.Me.Name = saved.Name
	state.Me.Handle = saved.Handle
	state.Me.Bio = saved.Bio
	state.Me.AvatarURL = saved.AvatarURL
	state.Me.BannerURL = saved.BannerURL
	return state
}

func loadDemoConversations(ctx context.Context, client *demo.Client, api *backend.Mock, selfID string) {
	convs := client.BuildConversations(ctx, demo.DefaultConversationCount)
	threads := make(map[string][]models.Message, len(convs))
	for _, conv := range convs {
		threads[conv.ID] = client.BuildThread(conv.ID, conv.Peer, selfID)
	}
	api.Load(convs, threads)
	log.Printf("demo conversations loaded: count=%d", len(convs))
}
