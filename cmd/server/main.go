package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localaichat/localaichat/internal/config"
	"github.com/localaichat/localaichat/internal/domain"
	"github.com/localaichat/localaichat/internal/handlers"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	folderrepo "github.com/localaichat/localaichat/internal/repository/folder"
	memoryrepo "github.com/localaichat/localaichat/internal/repository/memory"
	messagerepo "github.com/localaichat/localaichat/internal/repository/message"
	settingrepo "github.com/localaichat/localaichat/internal/repository/setting"
	userrepo "github.com/localaichat/localaichat/internal/repository/user"
	"github.com/localaichat/localaichat/internal/services"
	"github.com/localaichat/localaichat/internal/services/ai"
	"github.com/localaichat/localaichat/internal/services/chat"
	"github.com/localaichat/localaichat/internal/services/document"
	"github.com/localaichat/localaichat/internal/services/memory"
	"github.com/localaichat/localaichat/internal/services/ollama"
	"github.com/localaichat/localaichat/internal/services/search"
	"github.com/localaichat/localaichat/internal/services/tools"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("localaichat")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Could not open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Chat{},
		&domain.Message{},
		&domain.Folder{},
		&domain.Memory{},
		&domain.Setting{},
	); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	users := userrepo.NewUserRepository(db)
	chats := chatrepo.NewChatRepository(db)
	messages := messagerepo.NewMessageRepository(db)
	folders := folderrepo.NewFolderRepository(db)
	memories := memoryrepo.NewMemoryRepository(db)
	settings := settingrepo.NewSettingRepository(db)

	provider := ai.NewOpenAIProvider(ai.DefaultConfig(cfg.LLMBaseURL, cfg.LLMAPIKey))
	searcher := search.NewService(logger)
	ollamaClient := ollama.NewClient(cfg.OllamaBaseURL)

	memoryService := memory.NewService(memories, cfg.MemoryLimit, logger)
	registry := tools.NewRegistry(searcher, memoryService, logger)
	chatService := chat.NewService(
		chats, messages, memoryService, provider, registry, searcher,
		chat.Config{MaxToolRounds: cfg.MaxToolRounds}, logger,
	)
	documentService := document.NewService(logger)
	userService := services.NewUserService(users, chats, messages, folders, memories, logger)
	folderService := services.NewFolderService(folders, chats, logger)
	settingsService := services.NewSettingsService(settings, domain.ClientSettings{
		APIEndpoint:      cfg.LLMBaseURL,
		StreamingEnabled: true,
	}, logger)
	settingsService.OnEndpointChange(provider.SetBaseURL)

	if cfg.DefaultUser != "" {
		if _, err := userService.EnsureDefault(context.Background(), cfg.DefaultUser); err != nil {
			logger.Error("Could not ensure default user", "name", cfg.DefaultUser, "error", err)
			os.Exit(1)
		}
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Users:        handlers.NewUserHandler(userService, settingsService, chatService, cfg.CookieSecret, logger),
		Chats:        handlers.NewChatHandler(chatService, settingsService, logger),
		Folders:      handlers.NewFolderHandler(folderService, logger),
		Memories:     handlers.NewMemoryHandler(memoryService, logger),
		Settings:     handlers.NewSettingsHandler(settingsService, provider, logger),
		Session:      handlers.NewSessionHandler(chatService, searcher, documentService, logger),
		Ollama:       handlers.NewOllamaHandler(ollamaClient, logger),
		CookieSecret: cfg.CookieSecret,
		StaticDir:    "web",
		Logger:       logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
		// Generation and model pulls stream for a long time, so only
		// bound the read side.
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
