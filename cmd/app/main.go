package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Laolu02/Linq/internal"
	"github.com/Laolu02/Linq/internal/data"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/realtime"
	"github.com/Laolu02/Linq/internal/service"
	"github.com/Laolu02/Linq/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment defaults")
	}
	cfg := internal.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger := nlog.NewAppLogger(os.Stdout, cfg.EnableLogging)
	go appLogger.Run(ctx)

	db, err := data.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Could not open database {%s}: %v", cfg.DBPath, err)
	}
	storage := data.NewStorageManager(db)

	authService := service.NewAuthService(storage.GetUserRepository(), appLogger.Subsystem("auth"))
	userService := service.NewUserService(storage.GetUserRepository(), appLogger.Subsystem("users"))
	groupService := service.NewGroupService(storage.GetGroupRepository(), storage.GetUserRepository(), appLogger.Subsystem("groups"))

	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, appLogger.Subsystem("dispatch"))

	messageService := service.NewMessageService(
		storage.GetMessageRepository(),
		storage.GetConversationRepository(),
		storage.GetGroupRepository(),
		storage.GetUserRepository(),
		dispatcher,
		appLogger.Subsystem("messages"),
	)

	hub := realtime.NewHub(registry, dispatcher, messageService, groupService, userService, appLogger.Subsystem("hub"), cfg.AllowedOrigins)

	server := web.NewServer(authService, userService, groupService, messageService, hub, appLogger.Subsystem("http"))
	if err := server.Run(ctx, cfg); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
