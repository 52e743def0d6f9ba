package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/chessnote-backend/internal/config"
	"github.com/benbeisheim/chessnote-backend/internal/controller"
	"github.com/benbeisheim/chessnote-backend/internal/logging"
	"github.com/benbeisheim/chessnote-backend/internal/middleware"
	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/benbeisheim/chessnote-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(config.Default())
		l.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(cfg)

	app, boardManager := newApp(cfg, log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		sig := <-quit
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		var result *multierror.Error
		if err := boardManager.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := app.Shutdown(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := result.ErrorOrNil(); err != nil {
			log.Warn().Err(err).Msg("unclean shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newApp wires the services and routes for cfg.
func newApp(cfg config.Config, log zerolog.Logger) (*fiber.App, *service.BoardManager) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.ClientIDHeader,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    middleware.ClientIDHeader,
		AllowCredentials: cfg.AllowCredentials,
	}))
	app.Use(middleware.RequestLogger(log))

	// Initialize services
	store := notes.NewStore()
	boardManager := service.NewBoardManager(store, log)
	boardService := service.NewBoardService(boardManager, store, cfg.InitialText)

	// Initialize controllers
	boardController := controller.NewBoardController(boardService, log)
	wsController := controller.NewWebSocketController(boardService, log)

	controller.RegisterRoutes(app, boardController, wsController, websocket.Config{
		ReadBufferSize:  cfg.WSBufferSize,
		WriteBufferSize: cfg.WSBufferSize,
		Origins:         cfg.AllowOrigins,
	})
	return app, boardManager
}
