/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/handler"
	"github.com/tieubaoca/second-brain-be/middleware"
	"github.com/tieubaoca/second-brain-be/service"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the knowledge assistant server",
	Long:  `Starts the HTTP server that ingests notes and answers questions.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildServices(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize services: %v", err)
		}

		wsService := service.NewWebSocketService(app.answer)

		corsHandler := handler.NewCorsHandler()
		ingestHandler := handler.NewIngestHandler(app.ingest, app.files)
		askHandler := handler.NewAskHandler(app.answer)
		searchHandler := handler.NewSearchHandler(app.embedder, app.store, app.cfg.RetrievalConfig.TopK)
		historyHandler := handler.NewHistoryHandler(app.archive)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		if app.cfg.JWTSecret != "" {
			apiV1.Use(middleware.AuthMiddleware(app.cfg.JWTSecret))
		} else {
			log.Println("JWT_SECRET is not set, serving the API without authentication")
		}
		{
			apiV1.POST("/ingest/text", ingestHandler.HandleText)
			apiV1.POST("/ingest/voice", ingestHandler.HandleVoice)
			apiV1.POST("/ingest/photo", ingestHandler.HandlePhoto)
			apiV1.POST("/ask", askHandler.HandleAsk)
			apiV1.POST("/search", searchHandler.HandleSearch)
			apiV1.GET("/history", historyHandler.HandleHistory)
		}

		// Websocket answers skip the bearer middleware: browsers cannot set
		// headers on websocket dials.
		router.GET("/ws", gin.WrapF(wsService.HandleAsk))

		log.Printf("Starting server on port %s...\n", app.cfg.Port)
		if err := router.Run(":" + app.cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
