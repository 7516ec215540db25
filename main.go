package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"padel_server/config"
	"padel_server/middleware"
	"padel_server/routes"
	"padel_server/services"
	"padel_server/socket"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	// Initialize services
	notificationService := &services.NotificationService{Dynamo: dynamoService}
	statsService := &services.StatsService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService, Notifications: notificationService}
	resultService := &services.ResultService{Dynamo: dynamoService, Stats: statsService, Notifications: notificationService}
	followService := &services.FollowService{Dynamo: dynamoService}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}
	chatService := &services.ChatService{Dynamo: dynamoService, Matches: matchService}
	s3Service := services.NewS3Service(awsCfg, cfg.S3Bucket)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PadelMatch")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Socket.IO server for live match chat
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Register routes
	auth := middleware.AuthMiddleware(userProfileService)
	routes.RegisterUserProfileRoutes(r, userProfileService, auth)
	routes.RegisterMatchRoutes(r, matchService, auth)
	routes.RegisterResultRoutes(r, resultService, auth)
	routes.RegisterNotificationRoutes(r, notificationService, auth)
	routes.RegisterFollowRoutes(r, followService, auth)
	routes.RegisterChatRoutes(r, chatService, auth)
	routes.RegisterS3Routes(r, s3Service, auth)

	// Pending-results sweep: surface matches past their date without a
	// confirmed score. Read-only; the count is logged for operators.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			matches, err := resultService.ListPendingResults(context.Background())
			if err != nil {
				log.Printf("Pending-results sweep failed: %v", err)
				continue
			}
			log.Printf("Pending-results sweep: %d matches awaiting a result", len(matches))
		}
	}()

	// Notification cleanup: drop notifications for deleted matches
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := notificationService.CleanupOrphans(context.Background())
			if err != nil {
				log.Printf("Notification cleanup failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Notification cleanup: removed %d orphaned notifications", removed)
			}
		}
	}()

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
