package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"secondhand_market/internal/api/handlers"
	"secondhand_market/internal/api/router"
	chatapp "secondhand_market/internal/chat/app"
	chatrepo "secondhand_market/internal/chat/repository"
	itemapp "secondhand_market/internal/item/app"
	itemrepo "secondhand_market/internal/item/repository"
	userapp "secondhand_market/internal/user/app"
	userdomain "secondhand_market/internal/user/domain"
	userrepo "secondhand_market/internal/user/repository"
	"secondhand_market/pkg/config"
	"secondhand_market/pkg/database"
	"secondhand_market/pkg/logger"

	_ "secondhand_market/docs" // 引入生成的 Swagger 文档

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MarketService, config.EnvConfig.MarketServiceLogPath)
	cfg := config.LoadConfig[config.Market](config.EnvConfig.MarketService, config.EnvConfig.MarketServiceYAMLPath)

	ctx := context.Background()

	// 1. PostgreSQL (users + chat, raw pgx)
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to database after retries",
			zap.String("address", cfg.PostgreSQL.Host), zap.Error(err))
	}
	defer pool.Close()

	// 2. PostgreSQL (items, gorm)
	gormDB, err := database.NewGormConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect gorm after retries", zap.Error(err))
	}

	// 3. MongoDB (chat archive)
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d",
		cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB database after retries",
			zap.String("address", mongoURI), zap.Error(err))
	}
	defer mongo.Close(ctx)

	// 4. Redis (sessions + room fan-out)
	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 5. MinIO (item images)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	// 6. Kafka (chat archive stream)
	kafkaConn := database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		GroupID:       cfg.Kafka.GroupID,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval) * time.Second,
	}
	kafkaWriter, err := database.NewKafkaWriterWithRetry(kafkaConn)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
	}

	// 7. Repository
	userRepo := userrepo.NewUserRepository(pool)
	if err := userRepo.InitSchema(ctx); err != nil {
		logger.Log.Fatal(fmt.Sprintf("user schema err : %v", err))
	}
	if err := chatrepo.InitChatSchema(ctx, pool); err != nil {
		logger.Log.Fatal(fmt.Sprintf("chat schema err : %v", err))
	}

	itemRepo := itemrepo.NewItemRepo(gormDB)
	if err := itemRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal(fmt.Sprintf("item migrate err : %v", err))
	}
	categoryRepo := itemrepo.NewCategoryRepo(gormDB)

	roomRepo := chatrepo.NewRoomRepository()
	msgRepo := chatrepo.NewMessageRepository()
	archiveRepo := chatrepo.NewMongoArchiveRepository(mongo.Database)
	pub := chatrepo.NewRedisPubSub(redisClient)
	stream := chatrepo.NewKafkaMessageStream(kafkaWriter)
	defer stream.Close()
	sessionRepo := database.NewRedisRepository[userdomain.UserSession](redisClient)

	// 8. UseCases
	userUC := userapp.NewUserUseCase(userRepo, cfg.SessionTTL, sessionRepo)
	itemUC := itemapp.NewItemUseCase(itemRepo, categoryRepo, minioClient)

	txRunner := chatrepo.NewTxRunner(pool)
	directory := chatapp.NewRoomDirectory(pool, txRunner, roomRepo, msgRepo, itemUC)
	chatUC := chatapp.NewChatUseCase(pool, txRunner, directory, roomRepo, msgRepo, pub, stream, itemUC)

	// 9. archive worker drains kafka into mongo
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	worker := chatapp.NewArchiveWorker(database.NewKafkaReader(kafkaConn), archiveRepo)
	go worker.Run(workerCtx)

	// 10. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MarketServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		handlers.NewUserHandler(userUC),
		handlers.NewItemHandler(itemUC, minioClient),
		handlers.NewChatHandler(directory, chatUC),
		chatapp.NewChatWebsocketHandler(chatUC, pub),
	)

	port := ":" + cfg.Port
	log.Printf("Market Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
