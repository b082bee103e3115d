package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/maze-runner/api"
	api_i "github.com/beka-birhanu/maze-runner/api/i"
	"github.com/beka-birhanu/maze-runner/api/identity"
	mazeapi "github.com/beka-birhanu/maze-runner/api/maze"
	"github.com/beka-birhanu/maze-runner/config"
	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/infrastruture/leaderboard"
	"github.com/beka-birhanu/maze-runner/infrastruture/logger"
	"github.com/beka-birhanu/maze-runner/infrastruture/repo"
	"github.com/beka-birhanu/maze-runner/infrastruture/token"
	"github.com/beka-birhanu/maze-runner/service"
	"github.com/beka-birhanu/maze-runner/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sweepInterval = time.Minute
	sessionIdle   = 30 * time.Minute
)

// Global variables for dependencies
var (
	envs              config.Config
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	userRepo          *repo.UserRepo
	scoreBoard        i.Leaderboard
	roundManager      *service.RoundManager
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	sessionController api_i.Controller
	router            *api.Router
	appLogger         i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Creating %s logger: %v\n", prefix, err)
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", envs.DBUser, envs.DBPassword, envs.DBHost, envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initUserRepo(ctx context.Context, client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating user indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("User repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", envs.RedisHost, envs.RedisPort),
		Password: envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initLeaderboard() {
	var err error
	scoreBoard, err = leaderboard.NewRedisLeaderboard(redisClient, "maze", envs.LeaderboardTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating leaderboard: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Leaderboard initialized")
}

func initRoundManager() {
	sessionConfig := game.Config{
		Rooms:      envs.MazeRooms,
		Rounds:     envs.MazeRounds,
		ExtraWalls: envs.MazeExtraWalls,
	}

	var err error
	roundManager, err = service.NewRoundManager(&service.Config{
		SessionFactory: func() (*game.Session, error) {
			return game.NewSession(sessionConfig)
		},
		Leaderboard: scoreBoard,
		UserRepo:    userRepo,
		Logger:      newLogger("ROUND-MANAGER", config.ColorCyan),
		MaxRooms:    envs.MazeMaxRooms,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating round manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Round manager initialized")
}

func initSessionController() {
	var err error
	sessionController, err = mazeapi.NewSessionController(roundManager, envs.MazeRooms)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(envs.JWTSecret, envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer, newLogger("AUTH", config.ColorMagenta))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    envs.GinMode,
		Controllers:             []api_i.Controller{authController, sessionController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	envs = config.Load()
	appLogger = newLogger("APP", config.ColorGreen)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 60*time.Second)
	defer connectCancel()

	initMongo(connectCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initUserRepo(connectCtx, mongoClient)

	initRedis(connectCtx)
	defer redisClient.Close()
	initLeaderboard()

	initRoundManager()
	go roundManager.RunSweeper(ctx, sweepInterval, sessionIdle)

	initSessionController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
