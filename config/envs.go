package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP         string // Host IP for the server
	RESTPort       int    // Port for the REST API
	DBHost         string // Hostname or IP address for the database
	DBPort         int    // Port number for the database
	DBUser         string // Username for the database
	DBPassword     string // Password for the database
	DBName         string // Name of the database
	RedisHost      string // Hostname or IP address for the leaderboard redis
	RedisPort      int    // Port number for the leaderboard redis
	RedisPassword  string // Password for the leaderboard redis, empty when unset
	GinMode        string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret      string // Secret key for JWT signing
	JWTIssuer      string // Issuer claim for JWTs
	MazeRooms      int    // Rooms per side of every generated maze
	MazeRounds     int    // Rounds in a player session
	MazeExtraWalls int    // Walls opened after the spanning tree is carved, 0 keeps mazes perfect
	MazeMaxRooms   int    // Largest rooms value accepted on leaderboard queries
	LeaderboardTTL int    // Seconds a leaderboard lives after its first record
}

// Load reads the configuration from the environment.
// It loads environment variables from a .env file first, if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:         mustGetEnv("HOST_IP"),
		RESTPort:       mustGetEnvAsInt("REST_PORT"),
		DBHost:         mustGetEnv("DB_HOST"),
		DBPort:         mustGetEnvAsInt("DB_PORT"),
		DBUser:         mustGetEnv("DB_USER"),
		DBPassword:     mustGetEnv("DB_PASS"),
		DBName:         mustGetEnv("DB_NAME"),
		RedisHost:      mustGetEnv("REDIS_HOST"),
		RedisPort:      mustGetEnvAsInt("REDIS_PORT"),
		RedisPassword:  getEnvWithDefault("REDIS_PASS", ""),
		GinMode:        getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:      mustGetEnv("JWT_SECRET"),
		JWTIssuer:      mustGetEnv("JWT_ISSUER"),
		MazeRooms:      getEnvAsIntWithDefault("MAZE_ROOMS", 8),
		MazeRounds:     getEnvAsIntWithDefault("MAZE_ROUNDS", 10),
		MazeExtraWalls: getEnvAsIntWithDefault("MAZE_EXTRA_WALLS", 4), // 0 disables loop opening
		MazeMaxRooms:   getEnvAsIntWithDefault("MAZE_MAX_ROOMS", 40),
		LeaderboardTTL: getEnvAsIntWithDefault("LEADERBOARD_TTL", 7*24*60*60),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an integer environment variable, falling back to defaultValue when unset or malformed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[APP] [WARNING] Environment variable %s must be an integer, using %d: %v", key, defaultValue, err)
		return defaultValue
	}
	return value
}
