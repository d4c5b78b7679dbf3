package main

import (
	"log"
	"math/big"
	"os"

	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/rangda/adapters/events"
	"github.com/layer-3/rangda/adapters/gateway"
	"github.com/layer-3/rangda/adapters/store"
	"github.com/layer-3/rangda/adapters/tokenizer"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
	"github.com/layer-3/rangda/transport/http"
)

func main() {
	cfg := service.Config{
		ClientSWA:        requireAddress("RANGDA_CLIENT_SWA"),
		ClientPrivateKey: requireEnv("RANGDA_CLIENT_PRIVATE_KEY"),
		EntryPoint:       requireAddress("RANGDA_ENTRYPOINT_ADDRESS"),
		Paymaster:        requireAddress("RANGDA_PAYMASTER_ADDRESS"),
		JobManager:       requireAddress("RANGDA_JOB_MANAGER_ADDRESS"),
		FeePayer:         requireAddress("RANGDA_FEE_PAYER_ADDRESS"),
		VendorChainID:    requireChainID("RANGDA_VENDOR_CHAIN_ID"),
	}

	gatewayURL := requireEnv("RANGDA_GATEWAY_URL")

	// Generate a fresh ECDSA key pair for access tokens (you would
	// normally load this from somewhere secure)
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}

	var sessionStore ports.SessionStore
	var eventPub ports.EventPublisher

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		sessionStore = store.NewRedisStore(redisClient)

		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		log.Println("REDIS_URL not set, using in-memory session store")
		sessionStore = store.NewMemoryStore()
	}

	gw := gateway.NewClient(gatewayURL, nil)
	jwtTokenizer := tokenizer.NewJWTTokenizer(signKey)

	authService := service.NewAuthService(gw, sessionStore, jwtTokenizer, cfg)
	intentService := service.NewIntentService(gw, eventPub, cfg)
	orderTracker := service.NewOrderTracker(gw, eventPub, 0)

	router := http.SetupRouter(authService, intentService, orderTracker)

	listen := os.Getenv("RANGDA_LISTEN")
	if listen == "" {
		listen = ":9000"
	}
	if err := router.Run(listen); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		log.Fatalf("%s is required", name)
	}
	return v
}

func requireAddress(name string) common.Address {
	v := requireEnv(name)
	if !common.IsHexAddress(v) {
		log.Fatalf("%s must be a hex address, got %q", name, v)
	}
	return common.HexToAddress(v)
}

func requireChainID(name string) *big.Int {
	v := requireEnv(name)
	id, ok := new(big.Int).SetString(v, 10)
	if !ok {
		log.Fatalf("%s must be a base-10 chain id, got %q", name, v)
	}
	return id
}
