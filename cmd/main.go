package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/novellea/novellea-api/internal/router"
	"github.com/novellea/novellea-api/pkg/cart"
	"github.com/novellea/novellea-api/pkg/catalog"
	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/mongo"
	"github.com/novellea/novellea-api/pkg/orders"
	"github.com/novellea/novellea-api/pkg/rabbitmq"
	"github.com/novellea/novellea-api/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	mongo.InitMongoDB()
	mongo.EnsureIndexesOnStartup()

	var events orders.EventPublisher
	rmq, err := rabbitmq.NewRabbitMQ()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer rmq.Close()
		if err := rmq.SetupTopology(); err != nil {
			log.Fatalf("Failed to set up RabbitMQ topology: %v", err)
		}
		events = rmq
	}

	ledger := mongo.NewInventoryLedger()
	cartStore := redis.NewCartStore()
	engine := orders.NewEngine(
		mongo.NewOrderStore(),
		ledger,
		catalog.NewClient(),
		cartStore,
		events,
	)

	router.InitEngine()
	router.InitServices(engine, cart.NewService(cartStore), ledger)
	router.InitializeRoutes()

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
