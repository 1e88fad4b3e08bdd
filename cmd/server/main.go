package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"arb_backend/internal/app/di"
	"arb_backend/internal/app/router"
	historyhandler "arb_backend/internal/feature/history/transport/handler"
	historyusecase "arb_backend/internal/feature/history/usecase"
	pricinghandler "arb_backend/internal/feature/pricing/transport/handler"
	pricingusecase "arb_backend/internal/feature/pricing/usecase"
	infradb "arb_backend/internal/platform/db"
	infraredis "arb_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without read cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	spreadRepo := di.NewSpreadRepository(rdb, db)

	// Usecase
	accumulator := historyusecase.NewAccumulator(spreadRepo)
	pricingUC := pricingusecase.NewPricingUsecase(di.NewMarket(), di.NewFxSource(), accumulator)
	resolver := historyusecase.NewResolver(spreadRepo, pricingUC)

	// Handler
	pricingH := pricinghandler.NewPricingHandler(pricingUC)
	historyH := historyhandler.NewHistoryHandler(resolver)

	// ルータ生成
	router := router.NewRouter(pricingH, historyH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
