package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"task-manager/internal/config"
	"task-manager/internal/httpapi"
	"task-manager/internal/repository"
	"task-manager/internal/rpc"
	"task-manager/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[info] no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetFlags(cfg.LogFlags())

	tasks, categories, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	taskSvc := service.NewTaskService(tasks, categories)
	categorySvc := service.NewCategoryService(categories)

	grpcServer := rpc.NewGRPCServer(rpc.NewServer(taskSvc, categorySvc))
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", cfg.Server.GRPCAddr, err)
	}
	go func() {
		log.Printf("[info] gRPC server listening on %s", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("[error] gRPC server: %v", err)
			stop()
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewHandler(taskSvc, categorySvc).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("[info] HTTP server listening on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[error] HTTP server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("[info] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("[info] shutdown complete")
}

// openStore picks the gorm store for sqlite and the sqlx store for the
// server databases.
func openStore(ctx context.Context, cfg config.StoreConfig) (service.TaskStore, service.CategoryStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverMySQL:
		db, err := repository.OpenSQL(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Printf("[error] close database: %v", err)
			}
		}
		return repository.NewSQLTaskRepository(db), repository.NewSQLCategoryRepository(db), closeDB, nil
	default:
		db, err := repository.NewDB(cfg.DSN, cfg.Debug)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {}
		if sqlDB, err := db.DB(); err == nil {
			closeDB = func() {
				if err := sqlDB.Close(); err != nil {
					log.Printf("[error] close database: %v", err)
				}
			}
		}
		return repository.NewTaskRepository(db), repository.NewCategoryRepository(db), closeDB, nil
	}
}
