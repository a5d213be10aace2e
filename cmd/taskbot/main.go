package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"task-manager/internal/bot"
	"task-manager/internal/config"
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
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := rpc.Dial(cfg.Bot.ServerAddr)
	if err != nil {
		log.Fatalf("rpc: %v", err)
	}
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		log.Printf("[error] task manager at %s is not reachable yet: %v", cfg.Bot.ServerAddr, err)
	}
	cancel()

	telegramBot, err := bot.New(cfg.Bot.TelegramToken, client)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local, 30*time.Second)
	if _, err := scheduler.ScheduleInterval("bot.digest", cfg.Bot.ReportInterval, telegramBot.SendDigests); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if cfg.Bot.DigestAt != "" {
		if _, err := scheduler.ScheduleDaily("bot.daily-digest", cfg.Bot.DigestAt, telegramBot.SendDigests); err != nil {
			log.Fatalf("schedule daily digest: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("[info] task bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("[info] shutdown complete")
}
