package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puravida/internal/cart"
	"puravida/internal/cms"
	"puravida/internal/config"
	"puravida/internal/http/handlers"
	applog "puravida/internal/log"
	"puravida/internal/mail"
	"puravida/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	applog.Init(cfg.Env, cfg.LogLevel, out)

	if cfg.CosmicBucketSlug == "" {
		log.Printf("[warn] COSMIC_BUCKET_SLUG is empty; content requests will fail")
	}
	content := cms.NewClient(cms.Config{
		APIURL:     cfg.CosmicAPIURL,
		BucketSlug: cfg.CosmicBucketSlug,
		ReadKey:    cfg.CosmicReadKey,
		Depth:      cfg.CMSDepth,
		Timeout:    cfg.CMSTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openCartStorage(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStorage()

	var sender mail.Sender = mail.LogSender{}
	if cfg.MailEnabled() {
		s, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			log.Fatal(err)
		}
		sender = s
	} else {
		log.Printf("[mail] SMTP_HOST not set; contact messages are written to the log")
	}

	deps := handlers.NewDeps(content, storage, sender, cfg)
	app := handlers.NewApp(handlers.AppOptions{
		TemplateDir: cfg.TemplateDir,
		StaticDir:   cfg.StaticDir,
		SiteName:    cfg.SiteName,
		Production:  cfg.IsProduction(),
		AccessLog:   true,
	}, deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			applog.Error(nil, "server.shutdown", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "env": cfg.Env, "cart_store": cfg.CartStore})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// openCartStorage selects the cart backend named by CART_STORE.
func openCartStorage(ctx context.Context, cfg config.Config) (cart.Storage, func(), error) {
	switch cfg.CartStore {
	case "", "memory":
		return cart.NewMemoryStorage(), func() {}, nil

	case "sqlite":
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.DBDSN, err)
		}
		r := repos.NewCartSnapshotRepo(db)
		if cfg.CartTTL > 0 {
			go purgeCarts(ctx, r, cfg.CartTTL)
		}
		return r, func() { _ = db.Close() }, nil

	case "redis":
		if cfg.RedisURL == "" {
			return nil, nil, fmt.Errorf("CART_STORE=redis requires REDIS_URL")
		}
		client, err := cart.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cart.NewRedisStorage(client, cfg.CartTTL), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown CART_STORE %q (want memory, sqlite or redis)", cfg.CartStore)
	}
}

// purgeCarts drops SQLite cart snapshots idle for longer than ttl.
func purgeCarts(ctx context.Context, r *repos.CartSnapshotRepo, ttl time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		n, err := r.PurgeOlderThan(ctx, time.Now().Add(-ttl))
		if err != nil {
			applog.Error(nil, "cart.purge", err, nil)
		} else if n > 0 {
			applog.Info(nil, "cart.purge", map[string]any{"deleted": n})
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
