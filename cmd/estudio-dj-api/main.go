package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Gabichuelo/estudio-dj-api/internal/config"
	"github.com/Gabichuelo/estudio-dj-api/internal/email"
	ctrl "github.com/Gabichuelo/estudio-dj-api/internal/http/controllers"
	"github.com/Gabichuelo/estudio-dj-api/internal/http/router"
	"github.com/Gabichuelo/estudio-dj-api/internal/metrics"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
	"github.com/Gabichuelo/estudio-dj-api/internal/payments"
	"github.com/Gabichuelo/estudio-dj-api/internal/rate"
	"github.com/Gabichuelo/estudio-dj-api/internal/store"
	memstore "github.com/Gabichuelo/estudio-dj-api/internal/store/memory"
	mongostore "github.com/Gabichuelo/estudio-dj-api/internal/store/mongo"
	pgstore "github.com/Gabichuelo/estudio-dj-api/internal/store/pg"
)

const version = "1.2.0"

func main() {
	configPath := flag.String("config", "config.yaml", "ruta del archivo de configuración (opcional)")
	flag.Parse()

	// .env para desarrollo local; en producción las vars vienen del hosting.
	_ = godotenv.Load()

	logger.Init(logger.Config{
		Env:         os.Getenv("APP_ENV"),
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "estudio-dj-api",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("configuración inválida", logger.Err(err))
	}

	if err := metrics.Register(nil); err != nil {
		log.Fatal("registro de métricas falló", logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := dialStore(ctx, cfg)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = repo.Close(closeCtx)
	}()

	dispatcher := email.NewDispatcher()
	dispatcher.DialTimeout = cfg.SMTP.DialTimeout
	dispatcher.SendTimeout = cfg.SMTP.SendTimeout

	notifier := email.NewNotifier(cfg.Notify.ResendAPIKey, cfg.Notify.From)
	if !notifier.Enabled() {
		log.Warn("notificador deshabilitado: RESEND_API_KEY no configurada")
	}

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewMemoryLimiter("send-email:", cfg.Rate.SendEmail.Limit, cfg.Rate.SendEmail.Window)
	}

	controllers := ctrl.New(repo, dispatcher, notifier, payments.NewClient(), cfg.Notify.AdminEmail)
	handler := router.New(router.Deps{
		Controllers:        controllers,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		SendEmailLimiter:   limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("servidor escuchando", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("apagando servidor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("servidor terminó con error", logger.Err(err))
	}
	log.Info("apagado limpio")
}

// dialStore conecta el driver configurado. Política ante falta de URI o
// backend inaccesible: el proceso sigue sirviendo en modo degradado (store
// en memoria) y lo loguea fuerte, igual que el despliegue original, que
// arrancaba sin Mongo y solo avisaba por consola.
func dialStore(ctx context.Context, cfg config.Config) store.Repository {
	log := logger.L().With(logger.Driver(cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case "memory":
		log.Info("usando store en memoria")
		return memstore.New()

	case "postgres":
		if cfg.Storage.Postgres.DSN == "" {
			log.Error("ERROR CRÍTICO: DATABASE_URL no está definida; sirviendo en modo degradado (memoria, los datos NO persisten)")
			return memstore.New()
		}
		s, err := pgstore.New(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			log.Error("ERROR DE CONEXIÓN A POSTGRES; sirviendo en modo degradado (memoria)", logger.Err(err))
			return memstore.New()
		}
		log.Info("CONEXIÓN EXITOSA: Postgres listo")
		return s

	default:
		if cfg.Storage.Mongo.URI == "" {
			log.Error("ERROR CRÍTICO: MONGODB_URI no está definida; sirviendo en modo degradado (memoria, los datos NO persisten)")
			return memstore.New()
		}
		s, err := mongostore.New(ctx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database)
		if err != nil {
			log.Error("ERROR DE CONEXIÓN A MONGO; sirviendo en modo degradado (memoria)", logger.Err(err))
			return memstore.New()
		}
		// El driver conecta lazy: un ping temprano hace visible un cluster caído
		// en el arranque en vez del primer request.
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			log.Error("ERROR DE CONEXIÓN A MONGO (ping)", logger.Err(err))
		} else {
			log.Info("CONEXIÓN EXITOSA: MongoDB listo")
		}
		return s
	}
}
