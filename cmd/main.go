package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/greenleaf/internal/cache"
	"github.com/fjod/greenleaf/internal/config"
	opsgrpc "github.com/fjod/greenleaf/internal/grpc"
	h "github.com/fjod/greenleaf/internal/http"
	"github.com/fjod/greenleaf/internal/logger"
	"github.com/fjod/greenleaf/internal/repository"
	"github.com/fjod/greenleaf/internal/store"
	"github.com/fjod/greenleaf/internal/view"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(logger.New("info", "json"))
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatalf("storefront stopped: %v", err)
	}
	log.Info("server exited")
}

// run returns only after every opened connection has been released.
func run(cfg *config.Config, log *logrus.Logger) error {
	source, closeSource, err := openCatalogSource(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open catalog source: %w", err)
	}
	defer closeSource()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogLoadTimeout)
	catalog, err := repository.LoadCatalog(ctx, source)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.WithFields(logrus.Fields{
		"source":   cfg.CatalogSource,
		"products": catalog.Len(),
	}).Info("catalog loaded")

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	cartStore := store.NewMemoryStore(catalog)

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: h.NewRouter(h.RouterConfig{
			Store:          cartStore,
			Renderer:       renderer,
			Log:            log,
			AssetsDir:      cfg.AssetsDir,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 2)

	var ops *opsgrpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		ops = opsgrpc.NewServer(log)
		go func() {
			if err := ops.Serve(lis); err != nil {
				serveErr <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	go func() {
		log.Infof("GreenLeaf storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var failure error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server...")
	case failure = <-serveErr:
		log.WithError(failure).Error("server failed, shutting down")
	}

	if ops != nil {
		ops.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	return failure
}

type namedCloser struct {
	name  string
	close func() error
}

// openCatalogSource builds the configured catalog source, optionally fronted by the Redis snapshot
// cache. The returned func releases whatever connections were opened.
func openCatalogSource(cfg *config.Config, log logrus.FieldLogger) (repository.Source, func(), error) {
	var (
		source  repository.Source
		closers []namedCloser
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].close(); err != nil {
				log.WithError(err).Warnf("failed to close %s", closers[i].name)
			}
		}
	}

	switch cfg.CatalogSource {
	case config.SourceSQLite:
		repo, err := repository.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, namedCloser{"sqlite catalog", repo.Close})
		if err := repo.RunMigrations(); err != nil {
			closeAll()
			return nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("using sqlite catalog")
		source = repo

	case config.SourceMongo:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogLoadTimeout)
		defer cancel()

		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, namedCloser{"mongo client", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return db.Client().Disconnect(ctx)
		}})

		repo := repository.NewMongoRepository(db, cfg.MongoCollection)
		if cfg.MongoSeed {
			if err := seedMongo(ctx, repo, log); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		log.WithField("uri", cfg.MongoURI).Info("using mongo catalog")
		source = repo

	default:
		source = repository.NewStaticSource()
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		closers = append(closers, namedCloser{"redis client", redisClient.Close})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.CatalogLoadTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis ping failed, catalog cache will degrade to the source")
		} else {
			log.Info("Redis ping succeeded")
		}

		source = cache.NewCachedSource(source, cache.NewRedisCache(redisClient, cfg.CatalogCacheTTL), log)
	}

	return source, closeAll, nil
}

func seedMongo(ctx context.Context, repo *repository.MongoRepository, log logrus.FieldLogger) error {
	count, err := repo.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products, err := repository.NewStaticSource().LoadProducts(ctx)
	if err != nil {
		return err
	}
	if err := repo.SeedProducts(ctx, products); err != nil {
		return err
	}
	log.WithField("products", len(products)).Info("seeded mongo catalog")
	return nil
}
