package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/quonaro/portfolio-backend/api"
	"github.com/quonaro/portfolio-backend/config"
	"github.com/quonaro/portfolio-backend/database"
	"github.com/quonaro/portfolio-backend/services"
	"github.com/quonaro/portfolio-backend/storage"
)

const warmupTimeout = 30 * time.Second

func main() {
	fmt.Println("Initializing app...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	if prefix := config.GetString(c, "SSM_PARAMETER_PREFIX", ""); prefix != "" {
		if err := loadSSM(c, prefix); err != nil {
			fmt.Printf("Error loading parameters from SSM: %v\n", err)
			os.Exit(1)
		}
	}
	settings := config.Load(c)
	setupLogger(settings)

	currentDB, err := openDatabase(settings.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if db := currentDB.GormDB(); db != nil {
		if config.GetBool(c, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := database.GenerateModels(db); err != nil {
				log.Fatal().Err(err).Msg("Model generation failed")
			}
			return
		}
		if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
			log.Info().Msg("Generating column mismatch report...")
			if _, err := database.GenerateColumnMismatchReport(db); err != nil {
				log.Fatal().Err(err).Msg("Column report failed")
			}
			return
		}
		if settings.Database.Migrate {
			if err := database.Migrate(db); err != nil {
				log.Fatal().Err(err).Msg("Migration failed")
			}
		}
	}

	objects, err := storage.New(context.Background(), settings.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing object storage")
	}

	client := services.NewStoreClient(currentDB.ProjectRepo(), objects)
	catalog := services.NewCatalog(client, services.NewProjectCache(client))
	warmUp(catalog, objects)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(settings, catalog, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func loadSSM(c map[string]string, prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", "us-east-1"))
	if err != nil {
		return err
	}
	return config.LoadSSM(ctx, client, prefix, c)
}

func setupLogger(settings config.Settings) {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if settings.Server.Development {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// openDatabase connects to Postgres, or serves the bundled snapshot when DB_TYPE is unset.
func openDatabase(settings config.DatabaseSettings) (database.Database, error) {
	if settings.Type == "" {
		log.Warn().Msg("DB_TYPE is not set, serving the bundled read-only catalog")
		return database.NewSnapshot()
	}

	log.Info().Str("type", settings.Type).Msg("Connecting to database...")
	db, err := database.Open(settings)
	if err != nil {
		return database.Database{}, err
	}

	currentDB := database.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()
	if err := currentDB.Ping(ctx); err != nil {
		return database.Database{}, fmt.Errorf("test database connection: %w", err)
	}
	return currentDB, nil
}

// warmUp fills the cache and checks the bucket concurrently. Failures are logged;
// the server still starts and the cache recovers on the next refetch.
func warmUp(catalog *services.Catalog, objects storage.ObjectStore) {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		if err := catalog.Refresh(ctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		log.Info().Int("projects", len(catalog.Projects())).Msg("Catalog loaded")
		return nil
	})
	g.Go(func() error {
		if err := objects.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("Warm-up incomplete")
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
