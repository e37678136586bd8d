package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/SindhuAbhirami/civic-watch/classifier"
	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/routes"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
	"github.com/SindhuAbhirami/civic-watch/store"
)

func openStore(ctx context.Context, s config.Settings) store.Store {
	switch s.StoreDriver {
	case "memory":
		log.Println("Using in-memory store, records are lost on restart")
		return store.NewMemory()
	case "file":
		fs, err := store.NewFile(s.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data dir: %v", err)
		}
		log.Println("Using JSON file store in", s.DataDir)
		return fs
	default:
		db := config.ConnectDB(s)
		if db == nil {
			log.Fatal("Failed to connect to MongoDB")
		}
		log.Println("MongoDB connection established successfully!")
		ms := store.NewMongo(db)
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		return ms
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	settings := config.Load()
	ctx := context.Background()

	records := openStore(ctx, settings)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = config.DisconnectDB(ctx)
	}()

	rdb, err := config.ConnectRedis(ctx, settings)
	if err != nil {
		log.Fatal(err)
	}

	photos, err := storage.NewPhotos(settings.UploadsDir, "uploads")
	if err != nil {
		log.Fatalf("Failed to create uploads dir: %v", err)
	}

	var opts []services.EngineOption
	if settings.ClassifierURL != "" {
		opts = append(opts, services.WithClassifier(
			classifier.NewHTTPClient(settings.ClassifierURL, settings.ClassifierTimeout),
			settings.ClassifierTimeout))
	} else {
		log.Println("CLASSIFIER_URL not set, photo reports get the default description")
	}

	r := routes.NewRouter(routes.Deps{
		Settings:  settings,
		Identity:  services.NewIdentity(records, nil),
		Engine:    services.NewIssueEngine(records, opts...),
		Projector: services.NewProjector(records),
		Photos:    photos,
		Redis:     rdb,
	})

	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
