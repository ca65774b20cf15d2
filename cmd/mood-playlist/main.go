// Command mood-playlist runs the mood playlist web application.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-playlist/internal/db"
	"github.com/justestif/go-mood-playlist/internal/emotion"
	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/recommend"
	"github.com/justestif/go-mood-playlist/internal/web"
	webfs "github.com/justestif/go-mood-playlist/web"
)

const (
	defaultCameraURL  = "http://127.0.0.1:8081/snapshot"
	defaultEmotionURL = "http://127.0.0.1:5005"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	// Validate environment variables
	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")
	}

	recCfg, err := recommend.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading recommender config: %w", err)
	}

	cameraURL := envOr("CAMERA_URL", defaultCameraURL)
	emotionURL := envOr("EMOTION_URL", defaultEmotionURL)

	moodOpts := mood.DefaultOptions()
	if window := os.Getenv("MOOD_WINDOW"); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("parsing MOOD_WINDOW: %w", err)
		}
		moodOpts.Window = d
	}

	detector := mood.NewDetector(cameraURL, emotion.NewClient(emotionURL), moodOpts, log)
	recommender := recommend.NewService(recCfg, recommend.NewClient(recCfg), log)

	// Database is optional; without it sessions live in memory and
	// generated playlists are not recorded.
	var store *db.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err = db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing database schema: %w", err)
		}
	} else {
		log.Info("DATABASE_URL not set, running without persistence")
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	// Create and start server
	server, err := web.NewServer(web.ServerConfig{
		Addr:         envOr("ADDR", web.DefaultAddr),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  os.Getenv("SPOTIFY_REDIRECT_URI"),
		TemplatesFS:  templates,
		StaticFS:     static,
		Detector:     detector,
		Recommender:  recommender,
		Store:        store,
		Log:          log,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
