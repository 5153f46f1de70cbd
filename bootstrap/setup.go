package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/va6996/deskagent/config"
	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/orm"
	"github.com/va6996/deskagent/plugins"
	"github.com/va6996/deskagent/plugins/clock"
	"github.com/va6996/deskagent/plugins/googlemaps"
	"github.com/va6996/deskagent/plugins/tasks"
	"github.com/va6996/deskagent/plugins/treasury"
	"github.com/va6996/deskagent/plugins/weather"
	"github.com/va6996/deskagent/tools"
	"gorm.io/gorm"
)

var openDatabase = orm.Open

// App holds the initialized components of the application
type App struct {
	Genkit   *genkit.Genkit
	Registry *tools.Registry
	Model    ai.Model
	DB       *gorm.DB
	Treasury *treasury.Client
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := log.SetLevelString(cfg.Log.Level); err != nil {
		log.Warnf(ctx, "Ignoring log level: %v", err)
	}

	// 1. Setup Genkit with AI Plugin
	gk, model, err := initGenkit(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}

	// 2. Database
	db, err := openDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	// 3. Tools
	registry := tools.NewRegistry()
	treasuryClient, err := RegisterPlugins(ctx, gk, registry, db, cfg)
	if err != nil {
		if cerr := orm.Close(db); cerr != nil {
			log.Warnf(ctx, "Failed to close database: %v", cerr)
		}
		return nil, err
	}
	log.Infof(ctx, "Registered %d tools: %v", len(registry.Names()), registry.Names())

	return &App{
		Genkit:   gk,
		Registry: registry,
		Model:    model,
		DB:       db,
		Treasury: treasuryClient,
	}, nil
}

func initGenkit(ctx context.Context, cfg config.AIConfig) (*genkit.Genkit, ai.Model, error) {
	if cfg.Plugin == "ollama" {
		log.Infof(ctx, "Using Ollama Plugin (Model: %s)...", cfg.Ollama.Model)
		ollamaPlugin := &ollama.Ollama{
			ServerAddress: cfg.Ollama.BaseURL,
		}
		gk := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))

		model := ollamaPlugin.DefineModel(gk, ollama.ModelDefinition{
			Name: cfg.Ollama.Model,
			Type: "chat",
		}, &ai.ModelOptions{
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
				Tools:      true,
				Media:      false,
			},
		})
		return gk, model, nil
	}

	log.Info(ctx, "Using Gemini Plugin...")
	if cfg.Gemini.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY must be set (or set AI_PLUGIN=ollama)")
	}
	gk := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{
		APIKey: cfg.Gemini.APIKey,
	}))
	return gk, googlegenai.GoogleAIModel(gk, cfg.Gemini.Model), nil
}

// RegisterPlugins builds every tool plugin and registers it. The returned
// treasury client is shared with callers that price securities directly.
func RegisterPlugins(ctx context.Context, gk *genkit.Genkit, registry *tools.Registry, db *gorm.DB, cfg *config.Config) (*treasury.Client, error) {
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.GeocodingBaseURL, time.Duration(cfg.Weather.TimeoutSeconds)*time.Second)
	weatherClient.DB = db
	weatherClient.CacheTTL = time.Duration(cfg.Weather.CacheTTLSeconds) * time.Second

	var geocoder plugins.Geocoder = weatherClient
	var zones plugins.TimeZoneResolver
	if cfg.Maps.APIKey != "" {
		mapsClient, err := googlemaps.NewClient(cfg.Maps.APIKey)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "Using Google Maps for geocoding and time zones")
		geocoder, zones = mapsClient, mapsClient
		weatherClient.Geocoder = mapsClient
	}

	treasuryClient, err := treasury.NewClient(orm.NewSecurityStore(db), cfg.Bond.CouponFrequency, cfg.Bond.SettlementDate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize treasury client: %w", err)
	}

	for _, p := range []tools.ToolPlugin{
		weatherClient,
		clock.NewClient(geocoder, zones),
		tasks.NewTool(time.Now),
		treasuryClient,
	} {
		p.RegisterTools(gk, registry)
	}
	return treasuryClient, nil
}
