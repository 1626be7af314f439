// Command provision creates the equipment collection on the search engine
// and optionally seeds it with generated sample records.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
	"equipment_search_backend/platform/typesense"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const seedConcurrency = 8

func main() {
	recreate := flag.Bool("recreate", false, "drop the collection before creating it")
	seedCount := flag.Int("seed", 0, "number of sample equipment records to seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.ValidateEngine(); err != nil {
		panic("invalid engine config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting provision", "collection", cfg.TypesenseCollection, "recreate", *recreate, "seed", *seedCount)

	ctx := context.Background()
	engine := typesense.NewClient(typesense.Config{
		BaseURL:    cfg.TypesenseURL,
		APIKey:     cfg.TypesenseAPIKey,
		Collection: cfg.TypesenseCollection,
		Timeout:    30 * time.Second,
	})

	if err := engine.Health(ctx); err != nil {
		log.Error("search engine not reachable", "error", err, "url", cfg.TypesenseURL)
		panic("search engine not reachable: " + err.Error())
	}

	if *recreate {
		if err := engine.DeleteCollection(ctx, cfg.TypesenseCollection); err != nil && !isNotFound(err) {
			log.Error("failed to drop collection", "error", err)
			panic("failed to drop collection: " + err.Error())
		}
	}

	if err := engine.CreateCollection(ctx, equipmentSchema(cfg.TypesenseCollection)); err != nil {
		if isConflict(err) {
			log.Info("collection already exists", "collection", cfg.TypesenseCollection)
		} else {
			log.Error("failed to create collection", "error", err)
			panic("failed to create collection: " + err.Error())
		}
	} else {
		log.Info("collection created", "collection", cfg.TypesenseCollection)
	}

	if *seedCount > 0 {
		if err := seed(ctx, engine, *seedCount); err != nil {
			log.Error("seeding failed", "error", err)
			panic("seeding failed: " + err.Error())
		}
		log.Info("sample data seeded", "count", *seedCount)
	}
}

// equipmentSchema enumerates the indexable fields. The gateway's query_by
// whitelist must stay a subset of this schema; manufacturedAt carries the
// manufactured timestamp as unix seconds so range filters and sorting work.
func equipmentSchema(name string) typesense.CollectionSchema {
	return typesense.CollectionSchema{
		Name:               name,
		EnableNestedFields: true,
		Fields: []typesense.Field{
			{Name: "id", Type: "string"},
			{Name: "serial", Type: "string", Sort: true},
			{Name: "size", Type: "string", Optional: true},
			{Name: "modelId", Type: "string", Optional: true},
			{Name: "model", Type: "string", Sort: true},
			{Name: "manufacturer", Type: "string", Facet: true},
			{Name: "notes", Type: "string", Optional: true},
			{Name: "lastMaintenance", Type: "string", Optional: true},
			{Name: "manufactured", Type: "string", Optional: true},
			{Name: "manufacturedAt", Type: "int64", Optional: true, Sort: true},
			{Name: "category", Type: "string", Facet: true},
			{Name: "inMaintenance", Type: "bool", Optional: true},
			{Name: "decommissioned", Type: "bool", Optional: true},
			{Name: "verified", Type: "bool", Optional: true},
			{Name: "assignee.firefighterId", Type: "string", Optional: true},
			{Name: "assignee.firstName", Type: "string", Optional: true},
			{Name: "assignee.lastName", Type: "string", Optional: true, Sort: true},
			{Name: "location.stationId", Type: "string", Optional: true},
			{Name: "location.stationName", Type: "string", Optional: true},
		},
	}
}

func seed(ctx context.Context, engine *typesense.Client, count int) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	records := make([]transport.EquipmentRecord, count)
	for i := range records {
		records[i] = sampleRecord(rng)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for _, record := range records {
		record := record
		g.Go(func() error {
			return engine.UpsertDocument(gctx, record)
		})
	}
	return g.Wait()
}

var (
	categories = []string{"boots", "helmet", "gloves", "jacket", "trousers", "breathing apparatus"}
	models     = map[string][]string{
		"boots":               {"MULTI-BYTE BOOTS", "FIREWALKER PRO", "HEATSHIELD LOW"},
		"helmet":              {"VULCAN F1", "GUARDIAN XT", "PYRODOME"},
		"gloves":              {"GRIPMASTER HD", "THERMOFLEX", "RESCUE PRO"},
		"jacket":              {"NOMEX SENTINEL", "BLAZEGUARD", "PROXIMITY ELITE"},
		"trousers":            {"NOMEX SENTINEL", "BLAZEGUARD"},
		"breathing apparatus": {"AIRPACK 6000", "OXYGUARD TWIN"},
	}
	manufacturers = []string{
		"Tromp, Mayert and Schmidt",
		"Haag-Gerlach",
		"Konopelski Group",
		"Dickinson and Sons",
		"Veum-Muller",
	}
	firstNames = []string{"Walter", "Kayla", "Miguel", "Sofia", "Derek", "Anna", "Louis", "Petra"}
	lastNames  = []string{"Satterfield", "Turcotte", "Hernandez", "Keller", "Okafor", "Lindqvist", "Moreau", "Novak"}
	stations   = []struct{ id, name string }{
		{"station-1", "Polk County Fire Department"},
		{"station-2", "Riverside Central Station"},
		{"station-3", "Harbor District Firehouse"},
	}
	sizes = []string{"s", "m", "l", "xl"}
)

func sampleRecord(rng *rand.Rand) transport.EquipmentRecord {
	category := categories[rng.Intn(len(categories))]
	model := models[category][rng.Intn(len(models[category]))]
	station := stations[rng.Intn(len(stations))]

	manufactured := time.Now().AddDate(0, -rng.Intn(72), -rng.Intn(28)).UTC().Truncate(time.Second)
	lastMaintenance := manufactured.AddDate(0, rng.Intn(12), 0)

	record := transport.EquipmentRecord{
		ID:              "equipment-" + uuid.NewString(),
		Serial:          strPtr(fmt.Sprintf("X%d-%04d-%04d-%d-%02d", rng.Intn(10), rng.Intn(10000), rng.Intn(10000), rng.Intn(10), rng.Intn(100))),
		Model:           strPtr(model),
		ModelID:         strPtr("model-" + uuid.NewString()[:8]),
		Manufacturer:    strPtr(manufacturers[rng.Intn(len(manufacturers))]),
		Notes:           strPtr("Routine inspection record."),
		Size:            strPtr(sizes[rng.Intn(len(sizes))]),
		Category:        strPtr(category),
		Manufactured:    strPtr(manufactured.Format(time.RFC3339)),
		ManufacturedAt:  int64Ptr(manufactured.Unix()),
		LastMaintenance: strPtr(lastMaintenance.Format(time.RFC3339)),
		InMaintenance:   boolPtr(rng.Intn(5) == 0),
		Decommissioned:  boolPtr(rng.Intn(10) == 0),
		Verified:        boolPtr(rng.Intn(3) != 0),
		Assignee: &transport.Assignee{
			FirefighterID: strPtr("firefighter-" + uuid.NewString()[:8]),
			FirstName:     strPtr(firstNames[rng.Intn(len(firstNames))]),
			LastName:      strPtr(lastNames[rng.Intn(len(lastNames))]),
		},
		Location: &transport.Location{
			StationID:   strPtr(station.id),
			StationName: strPtr(station.name),
		},
	}
	return record
}

func isNotFound(err error) bool {
	var statusErr *typesense.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func isConflict(err error) bool {
	var statusErr *typesense.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict
}

func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
