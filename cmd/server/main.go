package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/donatio/aidmatch/internal/advisor"
	"github.com/donatio/aidmatch/internal/api"
	"github.com/donatio/aidmatch/internal/domain"
	"github.com/donatio/aidmatch/internal/fulfillment"
	"github.com/donatio/aidmatch/internal/llm"
	"github.com/donatio/aidmatch/internal/repository"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Ledgers live in memory unless DB_PATH points at a SQLite file.
	var requests repository.RequestStore
	var donations repository.DonationStore
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		log.Printf("Initializing database at %s", dbPath)
		db, err := repository.InitDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to init DB: %v", err)
		}
		defer db.Close()
		requests = repository.NewRequestRepo(db)
		donations = repository.NewDonationRepo(db)
	} else {
		log.Printf("Using in-memory ledgers (set DB_PATH for SQLite)")
		requests = repository.NewMemoryRequestStore()
		donations = repository.NewMemoryDonationStore()
	}

	catalog := loadCatalog()

	var generator llm.Generator = llm.NewClient(llm.Config{
		APIKey:   os.Getenv("GROQ_API_KEY"),
		Endpoint: os.Getenv("GROQ_API_URL"),
		Model:    os.Getenv("LLM_MODEL"),
	})
	if os.Getenv("LLM_CACHE") == "1" {
		log.Printf("LLM response cache enabled")
		generator = llm.NewCachedClient(generator)
	}

	// Create services.
	advisorSvc := advisor.NewService(generator, catalog, requests)
	fulfillmentSvc := fulfillment.NewService(requests, donations, catalog, advisorSvc)

	// Create router.
	router := api.NewRouter(catalog, requests, donations, fulfillmentSvc)

	log.Printf("Donatio Donation-Matching Backend")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  GET    /api/v1/institutions")
	log.Printf("  GET    /api/v1/shops")
	log.Printf("  GET    /api/v1/requests")
	log.Printf("  POST   /api/v1/requests")
	log.Printf("  GET    /api/v1/donations")
	log.Printf("  POST   /api/v1/donations")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

type seedCatalog struct {
	Shops        []domain.Shop        `json:"shops"`
	Institutions []domain.Institution `json:"institutions"`
}

// loadCatalog reads testdata/catalog.json if it can be found, otherwise
// falls back to the built-in seed data.
func loadCatalog() *repository.Catalog {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/catalog.json",
		filepath.Join(".", "testdata", "catalog.json"),
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "catalog.json"),
			filepath.Join(dir, "..", "..", "testdata", "catalog.json"),
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var seed seedCatalog
		if err := json.Unmarshal(data, &seed); err != nil {
			log.Printf("WARNING: could not parse %s: %v", path, err)
			break
		}
		log.Printf("Loaded catalog from %s (%d shops, %d institutions)",
			path, len(seed.Shops), len(seed.Institutions))
		return repository.NewCatalog(seed.Shops, seed.Institutions)
	}

	log.Printf("Using built-in seed catalog")
	return repository.NewCatalog(repository.DefaultShops(), repository.DefaultInstitutions())
}
