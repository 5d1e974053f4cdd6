package api

import (
	"log"
	"time"

	"github.com/example/container-market/internal/auth"
	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/example/container-market/internal/readmodel"
)

type demoAccount struct {
	ID       string
	Email    string
	Password string
	Name     string
	Company  string
	Role     string
}

// demoAccounts are the fixed platform accounts for demo deployments. There
// is no self-service registration; onboarding happens off-platform.
var demoAccounts = []demoAccount{
	{"acct-buyer-1", "buyer@demo.example.com", "buyer-demo-1", "Lucía Herrera", "Panacea Trading", "buyer"},
	{"acct-supplier-1", "supplier@demo.example.com", "supplier-demo-1", "Wei Chen", "Yiwu Export Co", "supplier"},
	{"acct-operator-1", "operator@demo.example.com", "operator-demo-1", "Marta Díaz", "Canal Logistics", "operator"},
}

// SeedDemoAccounts writes the demo accounts into the read store. Password
// hashes are computed at startup so plaintext never lands in storage.
func SeedDemoAccounts(readStore store.ReadStoreInterface) {
	for _, acct := range demoAccounts {
		hash, err := auth.HashPassword(acct.Password)
		if err != nil {
			log.Printf("[API] Failed to hash demo password for %s: %v", acct.Email, err)
			continue
		}
		readStore.Set("accounts", acct.ID, &readmodel.AccountReadModel{
			ID:           acct.ID,
			Email:        acct.Email,
			PasswordHash: hash,
			Name:         acct.Name,
			Company:      acct.Company,
			Role:         acct.Role,
			IsActive:     true,
			CreatedAt:    time.Now(),
		})
	}
	log.Printf("[API] Seeded %d demo accounts", len(demoAccounts))
}
