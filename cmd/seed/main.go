package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/emiflair/wazhop/internal/model"
	"github.com/emiflair/wazhop/pkg/database"
)

// Seeds a small demo dataset: one referrer with an earning referral, one
// referral still inside its activation hold, and a premium account whose
// expiry already passed so the scheduler has something to chew on.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	now := time.Now()
	monthFromNow := now.Add(30 * 24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	twoMonthsAgo := now.Add(-60 * 24 * time.Hour)

	referrer := model.Account{
		Id:    uuid.New(),
		Email: "referrer@wazhop.dev",
		Name:  "Rita Referrer",
		Plan:  "pro", BillingPeriod: "monthly",
		PlanExpiry:         &monthFromNow,
		SubscriptionStatus: "active",
		AutoRenew:          true,
	}

	earningStart := twoMonthsAgo
	earning := model.Account{
		Id:    uuid.New(),
		Email: "earning@wazhop.dev",
		Name:  "Earl Earning",
		Plan:  "premium", BillingPeriod: "monthly",
		PlanExpiry:         &monthFromNow,
		SubscriptionStatus: "active",
		AutoRenew:          true,
		ReferredBy:         &referrer.Id,
	}

	held := model.Account{
		Id:    uuid.New(),
		Email: "held@wazhop.dev",
		Name:  "Holly Held",
		Plan:  "premium", BillingPeriod: "yearly",
		PlanExpiry:         &monthFromNow,
		SubscriptionStatus: "active",
		ReferredBy:         &referrer.Id,
	}

	savedCard := []byte(`{"token":"tok_demo_4242","last4":"4242","brand":"visa","expiry":"12/27"}`)
	lapsing := model.Account{
		Id:    uuid.New(),
		Email: "lapsing@wazhop.dev",
		Name:  "Luke Lapsing",
		Plan:  "premium", BillingPeriod: "monthly",
		PlanExpiry:         &yesterday,
		SubscriptionStatus: "active",
		AutoRenew:          true,
		SavedPaymentMethod: savedCard,
	}

	accounts := []model.Account{referrer, earning, held, lapsing}
	for i := range accounts {
		if err := db.Create(&accounts[i]).Error; err != nil {
			log.Fatalf("Error: failed to seed account %s: %v", accounts[i].Email, err)
		}
	}

	records := []model.ReferralRecord{
		{
			Id:             uuid.New(),
			ReferrerId:     referrer.Id,
			ReferredId:     earning.Id,
			PlanAmount:     9.99,
			CommissionRate: 0.05,
			Status:         "active",
			ActivationDate: twoMonthsAgo,
			EarningsStartDate: &earningStart,
			AccruedAmount:    1.00,
			LastStatusChange: twoMonthsAgo,
		},
		{
			Id:             uuid.New(),
			ReferrerId:     referrer.Id,
			ReferredId:     held.Id,
			PlanAmount:     9.99,
			CommissionRate: 0.05,
			Status:         "pending_activation",
			ActivationDate: now.Add(5 * 24 * time.Hour),
			LockedAmount:   0.50,
			LastStatusChange: now,
		},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			log.Fatalf("Error: failed to seed referral record: %v", err)
		}
	}

	for i, owner := range []model.Account{referrer, lapsing} {
		for j := 0; j < 2; j++ {
			shop := model.Shop{
				Id:        uuid.New(),
				AccountId: owner.Id,
				Name:      fmt.Sprintf("%s Shop %d", owner.Name, j+1),
				Slug:      fmt.Sprintf("shop-%d-%d", i, j),
				IsActive:  true,
			}
			if err := db.Create(&shop).Error; err != nil {
				log.Fatalf("Error: failed to seed shop: %v", err)
			}
			for k := 0; k < 3; k++ {
				product := model.Product{
					Id:     uuid.New(),
					ShopId: shop.Id,
					Name:   fmt.Sprintf("Product %d", k+1),
					Price:  float64(10 + k),
				}
				if err := db.Create(&product).Error; err != nil {
					log.Fatalf("Error: failed to seed product: %v", err)
				}
			}
		}
	}

	log.Println("✅ Success: demo data seeded.")
	log.Printf("   referrer: %s", referrer.Id)
	log.Printf("   lapsing premium (expiry passed): %s", lapsing.Id)
}
