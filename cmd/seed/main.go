package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const (
	demoEmail    = "demo@fintrack.local"
	demoPassword = "demo-password"
)

// seedTransaction describes one demo ledger entry relative to today.
type seedTransaction struct {
	daysAgo     int
	description string
	category    string
	amount      int64
}

var demoTransactions = []seedTransaction{
	{daysAgo: 30, description: "Monthly salary", category: "Salary", amount: 250000},
	{daysAgo: 28, description: "Groceries", category: "Food", amount: -14500},
	{daysAgo: 21, description: "Electricity bill", category: "Utilities", amount: -8200},
	{daysAgo: 14, description: "Freelance project", category: "Side income", amount: 60000},
	{daysAgo: 10, description: "Dining out", category: "Food", amount: -5600},
	{daysAgo: 3, description: "Internet bill", category: "Utilities", amount: -4500},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Session{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)

	user, created, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	if created {
		log.Printf("Created demo user %s (password: %s)", demoEmail, demoPassword)
	} else {
		log.Printf("Demo user %s already exists, skipping transactions", demoEmail)
		return
	}

	now := time.Now()
	for _, t := range demoTransactions {
		tx := &model.Transaction{
			Date:        now.AddDate(0, 0, -t.daysAgo),
			Description: t.description,
			Category:    t.category,
			Amount:      t.amount,
			UserID:      &user.ID,
		}
		if err := transactionRepo.Create(ctx, tx); err != nil {
			log.Fatalf("Failed to seed transaction %q: %v", t.description, err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Demo transactions created: %d", len(demoTransactions))
}

// ensureDemoUser creates the demo user if it does not exist yet.
func ensureDemoUser(ctx context.Context, repo repository.UserRepository) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, false, err
	}

	user := &model.User{
		Email:        demoEmail,
		PasswordHash: string(hashed),
		Role:         "User",
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
