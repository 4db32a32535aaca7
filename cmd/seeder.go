package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminEmail := "admin@endemicwatch.org"
		reporterEmail := "reporter@endemicwatch.org"

		if clearData {
			for _, email := range []string{adminEmail, reporterEmail} {
				if err := db.Exec("DELETE FROM sessions WHERE user_id IN (SELECT id FROM users WHERE email = ?)", email).Error; err != nil {
					log.Fatalf("failed to clear sessions for %s: %v", email, err)
				}
				if err := db.Exec("DELETE FROM users WHERE email = ?", email).Error; err != nil {
					log.Fatalf("failed to clear user %s: %v", email, err)
				}
			}
			fmt.Println("Cleared previously seeded demo users")
		}

		seedUsers := []struct {
			Email string
			Name  string
			Role  string
		}{
			{adminEmail, "Ministry Admin", "admin"},
			{reporterEmail, "Clinic Reporter", "health_professional"},
		}

		for _, u := range seedUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			if err := db.Exec("INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())", u.Email, u.Name, string(hash), u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		diseases := []struct {
			Name string
			Code string
			Desc string
		}{
			{"Dengue Fever", "DENGUE", "Mosquito-borne viral infection common in the rainy season"},
			{"Malaria", "MALARIA", "Parasitic infection transmitted by Anopheles mosquitoes"},
			{"Tuberculosis", "TB", "Bacterial infection primarily affecting the lungs"},
			{"Leptospirosis", "LEPTO", "Bacterial disease spread through water contaminated by animal urine"},
			{"COVID-19", "COVID19", "Respiratory illness caused by the SARS-CoV-2 virus"},
		}

		for _, d := range diseases {
			var exists int
			row := db.Raw("SELECT 1 FROM diseases WHERE code = ?", d.Code).Row()
			if err := row.Scan(&exists); err != nil {

				if err := db.Exec("INSERT INTO diseases (name, code, description, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", d.Name, d.Code, d.Desc).Error; err != nil {
					log.Fatalf("failed to insert disease %s: %v", d.Code, err)
				}
				fmt.Printf("Seeded disease: %s\n", d.Name)
			}
		}

		fmt.Println("Disease catalog seeded successfully")
	},
}
