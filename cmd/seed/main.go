package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"ecoreport/internal/database"
	"ecoreport/internal/domain/auth"
	"ecoreport/internal/domain/district"
	"ecoreport/internal/domain/notification"
	"ecoreport/internal/domain/report"
	"ecoreport/internal/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "ecoreport.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	// AutoMigrate to ensure schema is up to date
	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&report.Report{},
		&report.Upvote{},
		&report.Response{},
		&notification.Notification{},
		&district.District{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM report_responses")
	db.Exec("DELETE FROM report_upvotes")
	db.Exec("DELETE FROM reports")
	db.Exec("DELETE FROM districts")
	db.Exec("DELETE FROM users")

	// ================== DISTRICTS ==================
	log.Println("Creating districts...")
	districts := []district.District{
		{Name: "San Isidro", City: "Valenzuela", Lat: 14.7011, Lng: 120.9830},
		{Name: "Poblacion", City: "Valenzuela", Lat: 14.6958, Lng: 120.9772},
		{Name: "Malanday", City: "Valenzuela", Lat: 14.6889, Lng: 120.9650},
		{Name: "Karuhatan", City: "Valenzuela", Lat: 14.6833, Lng: 120.9772},
	}
	for i := range districts {
		db.Create(&districts[i])
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := auth.User{
		Email:        "admin@ecoreport.ph",
		PasswordHash: string(adminHash),
		Role:         auth.RoleAdmin,
		Name:         "City Administrator",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@ecoreport.ph / admin123")

	for i, d := range districts[:2] {
		hash, _ := bcrypt.GenerateFromPassword([]byte("district123"), bcrypt.DefaultCost)
		da := auth.User{
			Email:        fmt.Sprintf("admin.%d@ecoreport.ph", i+1),
			PasswordHash: string(hash),
			Role:         auth.RoleDistrictAdmin,
			Name:         d.Name + " Admin",
			District:     d.Name,
		}
		db.Create(&da)
	}

	citizens := []auth.User{}
	citizenEmails := []string{"maria@gmail.com", "jose@yahoo.com", "ana@gmail.com"}
	for i, email := range citizenEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("citizen123"), bcrypt.DefaultCost)
		citizen := auth.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         auth.RoleCitizen,
			Name:         fmt.Sprintf("Citizen %d", i+1),
			District:     districts[i%len(districts)].Name,
		}
		db.Create(&citizen)
		citizens = append(citizens, citizen)
	}

	// ================== REPORTS ==================
	log.Println("Creating sample reports...")

	samples := []struct {
		typ, description, street string
		approved                 bool
		status                   report.Status
	}{
		{"air", "Thick smoke from open burning of garbage behind the market", "Mabini St", true, report.StatusInProgress},
		{"water", "Foamy gray water draining into the creek from a workshop", "Rizal Ave", true, report.StatusPending},
		{"garbage", "Pile of construction debris blocking the sidewalk for a week", "Del Pilar St", false, report.StatusPending},
	}

	for i, s := range samples {
		owner := citizens[i%len(citizens)]
		d := districts[i%len(districts)]
		rep := report.Report{
			UserID:      owner.ID,
			District:    d.Name,
			Type:        s.typ,
			Description: s.description,
			StreetName:  s.street,
			Lat:         d.Lat,
			Lng:         d.Lng,
			Images: utils.ImagesToString([]string{
				fmt.Sprintf("https://blobs.local/report-photos/reports/%d/sample_%d.jpg", owner.ID, i+1),
			}),
			Approved: s.approved,
			Status:   s.status,
		}
		db.Create(&rep)

		if s.approved {
			db.Create(&report.Upvote{ReportID: rep.ID, UserID: citizens[(i+1)%len(citizens)].ID})
		}
	}

	log.Println("Seed completed.")
}
