// Command admin provides account management utilities for SocialPulse.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"socialpulse/internal/config"
	"socialpulse/internal/database"
	"socialpulse/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Demote user from admin")
		fmt.Println("  go run ./cmd/admin unban <user_id>     - Lift a ban")
		fmt.Println("  go run ./cmd/admin list-admins         - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch command := os.Args[1]; command {
	case "promote":
		setAdmin(db, arg(2), true)
	case "demote":
		setAdmin(db, arg(2), false)
	case "unban":
		unban(db, arg(2))
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func arg(i int) string {
	if len(os.Args) <= i {
		fmt.Println("Missing <user_id> argument")
		os.Exit(1)
	}
	return os.Args[i]
}

func mustFindUser(db *gorm.DB, userID string) *models.User {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}
	return &user
}

func setAdmin(db *gorm.DB, userID string, admin bool) {
	user := mustFindUser(db, userID)

	if user.IsAdmin == admin {
		fmt.Printf("User %s (ID: %d) already has is_admin=%v\n", user.Username, user.ID, admin)
		return
	}

	user.IsAdmin = admin
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	fmt.Printf("User %s (ID: %d) is_admin set to %v\n", user.Username, user.ID, admin)
}

func unban(db *gorm.DB, userID string) {
	user := mustFindUser(db, userID)

	if !user.IsBanned {
		fmt.Printf("User %s (ID: %d) is not banned\n", user.Username, user.ID)
		return
	}

	user.IsBanned = false
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	fmt.Printf("User %s (ID: %d) unbanned\n", user.Username, user.ID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}

	fmt.Println("Admins:")
	for _, admin := range admins {
		fmt.Printf("  %d\t%s\t%s\n", admin.ID, admin.Username, admin.Email)
	}
}
