package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/facilitydesk/backend/internal/database"
	"github.com/facilitydesk/backend/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// UserData represents the structure of users in the JSON file
type UserData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type UsersFile struct {
	Users []UserData `json:"users"`
}

// CatalogFile mirrors data/initial-catalog.json.
type CatalogFile struct {
	States []struct {
		Name        string  `json:"name"`
		Order       int     `json:"order"`
		IsTerminal  bool    `json:"isTerminal"`
		Color       *string `json:"color"`
		Description *string `json:"description"`
	} `json:"states"`
	Priorities []struct {
		Name  string  `json:"name"`
		Level int     `json:"level"`
		Color *string `json:"color"`
	} `json:"priorities"`
	Categories []struct {
		Name          string  `json:"name"`
		DashboardType *string `json:"dashboardType"`
		Icon          *string `json:"icon"`
		Color         *string `json:"color"`
	} `json:"categories"`
	Buildings []struct {
		Name  string   `json:"name"`
		Code  *string  `json:"code"`
		Rooms []string `json:"rooms"`
	} `json:"buildings"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	database.Connect()

	// Run migrations first
	log.Println("Running database migrations...")
	database.AutoMigrate()

	log.Println("Seeding database with initial data...")

	if err := seedUsers(); err != nil {
		log.Printf("Error seeding users: %v", err)
	}
	if err := seedCatalog(); err != nil {
		log.Printf("Error seeding catalog: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}

func seedUsers() error {
	// Read users JSON file
	usersData, err := os.ReadFile("data/initial-users.json")
	if err != nil {
		return err
	}

	var jsonData UsersFile
	if err := json.Unmarshal(usersData, &jsonData); err != nil {
		return err
	}

	// Create users
	for _, userData := range jsonData.Users {
		// Hash password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password for %s: %v", userData.Email, err)
			continue
		}

		// Map role string to Role enum
		var role models.UserRole
		switch userData.Role {
		case "admin":
			role = models.RoleAdmin
		case "technician":
			role = models.RoleTechnician
		case "reporter":
			role = models.RoleReporter
		default:
			log.Printf("Unknown role %s for user %s, defaulting to reporter", userData.Role, userData.Email)
			role = models.RoleReporter
		}

		user := models.User{
			Email:     userData.Email,
			Password:  string(hashedPassword),
			FirstName: userData.FirstName,
			LastName:  userData.LastName,
			Role:      role,
		}

		// Check if user already exists
		var existingUser models.User
		if err := database.DB.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err := database.DB.Create(&user).Error; err != nil {
				log.Printf("Error creating user %s: %v", user.Email, err)
			} else {
				log.Printf("✅ Created user: %s (%s)", user.Email, user.Role)
			}
		} else {
			log.Printf("⚠️  User already exists: %s", user.Email)
		}
	}

	return nil
}

func seedCatalog() error {
	raw, err := os.ReadFile("data/initial-catalog.json")
	if err != nil {
		return err
	}

	var catalog CatalogFile
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return err
	}

	for _, s := range catalog.States {
		state := models.State{
			Name:        s.Name,
			Order:       s.Order,
			IsTerminal:  s.IsTerminal,
			Color:       s.Color,
			Description: s.Description,
			Active:      true,
		}
		var existing models.State
		if err := database.DB.Where("name = ?", state.Name).First(&existing).Error; err != nil {
			if err := database.DB.Create(&state).Error; err != nil {
				log.Printf("Error creating state %s: %v", state.Name, err)
			} else {
				log.Printf("✅ Created state: %s", state.Name)
			}
		}
	}

	for _, p := range catalog.Priorities {
		priority := models.Priority{
			Name:   p.Name,
			Level:  p.Level,
			Color:  p.Color,
			Active: true,
		}
		var existing models.Priority
		if err := database.DB.Where("name = ?", priority.Name).First(&existing).Error; err != nil {
			if err := database.DB.Create(&priority).Error; err != nil {
				log.Printf("Error creating priority %s: %v", priority.Name, err)
			} else {
				log.Printf("✅ Created priority: %s", priority.Name)
			}
		}
	}

	for _, c := range catalog.Categories {
		category := models.Category{
			Name:          c.Name,
			DashboardType: c.DashboardType,
			Icon:          c.Icon,
			Color:         c.Color,
			Active:        true,
		}
		var existing models.Category
		if err := database.DB.Where("name = ?", category.Name).First(&existing).Error; err != nil {
			if err := database.DB.Create(&category).Error; err != nil {
				log.Printf("Error creating category %s: %v", category.Name, err)
			} else {
				log.Printf("✅ Created category: %s", category.Name)
			}
		}
	}

	for _, b := range catalog.Buildings {
		building := models.Building{
			Name:   b.Name,
			Code:   b.Code,
			Active: true,
		}
		var existing models.Building
		if err := database.DB.Where("name = ?", building.Name).First(&existing).Error; err != nil {
			if err := database.DB.Create(&building).Error; err != nil {
				log.Printf("Error creating building %s: %v", building.Name, err)
				continue
			}
			log.Printf("✅ Created building: %s", building.Name)
		} else {
			building = existing
		}

		for _, roomName := range b.Rooms {
			room := models.Room{
				BuildingID: building.ID,
				Name:       roomName,
				Active:     true,
			}
			var existingRoom models.Room
			if err := database.DB.Where("building_id = ? AND name = ?", building.ID, roomName).First(&existingRoom).Error; err != nil {
				if err := database.DB.Create(&room).Error; err != nil {
					log.Printf("Error creating room %s: %v", roomName, err)
				}
			}
		}
	}

	return nil
}
