package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-booking-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// resolveDialector picks MySQL when a DSN/URL or DB_HOST is configured and
// falls back to a local SQLite file otherwise, so development runs need no
// database server at all.
func resolveDialector() (gorm.Dialector, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			dsn, err := mysqlDSNFromURL(raw)
			if err != nil {
				return nil, err
			}
			return mysql.Open(dsn), nil
		}
		if strings.HasPrefix(raw, "sqlite://") {
			return sqlite.Open(strings.TrimPrefix(raw, "sqlite://")), nil
		}
		return mysql.Open(raw), nil
	}

	if host := strings.TrimSpace(os.Getenv("DB_HOST")); host != "" {
		user := envOrDefault("DB_USER", "root")
		pass := envOrDefault("DB_PASS", "")
		port := envOrDefault("DB_PORT", "3306")
		dbName := envOrDefault("DB_NAME", "hotel_bookings")
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, dbName,
		)
		return mysql.Open(dsn), nil
	}

	return sqlite.Open(envOrDefault("SQLITE_PATH", "hotel_bookings.db")), nil
}

// SeedDatabase ensures a default admin account and the default room inventory
// exist. Safe to run on every startup.
func SeedDatabase() {
	adminEmail := envOrDefault("ADMIN_EMAIL", "admin@hotel.com")

	var adminCount int64
	DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				Email:          adminEmail,
				HashedPassword: string(hash),
				FullName:       "Administrator",
				Role:           models.RoleAdmin,
				IsActive:       true,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		defaultRooms := []models.Room{
			{RoomType: "Room Type 1", TotalRooms: 50, AvailableRooms: 50, Price: 100.0},
			{RoomType: "Room Type 2", TotalRooms: 30, AvailableRooms: 30, Price: 150.0},
			{RoomType: "Room Type 3", TotalRooms: 20, AvailableRooms: 20, Price: 200.0},
			{RoomType: "Room Type 4", TotalRooms: 25, AvailableRooms: 25, Price: 180.0},
			{RoomType: "Room Type 5", TotalRooms: 15, AvailableRooms: 15, Price: 250.0},
		}
		if err := DB.Create(&defaultRooms).Error; err != nil {
			log.Printf("warning: failed to seed default rooms: %v", err)
		} else {
			log.Println("Default rooms seeded")
		}
	}
}

func ConnectDatabase() error {
	dialector, err := resolveDialector()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// Parent tables first.
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
