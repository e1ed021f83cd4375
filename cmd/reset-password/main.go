package main

import (
	"context"
	"flag"

	"tindahan-pos/internal/config"
	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/database"
	applog "tindahan-pos/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

// reset-password -username owner -password newsecret
func main() {
	username := flag.String("username", "", "account to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	cfg, err := config.Load()
	log := applog.New(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if *username == "" || len(*password) < 6 {
		log.Fatal("usage: reset-password -username <name> -password <at least 6 characters>")
	}

	db, err := database.Connect(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseDSN,
		SQLitePath: cfg.SQLitePath,
		LogLevel:   gormlogger.Warn,
	})
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByUsername(ctx, *username)
	if err != nil {
		log.WithError(err).WithField("username", *username).Fatal("user not found")
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}
	if err := userRepo.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		log.WithError(err).Fatal("failed to update password")
	}

	log.WithField("username", user.Username).Info("password reset")
}
