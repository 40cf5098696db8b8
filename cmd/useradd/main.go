// Command useradd creates a shop user. There is no HTTP registration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "password, stored as given")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(gdb)

	user := &models.User{Username: *username, Password: *password}
	if err := repo.New(gdb).CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			log.Fatalf("user %q already exists", *username)
		}
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
}
