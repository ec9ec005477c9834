package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/service"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	userID := flag.String("user", "", "User ID (required)")
	name := flag.String("name", "", "Display name")
	roles := flag.String("roles", "coach", "Comma separated roles")
	flag.Parse()

	if *userID == "" {
		log.Fatal("Usage: issue_token -user <USER_ID> [-name <NAME>] [-roles coach,admin]")
	}

	token, err := service.NewTokenService(cfg.JWT).IssueAccessToken(*userID, *name, strings.Split(*roles, ",")...)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
