package main // mints a host session token for local development

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/sponsor-pass-manager/internal/config"
	"github.com/iliyamo/sponsor-pass-manager/internal/utils"
)

// tokenConfig is the part of the environment this tool needs.
type tokenConfig struct {
	HostJWTSecret string `env:"HOST_JWT_SECRET,required,notEmpty"`
}

func main() {
	manager := flag.String("manager", "manager-1", "manager id placed in the sub claim")
	role := flag.String("role", "SPONSOR_MANAGER", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	var cfg tokenConfig
	if err := config.Parse(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	tok, err := utils.NewHostToken(cfg.HostJWTSecret, *manager, *role, *ttl)
	if err != nil {
		log.Fatalf("hosttoken: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
