// Command seed wipes the user table and inserts sample users with addresses.
// It goes through the same service the API uses, so passwords are digested
// with the configured algorithm.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/addrbook/addrbook/internal/auth"
	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/repository"
	"github.com/addrbook/addrbook/internal/service"
)

type output struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Addresses int    `json:"addresses"`
}

// wiper clears every user before seeding.
type wiper interface {
	DeleteAllUsers(ctx context.Context) error
}

var samples = []service.CreateUserInput{
	{
		Email:    "ada@example.com",
		Name:     "Ada Lovelace",
		Password: "1234",
		Addresses: []service.AddressInput{
			{Name: "home", Street: "12 St James's Square", CountryCode: "UK"},
			{Name: "work", Street: "Analytical Engine Works", CountryCode: "UK"},
		},
	},
	{
		Email:    "alan@example.com",
		Name:     "Alan Turing",
		Password: "1234",
		Addresses: []service.AddressInput{
			{Name: "home", Street: "Hollymeade, Wilmslow", CountryCode: "UK"},
		},
	},
	{
		Email:    "grace@example.com",
		Name:     "Grace Hopper",
		Password: "1234",
	},
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		algorithm   = flag.String("digest", envOr("DIGEST_ALGORITHM", string(auth.DefaultAlgorithm)), "Password digest algorithm")
		timezone    = flag.String("timezone", envOr("TIMEZONE", "Europe/London"), "Time zone for created_at")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	digester, err := auth.NewDigester(*algorithm)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load time zone:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL, repository.WithPoolSize(2, 1), repository.WithLocation(loc))
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	svc := service.NewUserService(repo, digester, metrics.NewNoop())
	created, err := seed(ctx, repo, svc, samples)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if err := printOutput(os.Stdout, *format, created); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func seed(ctx context.Context, store wiper, svc *service.UserService, inputs []service.CreateUserInput) ([]output, error) {
	if err := store.DeleteAllUsers(ctx); err != nil {
		return nil, fmt.Errorf("wipe users: %w", err)
	}

	created := make([]output, 0, len(inputs))
	for _, input := range inputs {
		user, err := svc.CreateUser(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", input.Email, err)
		}
		created = append(created, output{
			ID:        user.ID,
			Email:     user.Email,
			Addresses: len(user.Addresses),
		})
	}
	return created, nil
}

func printOutput(w io.Writer, format string, created []output) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(created)
	case "plain":
		for _, u := range created {
			fmt.Fprintf(w, "user %d %s (%d addresses)\n", u.ID, u.Email, u.Addresses)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
