package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
	"github.com/lucky0011198/AVR-GARMENT/internal/infra/sqlite"
	"github.com/lucky0011198/AVR-GARMENT/internal/store"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("force", false, "Seed demo parties even when the database is not empty")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo parties and the configured users into the database",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.Database.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	users := make([]domain.User, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, domain.User{ID: u.ID, Name: u.Name})
	}
	if err := db.SeedUsers(users); err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	n, err := db.CountParties()
	if err != nil {
		return err
	}
	if n > 0 && !force {
		fmt.Printf("database already holds %d parties, seeded users only (use --force to overwrite)\n", n)
		return nil
	}

	parties := store.SeedParties()
	if err := db.SaveParties(parties); err != nil {
		return err
	}
	fmt.Printf("seeded %d parties and %d users into %s\n", len(parties), len(users), db.Path())
	return nil
}
