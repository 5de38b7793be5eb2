package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"menagerie/internal/config"
	"menagerie/internal/core"
	"menagerie/pkg/domain"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every record in the configured backing document",
		Long: "check loads the configured document (or the seed document when the backend\n" +
			"is still empty) and reports each record that would be rejected on submission.\n" +
			"It exits non-zero when any record is invalid.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			animals, source, err := loadForCheck(cmd, cfg)
			if err != nil {
				return err
			}
			return reportInvalid(opts, source, animals)
		},
	}
}

func loadForCheck(cmd *cobra.Command, cfg *config.Config) ([]domain.Animal, string, error) {
	backend, err := core.OpenBackend(cmd.Context(), cfg.StorageOptions())
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = backend.Close() }()

	animals, err := backend.Load(cmd.Context())
	if errors.Is(err, domain.ErrNoDocument) && cfg.Storage.SeedPath != "" {
		data, readErr := os.ReadFile(cfg.Storage.SeedPath)
		if readErr != nil {
			return nil, "", fmt.Errorf("read seed: %w", readErr)
		}
		animals, err = domain.DecodeDocument(data)
		return animals, cfg.Storage.SeedPath, err
	}
	if err != nil {
		return nil, "", err
	}
	return animals, string(backend.Driver()), nil
}

func reportInvalid(opts *rootOptions, source string, animals []domain.Animal) error {
	invalid := 0
	for i, a := range animals {
		if err := domain.ValidateRecord(a); err != nil {
			invalid++
			_, _ = fmt.Fprintf(opts.stdout, "record %d (id %q): %v\n", i, a.ID, err)
			continue
		}
		if a.ID != domain.NextID(i) {
			_, _ = fmt.Fprintf(opts.stderr, "warning: record %d carries id %q; new records are numbered by position\n", i, a.ID)
		}
	}
	_, _ = fmt.Fprintf(opts.stdout, "checked %d records from %s, %d invalid\n", len(animals), source, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid records", invalid)
	}
	return nil
}
