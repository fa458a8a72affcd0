// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"codeberg.org/oliverandrich/multidomain-locale/internal/database"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/models"
	"codeberg.org/oliverandrich/multidomain-locale/internal/repository"
	"github.com/urfave/cli/v3"
)

func domainsCommand() *cli.Command {
	return &cli.Command{
		Name:  "domains",
		Usage: "Manage the domain registry",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registry entries",
				Action: withRepository(listDomains),
			},
			{
				Name:      "set",
				Usage:     "Create or replace the entry for a top-level domain",
				ArgsUsage: "<tld>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "locales",
						Aliases:  []string{"l"},
						Usage:    "Allowed locales, e.g. de_AT,en_GB",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "default",
						Aliases: []string{"d"},
						Usage:   "Default locale (first of --locales if empty)",
					},
				},
				Action: withRepository(setDomain),
			},
			{
				Name:      "delete",
				Usage:     "Remove the entry for a top-level domain",
				ArgsUsage: "<tld>",
				Action:    withRepository(deleteDomain),
			},
			{
				Name:      "import",
				Usage:     "Copy the domains of a locale settings file into the registry",
				ArgsUsage: "[file]",
				Action:    withRepository(importDomains),
			},
		},
	}
}

type repoAction func(ctx context.Context, cmd *cli.Command, repo *repository.Repository) error

// withRepository opens the registry for the duration of action.
func withRepository(action repoAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dsn := cmd.String("database-dsn")
		if dsn == "" {
			return errors.New("domain registry disabled: set --database-dsn")
		}
		db, err := database.Open(dsn)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close(db)
		}()
		return action(ctx, cmd, repository.New(db))
	}
}

func listDomains(ctx context.Context, cmd *cli.Command, repo *repository.Repository) error {
	domains, err := repo.ListDomains(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TLD\tDEFAULT\tLOCALES\tUPDATED")
	for _, d := range domains {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.TLD, d.DefaultLocale, strings.Join(d.LocaleList(), ", "), d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func setDomain(ctx context.Context, cmd *cli.Command, repo *repository.Repository) error {
	tld := cmd.Args().First()
	if tld == "" {
		return errors.New("missing <tld> argument")
	}

	locales := cmd.StringSlice("locales")
	def := cmd.String("default")
	if def == "" && len(locales) > 0 {
		def = locales[0]
	}

	d := models.NewDomain(tld, locales, def)
	if err := repo.UpsertDomain(ctx, d); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.Root().Writer, "stored %s: %s (default %s)\n", d.TLD, d.Locales, d.DefaultLocale)
	return nil
}

func deleteDomain(ctx context.Context, cmd *cli.Command, repo *repository.Repository) error {
	tld := cmd.Args().First()
	if tld == "" {
		return errors.New("missing <tld> argument")
	}
	if err := repo.DeleteDomain(ctx, strings.ToLower(tld)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no registry entry for %q", tld)
		}
		return err
	}
	_, _ = fmt.Fprintf(cmd.Root().Writer, "deleted %s\n", tld)
	return nil
}

func importDomains(ctx context.Context, cmd *cli.Command, repo *repository.Repository) error {
	file := cmd.Args().First()
	if file == "" {
		file = cmd.String("locale-config")
	}

	settings, err := locale.LoadSettings(file)
	if err != nil {
		return err
	}

	for _, tld := range settings.TLDs() {
		ds := settings.Domains[tld]
		if err := repo.UpsertDomain(ctx, models.NewDomain(tld, ds.Locales, ds.Default)); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(cmd.Root().Writer, "imported %d domains from %s\n", len(settings.Domains), file)
	return nil
}
