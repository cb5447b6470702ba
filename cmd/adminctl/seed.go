package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// seedLevels is the column order of a seed file.
var seedLevels = []models.Level{models.LevelCountry, models.LevelRegion, models.LevelCity, models.LevelStreet}

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bulk import the address hierarchy from CSV",
		Long: `Import rows of country,region,city,street. Trailing columns may be empty.
Nodes that already exist under the same parent are reused, so a file can be
imported more than once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()

			rows, err := readSeedRows(f)
			if err != nil {
				return err
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()

			bar := progressbar.NewOptions(len(rows),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("seeding"),
				progressbar.OptionSetWidth(50),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)

			s := newSeeder(a)
			for i, row := range rows {
				if err := s.importRow(ctx, row); err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows: %d created, %d existing\n", len(rows), s.created, s.reused)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readSeedRows parses the file, skipping blank lines and a header row.
func readSeedRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), string(models.LevelCountry)) {
			continue
		}
		if len(record) > len(seedLevels) {
			return nil, fmt.Errorf("line %d: expected at most %d columns, got %d", line, len(seedLevels), len(record))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if record[0] == "" {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

type seeder struct {
	a       *app
	known   map[string]map[string]models.Ref
	created int
	reused  int
}

func newSeeder(a *app) *seeder {
	return &seeder{a: a, known: make(map[string]map[string]models.Ref)}
}

func (s *seeder) importRow(ctx context.Context, row []string) error {
	var parent *models.Ref
	for i, name := range row {
		if name == "" {
			return nil
		}
		ref, err := s.ensure(ctx, seedLevels[i], parent, name)
		if err != nil {
			return err
		}
		parent = &ref
	}
	return nil
}

// ensure returns the node called name under parent, creating it if needed.
func (s *seeder) ensure(ctx context.Context, level models.Level, parent *models.Ref, name string) (models.Ref, error) {
	var parentID *int64
	scope := string(level)
	if parent != nil {
		parentID = &parent.ID
		scope = fmt.Sprintf("%s/%d", level, parent.ID)
	}

	children, ok := s.known[scope]
	if !ok {
		nodes, err := s.a.client.ListGeo(ctx, level, parentID)
		if err != nil {
			return models.Ref{}, fmt.Errorf("failed to list %s: %w", level.Entity(), err)
		}
		children = make(map[string]models.Ref, len(nodes))
		for _, n := range nodes {
			children[n.Name] = models.Ref{ID: n.ID, Name: n.Name}
		}
		s.known[scope] = children
	}

	if ref, ok := children[name]; ok {
		s.reused++
		return ref, nil
	}

	node, err := s.a.client.CreateGeo(ctx, level, models.NewGeoInput(level, name, parent, nil))
	if err != nil {
		return models.Ref{}, fmt.Errorf("failed to create %s %q: %w", level, name, err)
	}
	ref := models.Ref{ID: node.ID, Name: node.Name}
	children[name] = ref
	s.created++
	return ref, nil
}
