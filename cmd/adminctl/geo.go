package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/cascade"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/session"
)

func newGeoCmd(a *app) *cobra.Command {
	geoCmd := &cobra.Command{
		Use:   "geo",
		Short: "Manage the address hierarchy",
		Long: `Manage countries, regions, cities, streets, districts and buildings.

Levels may be given by name (city) or by entity (cities).`,
	}

	geoCmd.AddCommand(newGeoListCmd(a))
	geoCmd.AddCommand(newGeoAddCmd(a))
	geoCmd.AddCommand(newGeoRenameCmd(a))
	geoCmd.AddCommand(newGeoRmCmd(a))
	geoCmd.AddCommand(newGeoBrowseCmd(a))
	return geoCmd
}

func newGeoListCmd(a *app) *cobra.Command {
	var parent, district int64

	cmd := &cobra.Command{
		Use:   "list <level>",
		Short: "List the nodes of a level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := models.ParseLevel(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			var nodes []models.GeoNode
			if level == models.LevelBuilding && parent > 0 {
				nodes, err = a.client.ListBuildings(ctx, parent, optional(district))
			} else {
				nodes, err = a.client.ListGeo(ctx, level, optional(parent))
			}
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", level.Entity(), err)
			}
			return printNodes(cmd.OutOrStdout(), nodes)
		},
	}

	cmd.Flags().Int64Var(&parent, "parent", 0, "Only nodes under this parent id")
	cmd.Flags().Int64Var(&district, "district", 0, "Buildings only: filter by district id")
	return cmd
}

func newGeoAddCmd(a *app) *cobra.Command {
	var parent, district int64

	cmd := &cobra.Command{
		Use:   "add <level> <name>",
		Short: "Create a node under a parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := models.ParseLevel(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			var parentRef, districtRef *models.Ref
			if p, ok := level.Parent(); ok {
				if parent <= 0 {
					return fmt.Errorf("--parent is required for a %s", level)
				}
				if parentRef, err = a.lookupRef(ctx, p, parent); err != nil {
					return err
				}
			}
			if level == models.LevelBuilding && district > 0 {
				if districtRef, err = a.lookupRef(ctx, models.LevelDistrict, district); err != nil {
					return err
				}
			}

			var modal session.Modal[models.GeoNode]
			modal.OpenCreate()
			draft := models.NewGeoInput(level, args[1], parentRef, districtRef)
			return session.Submit(ctx, &modal, draft, func(ctx context.Context, _ *models.GeoNode, in models.GeoInput) error {
				node, err := a.client.CreateGeo(ctx, level, in)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", level, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %d %q\n", level, node.ID, node.Name)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&parent, "parent", 0, "Parent node id")
	cmd.Flags().Int64Var(&district, "district", 0, "Buildings only: district id")
	return cmd
}

func newGeoRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <level> <id> <name>",
		Short: "Rename a node, keeping its parent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := models.ParseLevel(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			node, err := a.findNode(ctx, level, id)
			if err != nil {
				return err
			}

			var parentRef, districtRef *models.Ref
			if p, ok := level.Parent(); ok && node.ParentID != nil {
				if parentRef, err = a.lookupRef(ctx, p, *node.ParentID); err != nil {
					return err
				}
			}
			if node.DistrictID != nil {
				if districtRef, err = a.lookupRef(ctx, models.LevelDistrict, *node.DistrictID); err != nil {
					return err
				}
			}

			var modal session.Modal[models.GeoNode]
			modal.OpenEdit(*node)
			draft := models.NewGeoInput(level, args[2], parentRef, districtRef)
			return session.Submit(ctx, &modal, draft, func(ctx context.Context, target *models.GeoNode, in models.GeoInput) error {
				updated, err := a.client.UpdateGeo(ctx, level, target.ID, in)
				if err != nil {
					return fmt.Errorf("failed to rename %s %d: %w", level, target.ID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed %s %d %q -> %q\n", level, updated.ID, target.Name, updated.Name)
				return nil
			})
		},
	}
}

func newGeoRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <level> <id>",
		Short: "Delete a node that nothing references",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := models.ParseLevel(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			err = a.client.DeleteGeo(ctx, level, id)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s\n", level, id, cascade.DeleteMessage(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", level, id)
			return nil
		},
	}
}

func newGeoBrowseCmd(a *app) *cobra.Command {
	ids := make(map[models.Level]*int64)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Walk the hierarchy through a chain of selections",
		Long: `Select a country, then optionally a region, city, street and district,
and print every level's options as the cascade loads them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			h := cascade.NewHierarchy(a.client, a.log)
			defer h.Close()
			if err := h.Wait(ctx); err != nil {
				return err
			}

			for _, level := range []models.Level{
				models.LevelCountry, models.LevelRegion, models.LevelCity, models.LevelStreet, models.LevelDistrict,
			} {
				id := ids[level]
				if !cmd.Flags().Changed(string(level)) {
					continue
				}
				if err := h.Select(level, id); err != nil {
					return fmt.Errorf("cannot select %s %d: %w", level, *id, err)
				}
				if err := h.Wait(ctx); err != nil {
					return err
				}
			}
			return printSnapshot(cmd.OutOrStdout(), h.Snapshot())
		},
	}

	for _, level := range []models.Level{
		models.LevelCountry, models.LevelRegion, models.LevelCity, models.LevelStreet, models.LevelDistrict,
	} {
		id := new(int64)
		ids[level] = id
		cmd.Flags().Int64Var(id, string(level), 0, "Select this "+string(level)+" id")
	}
	return cmd
}

func printSnapshot(out io.Writer, snap cascade.Snapshot) error {
	for _, level := range models.Levels() {
		view := snap[level]
		status := ""
		switch {
		case view.Disabled:
			status = " (disabled)"
		case view.Loading:
			status = " (loading)"
		case view.Err != nil:
			status = " (error: " + view.Err.Error() + ")"
		}
		fmt.Fprintf(out, "%s%s\n", level.Entity(), status)
		for _, n := range view.Items {
			marker := " "
			if view.Selected != nil && *view.Selected == n.ID {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %d %s\n", marker, n.ID, n.Name)
		}
	}
	return nil
}

// lookupRef resolves the denormalized {id, name} reference of a node.
func (a *app) lookupRef(ctx context.Context, level models.Level, id int64) (*models.Ref, error) {
	node, err := a.findNode(ctx, level, id)
	if err != nil {
		return nil, err
	}
	return &models.Ref{ID: node.ID, Name: node.Name}, nil
}

var errNodeNotFound = errors.New("not found")

func (a *app) findNode(ctx context.Context, level models.Level, id int64) (*models.GeoNode, error) {
	nodes, err := a.client.ListGeo(ctx, level, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", level.Entity(), err)
	}
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", level, id, errNodeNotFound)
}

func optional(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
