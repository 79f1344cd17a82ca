package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
)

type ingredientFixture struct {
	Name            string `json:"name" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit"`
}

type tagFixture struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Slug  string `json:"slug" yaml:"slug"`
}

// decodeFixtures reads a list of T from JSON or YAML; YAML is chosen by extension
func decodeFixtures[T any](name string, r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []T
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return out, nil
}

func readFixtures[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFixtures[T](path, f)
}

func printLoadResult(cmd *cobra.Command, opts *RootOptions, kind string, res command.LoadResult) error {
	return printResult(cmd.OutOrStdout(), opts, map[string]int{"inserted": res.Inserted, "skipped": res.Skipped}, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %d inserted, %d skipped\n", kind, res.Inserted, res.Skipped)
	})
}

func newLoadIngredientsCommand(opts *RootOptions, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "load-ingredients <file.json|file.yaml>",
		Short: "Import ingredients, skipping existing (name, unit) pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := readFixtures[ingredientFixture](args[0])
			if err != nil {
				return err
			}
			ingredients := make([]domain.Ingredient, len(fixtures))
			for i, f := range fixtures {
				ingredients[i] = domain.Ingredient{Name: f.Name, MeasurementUnit: f.MeasurementUnit}
			}
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				res, err := rt.Recipes.LoadIngredients.Handle(ctx, ingredients)
				if err != nil {
					return err
				}
				return printLoadResult(cmd, opts, "ingredients", res)
			})
		},
	}
}

func newLoadTagsCommand(opts *RootOptions, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "load-tags <file.json|file.yaml>",
		Short: "Import tags, skipping existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := readFixtures[tagFixture](args[0])
			if err != nil {
				return err
			}
			tags := make([]domain.Tag, len(fixtures))
			for i, f := range fixtures {
				tags[i] = domain.Tag{Name: f.Name, Color: f.Color, Slug: f.Slug}
			}
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				res, err := rt.Recipes.LoadTags.Handle(ctx, tags)
				if err != nil {
					return err
				}
				return printLoadResult(cmd, opts, "tags", res)
			})
		},
	}
}
