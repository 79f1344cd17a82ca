package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe"
	recipecmd "github.com/tair/foodgram/internal/recipe/usecase/command"
	recipetest "github.com/tair/foodgram/internal/recipe/domain/domaintest"
	"github.com/tair/foodgram/internal/user"
	usercmd "github.com/tair/foodgram/internal/user/usecase/command"
	userquery "github.com/tair/foodgram/internal/user/usecase/query"
	usertest "github.com/tair/foodgram/internal/user/domain/domaintest"
)

type fixture struct {
	users    *usertest.Memory
	recipes  *recipetest.Memory
	migrated int
}

func newFixture() *fixture {
	return &fixture{users: usertest.NewMemory(), recipes: recipetest.NewMemory()}
}

func (f *fixture) connect(context.Context, *RootOptions) (*Runtime, error) {
	return &Runtime{
		Users: &user.AdminCommands{
			Register:     usercmd.NewRegisterUserHandler(f.users),
			ChangeRole:   usercmd.NewChangeRoleHandler(f.users),
			ToggleActive: usercmd.NewToggleActiveHandler(f.users),
			Stats:        userquery.NewGetStatsHandler(f.users),
		},
		Recipes: &recipe.AdminCommands{
			LoadIngredients: recipecmd.NewLoadIngredientsHandler(f.recipes.Ingredients()),
			LoadTags:        recipecmd.NewLoadTagsHandler(f.recipes.Tags()),
		},
		Migrate: func(context.Context) error {
			f.migrated++
			return nil
		},
	}, nil
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(f.connect)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMigrate(t *testing.T) {
	f := newFixture()
	out, err := f.run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, 1, f.migrated)
	assert.Contains(t, out, "migrations applied")
}

func TestLoadIngredientsIsIdempotent(t *testing.T) {
	f := newFixture()
	path := writeFile(t, "ingredients.json", `[
		{"name": "flour", "measurement_unit": "g"},
		{"name": "flour", "measurement_unit": "kg"},
		{"name": "egg", "measurement_unit": "pcs"}
	]`)

	out, err := f.run(t, "load-ingredients", path)
	require.NoError(t, err)
	assert.Equal(t, "ingredients: 3 inserted, 0 skipped\n", out)

	out, err = f.run(t, "--json", "load-ingredients", path)
	require.NoError(t, err)
	var res map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, map[string]int{"inserted": 0, "skipped": 3}, res)
}

func TestLoadTagsFromYAML(t *testing.T) {
	f := newFixture()
	path := writeFile(t, "tags.yaml", `
- name: Breakfast
  color: "#ee6363"
  slug: breakfast
- name: Dinner
  color: "#000080"
  slug: dinner
`)
	out, err := f.run(t, "load-tags", path)
	require.NoError(t, err)
	assert.Equal(t, "tags: 2 inserted, 0 skipped\n", out)

	tags, err := f.recipes.Tags().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "#EE6363", tags[0].Color)
}

func TestLoadTagsRejectsInvalidBeforeWriting(t *testing.T) {
	f := newFixture()
	path := writeFile(t, "tags.json", `[{"name": "A", "color": "#EE6363", "slug": "a"}, {"name": "B", "color": "#123456", "slug": "b"}]`)
	_, err := f.run(t, "load-tags", path)
	require.Error(t, err)

	tags, _ := f.recipes.Tags().FindAll(context.Background())
	assert.Empty(t, tags)
}

func TestDecodeFixturesRejectsUnknownJSONFields(t *testing.T) {
	_, err := decodeFixtures[ingredientFixture]("x.json", strings.NewReader(`[{"name": "salt", "measure_unit": "g"}]`))
	assert.Error(t, err)
}

func TestAccountCommands(t *testing.T) {
	f := newFixture()
	out, err := f.run(t, "create-admin",
		"--username", "root", "--email", "root@example.com",
		"--first-name", "Ro", "--last-name", "Ot", "--password", "s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "role=admin")

	_, err = f.run(t, "create-admin", "--username", "x")
	assert.Error(t, err, "required flags")

	out, err = f.run(t, "user", "deactivate", "root")
	require.NoError(t, err)
	assert.Contains(t, out, "active=false")

	out, err = f.run(t, "user", "set-role", "root", "user")
	require.NoError(t, err)
	assert.Contains(t, out, "role=user")

	_, err = f.run(t, "user", "set-role", "root", "owner")
	assert.Error(t, err)

	out, err = f.run(t, "stats")
	require.NoError(t, err)
	assert.Equal(t, "users: 1 (admins: 0, regular: 1)\n", out)
}
