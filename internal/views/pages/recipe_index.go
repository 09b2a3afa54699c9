package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"franchiseops/internal/views/layout"
	"franchiseops/models"
)

// RecipeIndexRow summarises one recipe for the index.
type RecipeIndexRow struct {
	ID       uint
	Name     string
	Lines    int
	Unlinked int
}

// RecipeIndexData is everything the recipe index renders.
type RecipeIndexData struct {
	UserName  string
	Recipes   []RecipeIndexRow
	Templates []models.PriceTemplate
}

// NewRecipeIndexData counts lines and unlinked lines per recipe.
func NewRecipeIndexData(userName string, recipes []models.Recipe, templates []models.PriceTemplate) RecipeIndexData {
	data := RecipeIndexData{UserName: userName, Templates: templates}
	for _, recipe := range recipes {
		row := RecipeIndexRow{ID: recipe.ID, Name: recipe.Name, Lines: len(recipe.Ingredients)}
		for _, line := range recipe.Ingredients {
			if line.MasterIngredientID == nil {
				row.Unlinked++
			}
		}
		data.Recipes = append(data.Recipes, row)
	}
	return data
}

// RecipeIndex lists recipes with a cost report link per price template.
func RecipeIndex(data RecipeIndexData) templ.Component {
	return layout.Layout("Recipes", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<header class="flex items-center justify-between"><h1 class="text-2xl font-semibold">Recipes</h1>`)
		if data.UserName != "" {
			b.WriteString(`<p class="text-sm">` + templ.EscapeString(data.UserName) + ` · <a href="/logout">Sign out</a></p>`)
		}
		b.WriteString(`</header>`)

		if len(data.Recipes) == 0 {
			b.WriteString(`<p class="text-stone-500">No recipes yet.</p>`)
		} else {
			b.WriteString(`<table class="w-full text-sm"><thead><tr><th>Recipe</th><th>Lines</th><th>Unlinked</th><th>Cost reports</th></tr></thead><tbody>`)
			for _, recipe := range data.Recipes {
				fmt.Fprintf(&b, `<tr data-recipe="%d"><td>%s</td><td>%d</td><td>%d</td><td>`, recipe.ID, templ.EscapeString(recipe.Name), recipe.Lines, recipe.Unlinked)
				for _, template := range data.Templates {
					fmt.Fprintf(&b, `<a class="mr-2 underline" href="/app/recipes/%d/costs/%d">%s</a>`, recipe.ID, template.ID, templ.EscapeString(template.Name))
				}
				b.WriteString(`</td></tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}))
}
