package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-docpost/internal/dataexport"
	"github.com/alnah/go-docpost/internal/pipeline"
)

// ErrUnknownRecipe indicates a recipe element names a recipe absent from
// the data export.
var ErrUnknownRecipe = errors.New("unknown recipe")

// Recipe card layout.
const (
	gridSlots     = 9
	itemImageBase = "/images/items/"
	defaultNS     = "minecraft"
)

// RecipeTags are the element names bound to the recipe card.
var RecipeTags = []string{"mc-recipe", "mcrecipe"}

// Recipe returns the recipe card components. Both tags share one
// renderer, are leaf-only and take a single required "recipe" attribute.
func Recipe(exp *dataexport.Export) []pipeline.Component {
	if exp == nil {
		exp = dataexport.Empty()
	}
	render := func(n *html.Node) (*html.Node, error) {
		return renderRecipe(exp, attr(n, "recipe"))
	}

	out := make([]pipeline.Component, 0, len(RecipeTags))
	for _, tag := range RecipeTags {
		out = append(out, pipeline.Component{
			Tag:      tag,
			Renderer: "recipe",
			Attrs:    []pipeline.AttrSpec{{Name: "recipe", Required: true}},
			Render:   render,
		})
	}
	return out
}

func renderRecipe(exp *dataexport.Export, name string) (*html.Node, error) {
	r, ok, err := exp.Recipe(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, name)
	}
	if len(r.Inputs) > gridSlots {
		return nil, fmt.Errorf("%w: recipe %q has %d input slots, grid holds %d",
			dataexport.ErrInvalidExport, name, len(r.Inputs), gridSlots)
	}

	title := newElement("strong", "class", "recipe-title")
	title.AppendChild(newText(itemName(exp, r.Output)))

	inputs := newElement("div", "class", "recipe-inputs")
	for i := 0; i < gridSlots; i++ {
		var items []string
		if i < len(r.Inputs) {
			items = r.Inputs[i]
		}
		inputs.AppendChild(slot(exp, "recipe-item-slot", items))
	}

	output := slot(exp, "recipe-item-slot recipe-output", []string{r.Output})
	if r.Count > 1 {
		count := newElement("span", "class", "recipe-count")
		count.AppendChild(newText(strconv.Itoa(r.Count)))
		output.AppendChild(count)
	}

	card := newElement("div", "class", "recipe")
	card.AppendChild(title)
	card.AppendChild(inputs)
	card.AppendChild(newElement("div", "class", "recipe-arrow"))
	card.AppendChild(output)

	container := newElement("div", "class", "recipe-container")
	container.AppendChild(card)
	return container, nil
}

// slot renders a grid cell showing the first item. Further candidates
// are listed in data-alternatives for the client script to cycle.
func slot(exp *dataexport.Export, class string, items []string) *html.Node {
	cell := newElement("div", "class", class)
	if len(items) == 0 {
		return cell
	}
	if len(items) > 1 {
		cell.Attr = append(cell.Attr, html.Attribute{Key: "data-alternatives", Val: strings.Join(items, " ")})
	}
	name := itemName(exp, items[0])
	cell.AppendChild(newElement("img",
		"class", "recipe-icon",
		"src", itemImage(items[0]),
		"alt", name,
		"title", name,
	))
	return cell
}

// itemName falls back to the id when the export has no display name.
func itemName(exp *dataexport.Export, id string) string {
	if name, ok := exp.ItemName(id); ok {
		return name
	}
	return id
}

// itemImage maps "ns:path" to /images/items/ns/path.png.
func itemImage(id string) string {
	ns, path, found := strings.Cut(id, ":")
	if !found {
		ns, path = defaultNS, id
	}
	return itemImageBase + ns + "/" + path + ".png"
}
