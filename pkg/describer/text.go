package describer

import (
	"fmt"
	"strings"

	"github.com/menta2k/page-describer/pkg/types"
)

// UntitledPage is used as the heading when the page has no title
const UntitledPage = "Untitled Page"

// RenderText renders a structured description as a line-oriented Markdown
// report: title, layout sentence, color palette, then elements grouped by
// type in order of first appearance.
func RenderText(d StructuredDescription) string {
	title := d.PageTitle
	if title == "" {
		title = UntitledPage
	}

	colors := d.ColorPalette.Description
	if colors == "" {
		colors = NoColorInformation
	}

	lines := []string{
		"# " + title,
		"",
		fmt.Sprintf("This webpage uses a %s design.", d.LayoutPattern),
		"",
		"## Color Palette",
		colors,
		"",
		"## UI Elements",
	}

	for _, group := range groupByType(d.Elements) {
		lines = append(lines, fmt.Sprintf("### %s (%d)", group.typ.Title(), len(group.elements)))
		for _, e := range group.elements {
			lines = append(lines, "- "+e.Description)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

type elementGroup struct {
	typ      types.ElementType
	elements []ElementDescription
}

func groupByType(elements []ElementDescription) []elementGroup {
	var groups []elementGroup
	index := make(map[types.ElementType]int)

	for _, e := range elements {
		typ := e.Type
		if typ == "" {
			typ = types.Unknown
		}
		i, ok := index[typ]
		if !ok {
			i = len(groups)
			index[typ] = i
			groups = append(groups, elementGroup{typ: typ})
		}
		groups[i].elements = append(groups[i].elements, e)
	}
	return groups
}
