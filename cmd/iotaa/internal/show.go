package internal

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/maddenp/iotaa-go"
)

// taskListing is the --format yaml shape for `-s`/show output (spec.md
// ADDED 4.8).
type taskListing struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc,omitempty"`
}

// showTasks lists every task name defined by mod with the first line of
// its documentation, without executing anything (spec.md §6 "-s / show").
func showTasks(out io.Writer, mod iotaa.Module, format string) error {
	names := make([]string, 0, len(mod.Tasks()))
	for name := range mod.Tasks() {
		names = append(names, name)
	}
	sort.Strings(names)

	listings := make([]taskListing, 0, len(names))
	for _, name := range names {
		listings = append(listings, taskListing{Name: name, Doc: firstLine(mod.TaskDoc(name))})
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(listings)
	}

	for _, l := range listings {
		if l.Doc == "" {
			fmt.Fprintln(out, l.Name)
		} else {
			fmt.Fprintf(out, "%s: %s\n", l.Name, l.Doc)
		}
	}
	return nil
}

func firstLine(doc string) string {
	for i, r := range doc {
		if r == '\n' {
			return doc[:i]
		}
	}
	return doc
}
