package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/navigation"
)

// navDocument lists sections and item contributions in registration order.
// Items may name a section that is declared later, or never.
type navDocument struct {
	Sections []navSection `yaml:"sections"`
	Items    []navItem    `yaml:"items"`
}

type navSection struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Collapsed bool   `yaml:"collapsed"`
	Index     *int   `yaml:"index"`
}

type navItem struct {
	Section  string `yaml:"section"`
	Title    string `yaml:"title"`
	Href     string `yaml:"href"`
	Tab      string `yaml:"tab"`
	TabTitle string `yaml:"tabTitle"`
	Disabled bool   `yaml:"disabled"`
}

func newNavCmd(a *app) *cobra.Command {
	var (
		file       string
		itemsFirst bool
	)
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Compose a navigation panel from a YAML contribution list",
		Long: `Read navigation contributions from a YAML document and print the resolved
panel. All items are registered before their sections when --items-first is
set, which exercises deferred attachment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var raw []byte
			var err error
			if file == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}
			var doc navDocument
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			b := navigation.NewBuilder(navigation.WithLogger(logging.Component(a.logger, "navigation")))
			if itemsFirst {
				addItems(b, doc.Items)
				addSections(b, doc.Sections)
			} else {
				addSections(b, doc.Sections)
				addItems(b, doc.Items)
			}
			panel := b.Build()
			printPanel(cmd.OutOrStdout(), panel)
			if len(panel.Orphans()) > 0 {
				return fmt.Errorf("%d section(s) referenced by items were never declared", len(panel.Orphans()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "navigation YAML document; - for stdin")
	cmd.Flags().BoolVar(&itemsFirst, "items-first", false, "register every item before any section")
	return cmd
}

func addSections(b *navigation.Builder, sections []navSection) {
	for _, s := range sections {
		section := navigation.Section{ID: s.ID, Title: s.Title, Collapsed: s.Collapsed}
		if s.Index != nil {
			b.InsertSection(*s.Index, section)
			continue
		}
		b.AddSection(section)
	}
}

func addItems(b *navigation.Builder, items []navItem) {
	for _, it := range items {
		b.AddItem(it.Section, navigation.Item{
			Title:    it.Title,
			Href:     it.Href,
			TabID:    it.Tab,
			TabTitle: it.TabTitle,
			Disabled: it.Disabled,
		})
	}
}

func printPanel(w io.Writer, panel *navigation.Panel) {
	for _, section := range panel.Sections() {
		marker := "-"
		if section.Collapsed {
			marker = "+"
		}
		fmt.Fprintf(w, "%s %s\n", marker, section.Title)
		for _, item := range section.Items {
			switch item.Kind() {
			case navigation.KindLink:
				fmt.Fprintf(w, "    %s <%s>\n", item.Title, item.Href)
			case navigation.KindTab:
				fmt.Fprintf(w, "    %s [%s]\n", item.Title, item.TabID)
			default:
				fmt.Fprintf(w, "    %s\n", item.Title)
			}
		}
	}
}
