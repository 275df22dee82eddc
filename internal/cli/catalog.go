package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/catalog"
	"github.com/rcliao/pair-assessment/internal/model"
)

type categoryView struct {
	Name       string            `json:"name" yaml:"name"`
	Attributes []model.Attribute `json:"attributes" yaml:"attributes"`
}

type catalogView struct {
	Categories []categoryView     `json:"categories" yaml:"categories"`
	Scale      []model.ScaleLevel `json:"scale" yaml:"scale"`
}

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List categories, attribute ids and the rating scale",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.Default()
			var v catalogView
			for _, name := range c.Categories() {
				v.Categories = append(v.Categories, categoryView{Name: name, Attributes: c.AttributesOf(name)})
			}
			v.Scale = catalog.Scale()
			return render(cmd, v, v.text)
		},
	})
}

func (v catalogView) text(w io.Writer) {
	for _, c := range v.Categories {
		fmt.Fprintln(w, c.Name)
		for _, a := range c.Attributes {
			fmt.Fprintf(w, "  %s\t%s\n", a.ID, a.Label)
		}
	}
	fmt.Fprintln(w, "\nSCALE")
	for _, l := range v.Scale {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", l.Value, l.Label, l.Description)
	}
}
