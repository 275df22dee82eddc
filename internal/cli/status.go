package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/model"
	"github.com/rcliao/pair-assessment/internal/session"
)

type statusView struct {
	ID        string             `json:"id" yaml:"id"`
	Phase     model.Phase        `json:"phase" yaml:"phase"`
	CanReveal bool               `json:"can_reveal" yaml:"can_reveal"`
	Names     model.PartnerNames `json:"names" yaml:"names"`
	Partners  []model.Progress   `json:"partners" yaml:"partners"`
}

func newStatusView(s *session.Session) statusView {
	v := statusView{
		ID:        s.ID(),
		Phase:     s.Phase(),
		CanReveal: s.CanReveal(),
		Names:     s.Names(),
	}
	for _, p := range model.Partners {
		v.Partners = append(v.Partners, s.Progress(p))
	}
	return v
}

func (v statusView) text(w io.Writer) {
	id := v.ID
	if id == "" {
		id = "(memory only)"
	}
	fmt.Fprintf(w, "assessment\t%s\n", id)
	fmt.Fprintf(w, "phase\t%s\n", v.Phase)
	fmt.Fprintf(w, "can reveal\t%s\n\n", yesNo(v.CanReveal))
	fmt.Fprintln(w, "PARTNER\tRATED\tCOMPLETE\tDONE\tVIEW\tOPEN CATEGORIES")
	for _, p := range v.Partners {
		var open []string
		for cat, ok := range p.Categories {
			if !ok {
				open = append(open, cat)
			}
		}
		sort.Strings(open)
		fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\t%s\t%v\n",
			v.Names.Label(p.Partner), p.Rated, p.Total, yesNo(p.Complete), yesNo(p.Done), p.View, open)
	}
}

// showStatus renders the session's status and closes the workspace.
func showStatus(cmd *cobra.Command, w *workspace) error {
	v := newStatusView(w.sess)
	w.close(cmd)
	return render(cmd, v, v.text)
}

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show phase and per-partner progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			return showStatus(cmd, w)
		},
	})
}
