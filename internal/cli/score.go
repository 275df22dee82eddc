package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/pair-assessment/internal/catalog"
	"github.com/rcliao/pair-assessment/internal/model"
	"github.com/rcliao/pair-assessment/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "score ATTR=VALUE...",
		Short: "Rate attributes for a partner",
		Long: "Rate one or more attributes on the 1-5 scale, e.g. `score -p 1 h1=4 h2=2`.\n" +
			"Run `catalog` for the attribute ids.",
		Args: cobra.MinimumNArgs(1),
		RunE: runScore,
	}

	cmd.Flags().IntP("partner", "p", 0, "Partner: 1 or 2 (required)")
	cmd.MarkFlagRequired("partner")

	RootCmd.AddCommand(cmd)
}

type rating struct {
	attrID string
	value  int
}

func parseRatings(args []string) ([]rating, error) {
	out := make([]rating, 0, len(args))
	for _, arg := range args {
		id, raw, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %q is not ATTR=VALUE", session.ErrInvalidInput, arg)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: value must be an integer", session.ErrInvalidInput, arg)
		}
		out = append(out, rating{attrID: strings.TrimSpace(id), value: v})
	}
	return out, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("partner")
	p := model.Partner(n)

	ratings, err := parseRatings(args)
	if err != nil {
		return err
	}

	w, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	// reject the whole command before anything is written
	for _, r := range ratings {
		if err := w.sess.CheckScore(p, r.attrID, r.value); err != nil {
			w.close(cmd)
			return err
		}
	}
	for _, r := range ratings {
		if err := w.sess.SetScore(p, r.attrID, r.value); err != nil {
			w.close(cmd)
			return err
		}
	}
	prog := w.sess.Progress(p)
	cat := w.sess.Catalog()
	scores := w.sess.Scores(p)
	w.close(cmd)

	return render(cmd, prog, func(out io.Writer) {
		for _, r := range ratings {
			fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", r.attrID, cat.Label(r.attrID), scores[r.attrID], catalog.ScaleLabel(scores[r.attrID]))
		}
		fmt.Fprintf(out, "\nrated\t%d/%d\n", prog.Rated, prog.Total)
		fmt.Fprintf(out, "complete\t%s\n", yesNo(prog.Complete))
	})
}
