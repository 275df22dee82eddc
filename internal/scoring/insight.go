package scoring

import (
	"fmt"
	"math"

	"github.com/rcliao/pair-assessment/internal/model"
)

// Insight thresholds on the 1.0-5.0 average scale.
const (
	ConflictThreshold     = 4.0
	ComplementaryGap      = 1.5
	SharedAnchorThreshold = 2.0
)

// Classify picks the insight kind for one pair of averages. Rules are checked
// in order and the first match wins; ok is false when no rule matches.
//
// Both averages >= 4.0 can differ by at most 1.0 on a 5-point scale, so the
// conflict and complementary rules never compete.
func Classify(a1, a2 float64) (kind model.InsightKind, ok bool) {
	switch {
	case a1 >= ConflictThreshold && a2 >= ConflictThreshold:
		return model.InsightDanger, true
	case math.Abs(a1-a2) >= ComplementaryGap:
		return model.InsightComplementary, true
	case a1 <= SharedAnchorThreshold && a2 <= SharedAnchorThreshold:
		return model.InsightSuccess, true
	}
	return "", false
}

// Insights evaluates every paired category in order and returns at most one
// insight per category. Names replace "Partner 1/2" in the text when set.
func Insights(rows []PairedScore, names model.PartnerNames) []model.Insight {
	insights := []model.Insight{}
	for _, r := range rows {
		kind, ok := Classify(r.Partner1, r.Partner2)
		if !ok {
			continue
		}
		insights = append(insights, buildInsight(kind, r, names))
	}
	return insights
}

func buildInsight(kind model.InsightKind, r PairedScore, names model.PartnerNames) model.Insight {
	in := model.Insight{Kind: kind, Category: r.Category}
	switch kind {
	case model.InsightDanger:
		in.Title = "Critical Conflict: " + r.Category
		in.Body = "You both struggle severely here. This is a high-risk burnout zone. " +
			"STOP trying to manage this internally. " +
			"Strategy: Automate (apps/robot cleaners) or outsource (hired help)."
	case model.InsightComplementary:
		// lower average = less struggle
		lead := model.Partner2
		if r.Partner1 < r.Partner2 {
			lead = model.Partner1
		}
		name := names.Label(lead)
		in.Lead = lead
		in.Title = "Complementary Strength: " + r.Category
		in.Body = fmt.Sprintf("%s handles this significantly better. "+
			"Strategy: %s acts as the 'Executive Director' for this domain, "+
			"while the other partner performs discrete, non-planning tasks.", name, name)
	case model.InsightSuccess:
		in.Title = "Shared Anchor: " + r.Category
		in.Body = "This is a safe zone. Use this area to ground the relationship when other domains feel chaotic."
	}
	return in
}
