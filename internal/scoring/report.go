package scoring

import (
	"math"

	"github.com/rcliao/pair-assessment/internal/catalog"
	"github.com/rcliao/pair-assessment/internal/model"
)

// ContractRule is one commitment of the partnership contract printed with every report.
type ContractRule struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

var contract = []ContractRule{
	{Title: "Delegation, not Dumping", Text: `The partner leading a category manages the "Planning," the other partner helps with "Tasks."`},
	{Title: "No-Shame Systems", Text: "If we both struggle with a category, we agree to buy the solution (e.g. pre-chopped veg) without feeling guilty."},
	{Title: "The 5-Minute Reset", Text: `If sensory overload happens, either partner can call a "Silent Reset" for 5 minutes.`},
}

// Contract returns the three partnership rules.
func Contract() []ContractRule {
	out := make([]ContractRule, len(contract))
	copy(out, contract)
	return out
}

// Report is the shared results view.
type Report struct {
	AssessmentID string             `json:"assessment_id,omitempty" yaml:"assessment_id,omitempty"`
	Names        model.PartnerNames `json:"names" yaml:"names"`
	Categories   []PairedScore      `json:"categories" yaml:"categories"`
	Insights     []model.Insight    `json:"insights" yaml:"insights"`
	Alignment    float64            `json:"alignment" yaml:"alignment"`
	Contract     []ContractRule     `json:"contract" yaml:"contract"`
}

// BuildReport computes the full report from both partners' raw scores.
func BuildReport(id string, names model.PartnerNames, p1, p2 map[string]int, cat *catalog.Catalog) *Report {
	rows := Compare(p1, p2, cat)
	return &Report{
		AssessmentID: id,
		Names:        names,
		Categories:   rows,
		Insights:     Insights(rows, names),
		Alignment:    math.Round(Alignment(rows)*100) / 100,
		Contract:     Contract(),
	}
}

// Alignment is the cosine similarity of the two profile vectors: 1 when the
// partners' shapes match, lower as they diverge. Empty input yields 0.
func Alignment(rows []PairedScore) float64 {
	if len(rows) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for _, r := range rows {
		dot += r.Partner1 * r.Partner2
		normA += r.Partner1 * r.Partner1
		normB += r.Partner2 * r.Partner2
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
