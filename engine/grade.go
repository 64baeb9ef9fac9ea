package engine

import "github.com/shopspring/decimal"

// =============================================================================
// GRADE CALCULATOR - Weighted composite score to letter grade
// =============================================================================

// Composite weights: readiness carries 60%, compliance 40%.
var (
	readinessWeight  = decimal.NewFromFloat(0.6)
	complianceWeight = decimal.NewFromFloat(0.4)
)

// Grade is the graded composite for a period. Score is the rounded weighted
// blend; Letter is the 13-tier grade, Summary the coarser 4-tier one.
type Grade struct {
	Score   int    `json:"score"`
	Letter  string `json:"letter"`
	Summary string `json:"summary"`
	Label   string `json:"label"`
}

// gradeBands are the descending lower bounds of the 13-tier scale.
var gradeBands = []struct {
	min    int
	letter string
}{
	{97, "A+"}, {93, "A"}, {90, "A-"},
	{87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"},
	{67, "D+"}, {63, "D"}, {60, "D-"},
}

// LetterForScore maps a composite score to the 13-tier letter grade.
func LetterForScore(score int) string {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.letter
		}
	}
	return "F"
}

// SummaryGradeForScore maps a composite score to the coarse 4-tier grade
// used by summary views.
func SummaryGradeForScore(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	default:
		return "D"
	}
}

// LabelForLetter gives the human reading of a letter grade.
func LabelForLetter(letter string) string {
	switch letter[0] {
	case 'A':
		return "Excellent"
	case 'B':
		return "Good"
	case 'C':
		return "Fair"
	case 'D':
		return "Needs Improvement"
	default:
		return "Critical"
	}
}

// ComputeGrade blends period readiness and compliance into a letter grade:
//
//	composite = round(readiness*0.6 + compliance*0.4)
//
// The grade is undefined (nil) when there is no readiness data and no
// check-ins at all in the period. When check-ins exist but every contributing
// member is still onboarding (readiness nil), the composite falls back to
// compliance alone rather than treating missing readiness as zero.
func ComputeGrade(readiness, compliance *int, checkIns int) *Grade {
	if readiness == nil && checkIns == 0 {
		return nil
	}

	var composite int
	switch {
	case readiness != nil && compliance != nil:
		score := decimal.NewFromInt(int64(*readiness)).Mul(readinessWeight).
			Add(decimal.NewFromInt(int64(*compliance)).Mul(complianceWeight))
		composite = int(score.Round(0).IntPart())
	case readiness != nil:
		composite = *readiness
	case compliance != nil:
		composite = *compliance
	default:
		return nil
	}

	letter := LetterForScore(composite)
	return &Grade{
		Score:   composite,
		Letter:  letter,
		Summary: SummaryGradeForScore(composite),
		Label:   LabelForLetter(letter),
	}
}
