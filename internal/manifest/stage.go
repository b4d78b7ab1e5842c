package manifest

import "strings"

// Stage is the maturation stage of an archived document. There are exactly
// three stages; the value doubles as the directory name under each domain.
type Stage string

const (
	// StageExperiential holds raw captures and first-person observations.
	StageExperiential Stage = "experiential_data"
	// StageAnalytical holds synthesized analysis across observations.
	StageAnalytical Stage = "analytical_synthesis"
	// StageFormalized holds teaching-ready formalized frameworks.
	StageFormalized Stage = "formalized_frameworks"
)

// stageAliases maps the compact spellings used by older manifests onto the
// canonical directory form.
var stageAliases = map[string]Stage{
	"experiential_data":     StageExperiential,
	"experientialdata":      StageExperiential,
	"analytical_synthesis":  StageAnalytical,
	"analyticalsynthesis":   StageAnalytical,
	"formalized_frameworks": StageFormalized,
	"formalizedframework":   StageFormalized,
	"formalizedframeworks":  StageFormalized,
}

// ParseStage canonicalizes a manifest stage value. The second return is
// false when the value names no known stage.
func ParseStage(value string) (Stage, bool) {
	stage, ok := stageAliases[strings.ToLower(strings.TrimSpace(value))]
	return stage, ok
}

// Stages returns the three stages in maturation order. Index listings sort
// entries by this order.
func Stages() []Stage {
	return []Stage{StageExperiential, StageAnalytical, StageFormalized}
}

// Order returns the position of the stage in maturation order, or -1 for an
// unrecognized value.
func (s Stage) Order() int {
	for i, stage := range Stages() {
		if stage == s {
			return i
		}
	}
	return -1
}
