package build

// Stage is a state of the build state machine.
type Stage string

const (
	StageInit                Stage = "init"
	StageSettingUpOutput     Stage = "setting_up_output"
	StageProcessingContent   Stage = "processing_content"
	StageGeneratingArtifacts Stage = "generating_artifacts"
	StageDone                Stage = "done"
	StageAborted             Stage = "aborted"
)

// Terminal reports whether no further transition can happen.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageAborted
}

// next lists the legal successors of each stage. Any non-terminal stage may
// also move to StageAborted.
var next = map[Stage]Stage{
	StageInit:                StageSettingUpOutput,
	StageSettingUpOutput:     StageProcessingContent,
	StageProcessingContent:   StageGeneratingArtifacts,
	StageGeneratingArtifacts: StageDone,
}

// CanTransition reports whether the build may move from s to to.
func (s Stage) CanTransition(to Stage) bool {
	if s.Terminal() {
		return false
	}
	return to == StageAborted || next[s] == to
}
