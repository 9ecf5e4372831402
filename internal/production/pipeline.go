package production

import (
	"fmt"
)

type Stage string

const (
	StageForming        Stage = "FORMING"
	StageFiring         Stage = "FIRING"
	StageGlazing        Stage = "GLAZING"
	StageQualityControl Stage = "QUALITY_CONTROL"
	StagePackaging      Stage = "PACKAGING"
)

// Pipeline is the fixed stage order on the shop floor. Its index is the
// sole source of "what precedes what"; changing the plant process means
// changing this list.
var Pipeline = []Stage{
	StageForming,
	StageFiring,
	StageGlazing,
	StageQualityControl,
	StagePackaging,
}

var stageIndex = func() map[Stage]int {
	idx := make(map[Stage]int, len(Pipeline))
	for i, s := range Pipeline {
		idx[s] = i
	}
	return idx
}()

func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if _, ok := stageIndex[stage]; !ok {
		return "", fmt.Errorf("unknown production stage: %q", s)
	}
	return stage, nil
}

// Index returns the stage's position in the pipeline, or -1 if unknown.
func (s Stage) Index() int {
	idx, ok := stageIndex[s]
	if !ok {
		return -1
	}
	return idx
}

// Previous returns the preceding pipeline stage. ok is false for the
// first stage.
func (s Stage) Previous() (Stage, bool) {
	idx, exists := stageIndex[s]
	if !exists || idx == 0 {
		return "", false
	}
	return Pipeline[idx-1], true
}

// Next returns the following pipeline stage. ok is false for the last
// stage.
func (s Stage) Next() (Stage, bool) {
	idx, exists := stageIndex[s]
	if !exists || idx == len(Pipeline)-1 {
		return "", false
	}
	return Pipeline[idx+1], true
}
