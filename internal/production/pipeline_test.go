package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		input   string
		want    Stage
		wantErr bool
	}{
		{"FORMING", StageForming, false},
		{"FIRING", StageFiring, false},
		{"GLAZING", StageGlazing, false},
		{"QUALITY_CONTROL", StageQualityControl, false},
		{"PACKAGING", StagePackaging, false},
		{"forming", "", true},
		{"DRYING", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		stage, err := ParseStage(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tt.want, stage)
		}
	}
}

func TestStageOrder(t *testing.T) {
	assert.Len(t, Pipeline, 5)
	assert.Equal(t, StageForming, Pipeline[0])
	assert.Equal(t, StagePackaging, Pipeline[len(Pipeline)-1])

	for i, stage := range Pipeline {
		assert.Equal(t, i, stage.Index())
	}
	assert.Equal(t, -1, Stage("DRYING").Index())
}

func TestStagePrevious(t *testing.T) {
	_, ok := StageForming.Previous()
	assert.False(t, ok, "entry stage has no predecessor")

	prev, ok := StageFiring.Previous()
	assert.True(t, ok)
	assert.Equal(t, StageForming, prev)

	prev, ok = StagePackaging.Previous()
	assert.True(t, ok)
	assert.Equal(t, StageQualityControl, prev)

	_, ok = Stage("DRYING").Previous()
	assert.False(t, ok)
}

func TestStageNext(t *testing.T) {
	next, ok := StageForming.Next()
	assert.True(t, ok)
	assert.Equal(t, StageFiring, next)

	_, ok = StagePackaging.Next()
	assert.False(t, ok, "final stage has no successor")
}
