package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

const resultsJSON = `[{"teamNumber":"755","tier":"OPTIMAL","compatScore":92},{"teamNumber":"9971","tier":"MID","compatScore":61}]`

func TestArrayBare(t *testing.T) {
	var got []model.AnalysisResult
	require.NoError(t, Array(resultsJSON, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "755", got[0].TeamNumber)
	assert.Equal(t, model.TierOptimal, got[0].Tier)
	assert.Equal(t, 92, got[0].CompatScore)
}

func TestArrayFencedEqualsBare(t *testing.T) {
	var bare, fenced, labeled []model.AnalysisResult
	require.NoError(t, Array(resultsJSON, &bare))
	require.NoError(t, Array("```\n"+resultsJSON+"\n```", &fenced))
	require.NoError(t, Array("```json\n"+resultsJSON+"\n```", &labeled))
	assert.Equal(t, bare, fenced)
	assert.Equal(t, bare, labeled)
}

func TestArrayEmbeddedInProse(t *testing.T) {
	raw := "Here is my analysis of the teams you asked about:\n\n" +
		resultsJSON + "\n\nLet me know if you need more detail."
	var got []model.AnalysisResult
	require.NoError(t, Array(raw, &got))
	assert.Len(t, got, 2)
}

func TestArrayGreedySpan(t *testing.T) {
	// nested arrays must not truncate the match
	raw := `prose [{"teamNumber":"755","withTips":["feed them","guard base"]}] trailing`
	var got []model.AnalysisResult
	require.NoError(t, Array(raw, &got))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"feed them", "guard base"}, got[0].WithTips)
}

func TestArrayNoJSON(t *testing.T) {
	var got []model.AnalysisResult
	err := Array("I could not find any information about those teams.", &got)
	require.Error(t, err)
	var pe *resilience.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestArrayMalformed(t *testing.T) {
	var got []model.AnalysisResult
	err := Array(`[{"teamNumber": "755", "tier": OPTIMAL}]`, &got)
	require.Error(t, err)
	var pe *resilience.ParseError
	require.ErrorAs(t, err, &pe)
	assert.NotEmpty(t, pe.Excerpt)
}

func TestArrayEmpty(t *testing.T) {
	var got []model.AnalysisResult
	assert.Error(t, Array("", &got))
	assert.Error(t, Array("   \n  ", &got))
}
