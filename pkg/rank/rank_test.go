package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(r []Ranked) []string {
	out := make([]string, len(r))
	for i, x := range r {
		out[i] = x.Word
	}
	return out
}

func TestComplexity_KnownWordsAccumulate(t *testing.T) {
	items := []Item{
		{Word: "A", Sentence: "aaaaaa", Tokens: []string{"A"}},
		{Word: "B", Sentence: "abab", Tokens: []string{"A", "B"}},
		{Word: "C", Sentence: "bcd", Tokens: []string{"B", "C", "D"}},
	}
	got := Complexity(items, nil)
	require.Len(t, got, 3)

	byWord := map[string]Ranked{}
	for _, r := range got {
		byWord[r.Word] = r
	}
	assert.Equal(t, 0, byWord["A"].Unknown)
	assert.Equal(t, 0, byWord["B"].Unknown)
	assert.Equal(t, 1, byWord["C"].Unknown)
	assert.Equal(t, 103, byWord["C"].Complexity)
	assert.Equal(t, []string{"B", "A", "C"}, words(got))
}

func TestComplexity_CountsCharacters(t *testing.T) {
	assert.Equal(t, 5, Score(0, "決闘だよ。"))
	assert.Equal(t, 205, Score(2, "決闘だよ。"))
}

func TestComplexity_StableTies(t *testing.T) {
	items := []Item{
		{Word: "X", Sentence: "same"},
		{Word: "Y", Sentence: "same"},
		{Word: "Z", Sentence: "same"},
	}
	assert.Equal(t, []string{"X", "Y", "Z"}, words(Complexity(items, nil)))
}

func TestComplexity_SkippedWordsStillBecomeKnown(t *testing.T) {
	items := []Item{
		{Word: "です", Sentence: "です", Tokens: []string{"です"}},
		{Word: "猫", Sentence: "猫です", Tokens: []string{"猫", "です"}},
	}
	got := Complexity(items, func(w string) bool { return w == "です" })
	require.Len(t, got, 1)
	assert.Equal(t, "猫", got[0].Word)
	assert.Equal(t, 0, got[0].Unknown)
	assert.Equal(t, 1, got[0].Index)
}
