package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFullWeightOncePerPattern(t *testing.T) {
	s := MustCompile(
		Lit("subscription", 5, "recurring revenue"),
		Lit("box", 2, "box format"),
		Re(`\$\d+`, 3, "price point"),
		Lit("free", -4, "no revenue"),
	)
	score, ev := s.Score("Subscription box, subscription again, $35/month")
	assert.Equal(t, 10.0, score)
	require.Len(t, ev, 3)
	assert.Equal(t, "subscription", ev[0].Match)
	assert.Equal(t, "$35", ev[2].Match)
}

func TestScoreNegativeWeights(t *testing.T) {
	s := MustCompile(Lit("marketplace", 6, ""), Lit("free", -4, ""))
	score, _ := s.Score("A free marketplace")
	assert.Equal(t, 2.0, score)
}

func TestScoreEmptyInputs(t *testing.T) {
	var nilSet *Set
	score, ev := nilSet.Score("anything")
	assert.Zero(t, score)
	assert.Nil(t, ev)

	s := MustCompile(Lit("x", 1, ""))
	score, ev = s.Score("")
	assert.Zero(t, score)
	assert.Nil(t, ev)
}

func TestCompileRejectsBadPatterns(t *testing.T) {
	_, err := Compile([]Pattern{{Expr: "  "}})
	assert.Error(t, err)
	_, err = Compile([]Pattern{{Expr: "(", Regex: true}})
	assert.Error(t, err)
}

func TestScoreIsDeterministic(t *testing.T) {
	s := MustCompile(Lit("a", 1, ""), Lit("b", 2, ""), Re(`c+`, 3, ""))
	first, ev1 := s.Score("abccc")
	for i := 0; i < 20; i++ {
		again, ev2 := s.Score("abccc")
		assert.Equal(t, first, again)
		assert.Equal(t, ev1, ev2)
	}
}

func TestProhibitedRules(t *testing.T) {
	s := Prohibited()
	cases := []struct {
		text string
		want bool
	}{
		{"An illegal gambling den", true},
		{"Selling counterfeit sneakers online", true},
		{"A bakery selling sourdough", false},
		{"Pyramid scheme for vitamins", true},
		{"Legal advice marketplace", false},
	}
	for _, tc := range cases {
		_, got := s.Matches(tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestLoadRulesRejectsEmpty(t *testing.T) {
	_, err := LoadRules([]byte("version: 1\nrules: []\n"))
	assert.Error(t, err)
	_, err = LoadRules([]byte("::not yaml"))
	assert.Error(t, err)
}

func TestCountAny(t *testing.T) {
	assert.Equal(t, 2, CountAny("Easy to use and affordable", "easy to use", "affordable", "dashboard"))
	assert.True(t, ContainsAny("Handmade LEATHER", "leather"))
	assert.Equal(t, "a b c", Normalize("  A\tb \n C "))
}
