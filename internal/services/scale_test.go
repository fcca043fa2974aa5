package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelScores(t *testing.T) {
	cases := []struct {
		label Label
		score int
		sent  Sentiment
	}{
		{SS, 6, Positif},
		{S, 5, Positif},
		{CS, 4, Netral},
		{CTS, 3, Negatif},
		{TS, 2, Negatif},
		{STS, 1, Negatif},
	}
	for _, c := range cases {
		got, ok := c.label.Score()
		require.True(t, ok, c.label)
		assert.Equal(t, c.score, got, c.label)
		sent, ok := c.label.Sentiment()
		require.True(t, ok, c.label)
		assert.Equal(t, c.sent, sent, c.label)
	}
}

func TestLabelCodecRoundTrip(t *testing.T) {
	seen := map[int]bool{}
	for _, l := range Labels {
		score, ok := l.Score()
		require.True(t, ok)
		assert.False(t, seen[score], "score %d assigned twice", score)
		seen[score] = true
		back, ok := LabelForScore(score)
		require.True(t, ok)
		assert.Equal(t, l, back)
	}
	assert.Len(t, seen, ScalePoints)
}

func TestParseLabel(t *testing.T) {
	l, ok := ParseLabel(" cts ")
	require.True(t, ok)
	assert.Equal(t, CTS, l)

	for _, raw := range []string{"", "  ", "SSS", "agree", "6"} {
		l, ok := ParseLabel(raw)
		assert.False(t, ok, raw)
		assert.True(t, l.Missing(), raw)
	}
}

func TestMissingHasNoScoreOrSentiment(t *testing.T) {
	_, ok := NoAnswer.Score()
	assert.False(t, ok)
	_, ok = NoAnswer.Sentiment()
	assert.False(t, ok)
	_, ok = LabelForScore(0)
	assert.False(t, ok)
	_, ok = LabelForScore(7)
	assert.False(t, ok)
}
