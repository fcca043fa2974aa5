package services

import "strings"

// Label is one answer on the six-point agreement scale.
// NoAnswer marks a missing cell; it has no score and no sentiment.
type Label string

const (
	NoAnswer Label = ""
	SS       Label = "SS"
	S        Label = "S"
	CS       Label = "CS"
	CTS      Label = "CTS"
	TS       Label = "TS"
	STS      Label = "STS"
)

// ScalePoints is the number of labels on the scale.
const ScalePoints = 6

// Labels lists the scale from most positive to most negative.
var Labels = []Label{SS, S, CS, CTS, TS, STS}

var labelScores = map[Label]int{
	SS:  6,
	S:   5,
	CS:  4,
	CTS: 3,
	TS:  2,
	STS: 1,
}

// ParseLabel normalizes a raw spreadsheet cell. Blank cells and values
// outside the scale report ok=false.
func ParseLabel(raw string) (Label, bool) {
	l := Label(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := labelScores[l]; ok {
		return l, true
	}
	return NoAnswer, false
}

// Score returns the 1..6 score of l.
func (l Label) Score() (int, bool) {
	v, ok := labelScores[l]
	return v, ok
}

func (l Label) Missing() bool { return l == NoAnswer }

// LabelForScore is the inverse of Label.Score.
func LabelForScore(score int) (Label, bool) {
	if score < 1 || score > ScalePoints {
		return NoAnswer, false
	}
	return Labels[ScalePoints-score], true
}

type Sentiment string

const (
	Positif Sentiment = "positif"
	Netral  Sentiment = "netral"
	Negatif Sentiment = "negatif"
)

// Sentiments is the fixed output order of sentiment buckets.
var Sentiments = []Sentiment{Positif, Netral, Negatif}

// Sentiment buckets l: SS and S are positive, CS neutral, the rest negative.
func (l Label) Sentiment() (Sentiment, bool) {
	switch l {
	case SS, S:
		return Positif, true
	case CS:
		return Netral, true
	case CTS, TS, STS:
		return Negatif, true
	}
	return "", false
}
