package models

// Rank: буквенная оценка A..E, A лучшая.
type Rank string

const (
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
	RankE Rank = "E"
)

// Ranks is indexed by ordinal: Ranks[r.Ordinal()] == r.
var Ranks = []Rank{RankA, RankB, RankC, RankD, RankE}

// Ordinal maps A=0 … E=4. Unknown ranks return -1.
func (r Rank) Ordinal() int {
	for i, v := range Ranks {
		if v == r {
			return i
		}
	}
	return -1
}

func (r Rank) Valid() bool { return r.Ordinal() >= 0 }

// RankFromOrdinal is the inverse of Ordinal.
func RankFromOrdinal(n int) (Rank, bool) {
	if n < 0 || n >= len(Ranks) {
		return "", false
	}
	return Ranks[n], true
}

// ParseRank accepts a letter in either case; an empty string means "no rank".
func ParseRank(s string) (*Rank, error) {
	if s == "" {
		return nil, nil
	}
	r := Rank(s)
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'e' {
		r = Rank(string(s[0] - 'a' + 'A'))
	}
	if !r.Valid() {
		return nil, Validation(Kind("rank"), "ParseRank", "rank must be one of A, B, C, D, E")
	}
	return &r, nil
}

func RankPtr(r Rank) *Rank { return &r }

// RankString renders an optional rank, "" when absent.
func RankString(r *Rank) string {
	if r == nil {
		return ""
	}
	return string(*r)
}
