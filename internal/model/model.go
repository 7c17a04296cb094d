package model

type Member struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Rank string `json:"rank"`
}

// AwardType labels are persisted as keys by the backend and must match it exactly.
type AwardType string

var AwardTypes = []AwardType{
	"Alliance Champion",
	"Star of Desert Storm",
	"Soldier Crusher",
	"Divine Healer",
	"Great Destroyer",
	"Grind King",
	"Alliance Exercise MVP",
	"Doom Elite Slayer",
	"Best Manager",
	"Alliance Sponsor",
	"Firefighting Leader",
	"Excavator Radar",
	"Shining Star",
	"MVP",
	"Devil Trainer",
	"Trial Assist King",
	"Good Helper",
}

const MaxRank = 3

func IsAwardType(s string) bool {
	for _, t := range AwardTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

type Award struct {
	AwardType AwardType `json:"award_type"`
	Rank      int       `json:"rank"`
	MemberID  int       `json:"member_id"`
}

type HistoryRecord struct {
	WeekDate   string    `json:"week_date"`
	AwardType  AwardType `json:"award_type"`
	Rank       int       `json:"rank"`
	MemberID   int       `json:"member_id"`
	MemberName string    `json:"member_name"`
}

// Assignments maps award type -> rank -> member id for one week.
type Assignments map[AwardType]map[int]int

func IndexAwards(awards []Award) Assignments {
	a := Assignments{}
	for _, aw := range awards {
		a.Set(aw.AwardType, aw.Rank, aw.MemberID)
	}
	return a
}

func (a Assignments) Get(t AwardType, rank int) int {
	return a[t][rank]
}

func (a Assignments) Set(t AwardType, rank, memberID int) {
	if a[t] == nil {
		a[t] = map[int]int{}
	}
	a[t][rank] = memberID
}

// HasData reports whether any rank of t holds an assignment.
func (a Assignments) HasData(t AwardType) bool {
	return len(a[t]) > 0
}
