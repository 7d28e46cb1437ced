package domain

import "encoding/json"

type Category string

const (
	CategoryDuendes Category = "duendes"
	CategoryCastle  Category = "castle"
	CategoryExpat   Category = "expat"
	CategoryClient  Category = "client"
	CategoryLegacy  Category = "legacy"
	CategoryTest    Category = "test" // fallback for anything unclassified
)

// Categories lists every category in priority order. The same order drives
// classification and the sort of the fleet report.
var Categories = []Category{
	CategoryDuendes,
	CategoryCastle,
	CategoryExpat,
	CategoryClient,
	CategoryLegacy,
	CategoryTest,
}

// Rank is the position of c in Categories, or len(Categories) when c is not
// a known category.
func Rank(c Category) int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return len(Categories)
}

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusLive    Status = "live"
	StatusDown    Status = "down"
)

// SourceProject is a project as reported by the hosting provider, before
// classification and probing.
type SourceProject struct {
	Name      string
	Aliases   []string
	Repo      string
	UpdatedAt string
}

type Project struct {
	Name          string   `json:"name"`
	PrimaryDomain string   `json:"primaryDomain"`
	AllDomains    []string `json:"allDomains"`
	Repo          string   `json:"repo"`
	Category      Category `json:"category"`
	Status        Status   `json:"status"`
	UpdatedAt     string   `json:"updatedAt"`
}

type Summary struct {
	Total      int
	Live       int
	Down       int
	ByCategory map[Category]int
}

// Summarize counts projects by status and category. Every known category is
// present in ByCategory, zero when unused.
func Summarize(projects []Project) Summary {
	s := Summary{
		Total:      len(projects),
		ByCategory: make(map[Category]int, len(Categories)),
	}
	for _, c := range Categories {
		s.ByCategory[c] = 0
	}
	for _, p := range projects {
		switch p.Status {
		case StatusLive:
			s.Live++
		case StatusDown:
			s.Down++
		}
		if _, ok := s.ByCategory[p.Category]; ok {
			s.ByCategory[p.Category]++
		}
	}
	return s
}

// MarshalJSON flattens the category counts next to the totals:
// {"total":3,"live":2,"down":1,"duendes":1,...}.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, 3+len(s.ByCategory))
	for c, n := range s.ByCategory {
		out[string(c)] = n
	}
	out["total"] = s.Total
	out["live"] = s.Live
	out["down"] = s.Down
	return json.Marshal(out)
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	var in map[string]int
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = Summary{
		Total:      in["total"],
		Live:       in["live"],
		Down:       in["down"],
		ByCategory: make(map[Category]int, len(Categories)),
	}
	for _, c := range Categories {
		s.ByCategory[c] = in[string(c)]
	}
	return nil
}
