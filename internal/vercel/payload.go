package vercel

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

type projectsPayload struct {
	Projects []rawProject `json:"projects"`
}

type rawProject struct {
	Name      string     `json:"name"`
	UpdatedAt int64      `json:"updatedAt"` // epoch milliseconds
	Link      *rawLink   `json:"link"`
	Targets   rawTargets `json:"targets"`
}

type rawLink struct {
	Repo string `json:"repo"`
}

type rawTargets struct {
	Production *rawTarget `json:"production"`
}

type rawTarget struct {
	Alias []string `json:"alias"`
}

// isoMillis matches the millisecond ISO-8601 form dashboards already parse.
const isoMillis = "2006-01-02T15:04:05.000Z"

func decodeProjects(r io.Reader) ([]domain.SourceProject, error) {
	var p projectsPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	out := make([]domain.SourceProject, 0, len(p.Projects))
	for i, raw := range p.Projects {
		sp, err := raw.toSource()
		if err != nil {
			return nil, fmt.Errorf("%w: project %d: %v", ErrMalformedPayload, i, err)
		}
		out = append(out, sp)
	}
	return out, nil
}

func (r rawProject) toSource() (domain.SourceProject, error) {
	if r.Name == "" {
		return domain.SourceProject{}, fmt.Errorf("missing name")
	}
	sp := domain.SourceProject{
		Name:    r.Name,
		Aliases: []string{},
	}
	if r.Targets.Production != nil && r.Targets.Production.Alias != nil {
		sp.Aliases = append(sp.Aliases, r.Targets.Production.Alias...)
	}
	if r.Link != nil {
		sp.Repo = r.Link.Repo
	}
	if r.UpdatedAt > 0 {
		sp.UpdatedAt = time.UnixMilli(r.UpdatedAt).UTC().Format(isoMillis)
	}
	return sp, nil
}
