package access

import (
	"context"
	"log"

	"github.com/Idosegev23/GameChanger/internal/domain/analyses"
	"github.com/Idosegev23/GameChanger/internal/domain/members"
)

// Decision is the three-valued outcome of a permission check. Unresolved is
// the zero value on purpose: consumers that have not run the check yet hold
// a decision that is distinct from both granted and denied, so the renderer
// can show a loading state instead of a false "access denied".
type Decision int

const (
	Unresolved Decision = iota
	Granted
	Denied
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unresolved"
	}
}

// Viewer is the identity resolved from the request, or nil when the request
// carried no credentials.
type Viewer struct {
	ID string `json:"id"`
}

// Checker decides whether a viewer may read an analysis. The owner shortcut
// is evaluated first so owners never cost a membership lookup.
type Checker struct {
	Members members.Store
}

func NewChecker(store members.Store) *Checker {
	return &Checker{Members: store}
}

// Check returns Granted or Denied, never Unresolved. A failed membership
// lookup is treated as "no permission" (fail-closed) and only logged.
func (c *Checker) Check(ctx context.Context, viewer *Viewer, a *analyses.Analysis) Decision {
	if viewer == nil || viewer.ID == "" {
		return Denied
	}
	if viewer.ID == a.OwnerUserID {
		return Granted
	}

	ok, err := c.Members.IsMember(ctx, a.CompanyID, viewer.ID)
	if err != nil {
		log.Printf("membership lookup failed for analysis=%s company=%s user=%s: %v",
			a.ID, a.CompanyID, viewer.ID, err)
		return Denied
	}
	if ok {
		return Granted
	}
	return Denied
}
