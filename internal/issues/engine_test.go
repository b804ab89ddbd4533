package issues_test

import (
	"context"
	"testing"

	"github.com/rowanmoss/faultdeck/internal/issues"
	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/rowanmoss/faultdeck/pkg/models"
	"github.com/stretchr/testify/require"
)

// fixture wires an engine to the in-memory store and queue, seeded with one
// org, one project, and one acting user.
type fixture struct {
	store   *memStore
	queue   *jobs.MemoryQueue
	engine  *issues.Engine
	org     *models.Organization
	project *models.Project
	user    *models.User
}

func newFixture(t *testing.T, cfg issues.Config) *fixture {
	t.Helper()
	st := newMemStore()
	org := st.addOrg("acme")
	project := st.addProject(org.ID, "web")
	user := st.addUser(org.ID, "alice")
	q := jobs.NewMemoryQueue()
	return &fixture{
		store:   st,
		queue:   q,
		engine:  issues.NewEngine(st, q, cfg),
		org:     org,
		project: project,
		user:    user,
	}
}

// update runs an Update with the fixture's project and acting user filled in.
func (f *fixture) update(t *testing.T, p issues.UpdateParams) issues.UpdateResult {
	t.Helper()
	if p.Project == nil {
		p.Project = f.project
	}
	if p.ActingUserID == 0 {
		p.ActingUserID = f.user.ID
	}
	res, err := f.engine.Update(context.Background(), p)
	require.NoError(t, err)
	return res
}

func statusPtr(s models.GroupStatus) *models.GroupStatus { return &s }
func boolPtr(b bool) *bool                               { return &b }
func strPtr(s string) *string                            { return &s }
func i64Ptr(v int64) *int64                              { return &v }
