package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetStatusResolvedStampsResolution(t *testing.T) {
	issue := Issue{Status: InProgress}
	actor := primitive.NewObjectID()
	at := time.Now()

	issue.SetStatus(Resolved, actor, at)

	require.NotNil(t, issue.Resolution)
	assert.Equal(t, actor, issue.Resolution.ResolvedBy)
	assert.Equal(t, at, issue.Resolution.ResolvedAt)
	assert.Equal(t, Resolved, issue.Status)
	assert.Equal(t, at, issue.UpdatedAt)
}

func TestSetStatusOtherStatusesNeverStamp(t *testing.T) {
	actor := primitive.NewObjectID()
	for _, status := range []IssueStatus{Reported, Assigned, InProgress, Closed} {
		issue := Issue{Status: Reported}
		issue.SetStatus(status, actor, time.Now())
		assert.Nil(t, issue.Resolution, "status %s must not populate resolution", status)
	}
}

func TestSetStatusTransitionsAreUnconstrained(t *testing.T) {
	issue := Issue{Status: Closed}
	actor := primitive.NewObjectID()

	// closed -> reported is accepted; no transition graph is enforced
	issue.SetStatus(Reported, actor, time.Now())
	assert.Equal(t, Reported, issue.Status)

	// leaving resolved keeps the stale resolution around
	issue.SetStatus(Resolved, actor, time.Now())
	require.NotNil(t, issue.Resolution)
	issue.SetStatus(InProgress, actor, time.Now())
	assert.NotNil(t, issue.Resolution)
	assert.Equal(t, InProgress, issue.Status)
}

func TestAssignToForcesAssignedStatus(t *testing.T) {
	assignee := primitive.NewObjectID()

	for _, prior := range []IssueStatus{Reported, InProgress, Resolved, Closed} {
		issue := Issue{Status: prior}
		issue.AssignTo(assignee, time.Now())
		require.NotNil(t, issue.AssignedTo)
		assert.Equal(t, assignee, *issue.AssignedTo)
		assert.Equal(t, Assigned, issue.Status, "assignment overrides %s", prior)
	}
}

func TestAddComment(t *testing.T) {
	issue := Issue{Status: Reported}
	author := primitive.NewObjectID()
	at := time.Now()

	issue.AddComment(author, "no water since morning", at)
	issue.AddComment(author, "crew dispatched", at.Add(time.Hour))

	require.Len(t, issue.Comments, 2)
	assert.Equal(t, "no water since morning", issue.Comments[0].Text)
	assert.Equal(t, "crew dispatched", issue.Comments[1].Text)
	assert.Equal(t, author, issue.Comments[0].User)
	assert.Equal(t, at, issue.Comments[0].CreatedAt)
	assert.Equal(t, Reported, issue.Status, "commenting does not change status")
}

func TestIssueEnums(t *testing.T) {
	assert.True(t, IssueType("leak").Valid())
	assert.True(t, IssueType("water_quality").Valid())
	assert.False(t, IssueType("flood").Valid())

	assert.True(t, IssuePriority("urgent").Valid())
	assert.False(t, IssuePriority("critical").Valid())

	assert.True(t, IssueStatus("in_progress").Valid())
	assert.False(t, IssueStatus("done").Valid())
}
