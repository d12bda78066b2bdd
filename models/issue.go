package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueType enum
type IssueType string

const (
	Leak         IssueType = "leak"
	WaterQuality IssueType = "water_quality"
	Pressure     IssueType = "pressure"
	Other        IssueType = "other"
)

func (t IssueType) Valid() bool {
	switch t {
	case Leak, WaterQuality, Pressure, Other:
		return true
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	Low    IssuePriority = "low"
	Medium IssuePriority = "medium"
	High   IssuePriority = "high"
	Urgent IssuePriority = "urgent"
)

func (p IssuePriority) Valid() bool {
	switch p {
	case Low, Medium, High, Urgent:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Reported   IssueStatus = "reported"
	Assigned   IssueStatus = "assigned"
	InProgress IssueStatus = "in_progress"
	Resolved   IssueStatus = "resolved"
	Closed     IssueStatus = "closed"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case Reported, Assigned, InProgress, Resolved, Closed:
		return true
	}
	return false
}

// Photo is an uploaded attachment referenced by its public URL
type Photo struct {
	URL        string    `bson:"url" json:"url"`
	Caption    string    `bson:"caption" json:"caption"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Comment is one entry of an issue's discussion log
type Comment struct {
	Text      string             `bson:"text" json:"text"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Resolution is only meaningful once an issue reaches resolved status
type Resolution struct {
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ResolvedBy  primitive.ObjectID `bson:"resolvedBy,omitempty" json:"resolvedBy,omitempty"`
	ResolvedAt  time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Issue represents a citizen-reported water infrastructure problem
type Issue struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Location     GeoPoint            `bson:"location" json:"location"`
	Type         IssueType           `bson:"type" json:"type"`
	Priority     IssuePriority       `bson:"priority" json:"priority"`
	Status       IssueStatus         `bson:"status" json:"status"`
	ReportedBy   primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	AssignedTo   *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	WaterService *primitive.ObjectID `bson:"waterService,omitempty" json:"waterService,omitempty"`
	Photos       []Photo             `bson:"photos,omitempty" json:"photos,omitempty"`
	Comments     []Comment           `bson:"comments" json:"comments"`
	Resolution   *Resolution         `bson:"resolution,omitempty" json:"resolution,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus moves the issue to the given status. Transitions are not
// constrained: any status may follow any other. Entering resolved stamps a
// fresh resolution record with the acting user; every other status leaves
// the resolution untouched.
func (i *Issue) SetStatus(status IssueStatus, actor primitive.ObjectID, at time.Time) {
	i.Status = status
	if status == Resolved {
		i.Resolution = &Resolution{
			ResolvedBy: actor,
			ResolvedAt: at,
		}
	}
	i.UpdatedAt = at
}

// AddComment appends to the ordered comment log without touching status.
func (i *Issue) AddComment(author primitive.ObjectID, text string, at time.Time) {
	i.Comments = append(i.Comments, Comment{
		Text:      text,
		User:      author,
		CreatedAt: at,
	})
	i.UpdatedAt = at
}

// AssignTo sets the assignee and forces status to assigned, whatever the
// issue was in before — including resolved or closed.
func (i *Issue) AssignTo(user primitive.ObjectID, at time.Time) {
	i.AssignedTo = &user
	i.Status = Assigned
	i.UpdatedAt = at
}
