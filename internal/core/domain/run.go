package domain

import (
	"slices"
	"time"
)

// GenerationParams describes how the posts of one run should be generated.
type GenerationParams struct {
	Style             StylePreset `json:"style,omitempty"`
	Budget            int64       `json:"budget"`
	ReferenceAssetIDs []string    `json:"referenceAssetIds,omitempty"`
	AdditionalContext string      `json:"additionalContext,omitempty"`
}

// StyleOrDefault returns the requested style or DefaultStyle.
func (p GenerationParams) StyleOrDefault() StylePreset {
	if p.Style == "" {
		return DefaultStyle
	}
	return p.Style
}

// RunStatus is the state of a generation run in the ledger.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// TaskStatus is the state of one post's generation inside a run.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

// Done reports whether the task has reached a final state.
func (s TaskStatus) Done() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

// GenerationTask tracks a single post within a run.
type GenerationTask struct {
	PostID    string     `json:"postId"`
	Status    TaskStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// GenerationRun is the ledger entry correlating the posts produced by one
// orchestration call. It lets a restarted process find posts left in
// GENERATING.
type GenerationRun struct {
	ID          string           `json:"runId"`
	CampaignID  string           `json:"campaignId"`
	Params      GenerationParams `json:"params"`
	Status      RunStatus        `json:"status"`
	Tasks       []GenerationTask `json:"tasks"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

// NewRun creates a pending run with one pending task per post.
func NewRun(id, campaignID string, params GenerationParams, postIDs []string, now time.Time) GenerationRun {
	tasks := make([]GenerationTask, 0, len(postIDs))
	for _, pid := range postIDs {
		tasks = append(tasks, GenerationTask{PostID: pid, Status: TaskStatusPending, UpdatedAt: now})
	}
	return GenerationRun{
		ID:         id,
		CampaignID: campaignID,
		Params:     params,
		Status:     RunStatusPending,
		Tasks:      tasks,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PostIDs returns the ids of the posts in the run, optionally limited to
// tasks in one of the given statuses.
func (r GenerationRun) PostIDs(statuses ...TaskStatus) []string {
	ids := make([]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		if len(statuses) > 0 && !slices.Contains(statuses, t.Status) {
			continue
		}
		ids = append(ids, t.PostID)
	}
	return ids
}

// Finished reports whether every task is done.
func (r GenerationRun) Finished() bool {
	for _, t := range r.Tasks {
		if !t.Status.Done() {
			return false
		}
	}
	return true
}

// SetTask updates the task for postID. It returns false if the run has no
// such task.
func (r *GenerationRun) SetTask(postID string, status TaskStatus, errMsg string, now time.Time) bool {
	for i := range r.Tasks {
		if r.Tasks[i].PostID != postID {
			continue
		}
		r.Tasks[i].Status = status
		r.Tasks[i].Error = errMsg
		r.Tasks[i].UpdatedAt = now
		r.UpdatedAt = now
		return true
	}
	return false
}
