package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	r := NewRun("r-1", "c-1", GenerationParams{Budget: 60}, []string{"a", "b", "c"}, t0)

	assert.Equal(t, RunStatusPending, r.Status)
	assert.Equal(t, []string{"a", "b", "c"}, r.PostIDs())
	assert.Equal(t, []string{"a", "b", "c"}, r.PostIDs(TaskStatusPending))
	assert.False(t, r.Finished())
}

func TestRunTasks(t *testing.T) {
	r := NewRun("r-1", "c-1", GenerationParams{}, []string{"a", "b"}, t0)
	later := t0.Add(time.Second)

	assert.True(t, r.SetTask("a", TaskStatusSucceeded, "", later))
	assert.False(t, r.SetTask("zzz", TaskStatusFailed, "", later))
	assert.Equal(t, later, r.UpdatedAt)
	assert.Equal(t, []string{"b"}, r.PostIDs(TaskStatusPending, TaskStatusRunning))
	assert.False(t, r.Finished())

	r.SetTask("b", TaskStatusFailed, "timeout", later)
	assert.True(t, r.Finished())
	assert.Equal(t, "timeout", r.Tasks[1].Error)
}

func TestStyleOrDefault(t *testing.T) {
	assert.Equal(t, StyleUGC, GenerationParams{}.StyleOrDefault())
	assert.Equal(t, StyleEditorial, GenerationParams{Style: StyleEditorial}.StyleOrDefault())
}

func TestCampaignPlatforms(t *testing.T) {
	c := Campaign{Platforms: []Platform{PlatformPinterest, PlatformFacebook}}
	assert.Equal(t, PlatformPinterest, c.PrimaryPlatform())
	assert.True(t, c.HasPlatform(PlatformFacebook))
	assert.False(t, c.HasPlatform(PlatformInstagram))
	assert.Equal(t, PlatformInstagram, Campaign{}.PrimaryPlatform())
}

func TestMinorToMajor(t *testing.T) {
	assert.InDelta(t, 0.5, MinorToMajor(BudgetFloor), 1e-9)
}
