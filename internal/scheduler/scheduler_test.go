package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwood/internal/artifact"
	"driftwood/internal/entity"
	"driftwood/internal/tree"
)

// fakeEntity is an in-memory Entity for exercising the state machine
// without touching the filesystem.
type fakeEntity struct {
	mu       sync.Mutex
	path     string
	priority int
	expected interface{}
	content  interface{} // nil means the artifact is empty
	exists   bool

	dropSaves bool // simulate an external writer undoing repairs
	loadErr   error

	onLoad func() // invoked at the start of every Load
}

func (f *fakeEntity) Location() entity.Location {
	return entity.Location{Dir: "fake", Name: f.path}
}

func (f *fakeEntity) Priority() int {
	return f.priority
}

func (f *fakeEntity) Expected() (interface{}, error) {
	return f.expected, nil
}

func (f *fakeEntity) EnsureCreated() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists {
		return false, nil
	}
	f.exists = true
	return true, nil
}

func (f *fakeEntity) Load() (interface{}, error) {
	if f.onLoad != nil {
		f.onLoad()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.content, nil
}

func (f *fakeEntity) Save(value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dropSaves {
		f.content = value
	}
	return nil
}

func TestValidateAll_PopulatesCreatedArtifact(t *testing.T) {
	e := &fakeEntity{
		path:     "manifest.yaml",
		expected: map[string]interface{}{"name": "demo"},
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)
	require.Len(t, run.Results, 1)

	result := run.Results[0]
	assert.Equal(t, StateCorrect, result.State)
	assert.True(t, result.Created)
	assert.True(t, result.Repaired)
	assert.Equal(t, map[string]interface{}{"name": "demo"}, e.content)
}

func TestValidateAll_CorrectArtifactUntouched(t *testing.T) {
	e := &fakeEntity{
		path:     "manifest.yaml",
		exists:   true,
		expected: map[string]interface{}{"name": "demo"},
		content:  map[string]interface{}{"name": "demo", "custom": true},
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)

	result := run.Results[0]
	assert.Equal(t, StateCorrect, result.State)
	assert.False(t, result.Created)
	assert.False(t, result.Repaired)
}

func TestValidateAll_EmptyExistingArtifactIsOptOut(t *testing.T) {
	e := &fakeEntity{
		path:     "managed.yaml",
		exists:   true,
		content:  nil,
		expected: map[string]interface{}{"must": "have"},
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)

	result := run.Results[0]
	assert.Equal(t, StateCorrect, result.State)
	assert.True(t, result.OptedOut)
	assert.False(t, result.Repaired)
	assert.Nil(t, e.content, "opted-out artifact must stay empty")
}

func TestValidateAll_RepairPreservesUserAdditions(t *testing.T) {
	e := &fakeEntity{
		path:   "config.yaml",
		exists: true,
		expected: map[string]interface{}{
			"managed": map[string]interface{}{"key": "new"},
			"steps":   []interface{}{"build", "test"},
		},
		content: map[string]interface{}{
			"managed": map[string]interface{}{"key": "old", "mine": 1},
			"steps":   []interface{}{"build"},
			"extra":   "user",
		},
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)
	assert.Equal(t, StateCorrect, run.Results[0].State)
	assert.True(t, run.Results[0].Repaired)

	content := e.content.(map[string]interface{})
	assert.Equal(t, "user", content["extra"])
	assert.Equal(t, 1, content["managed"].(map[string]interface{})["mine"])
	assert.Equal(t, "new", content["managed"].(map[string]interface{})["key"])
	assert.Contains(t, content["steps"].([]interface{}), "test")
}

func TestValidateAll_UnrepairableIsFatal(t *testing.T) {
	e := &fakeEntity{
		path:      "stuck.yaml",
		exists:    true,
		expected:  map[string]interface{}{"a": 1},
		content:   map[string]interface{}{"a": 2},
		dropSaves: true,
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.Error(t, err)

	var unrepairable *UnrepairableError
	require.True(t, errors.As(err, &unrepairable))
	assert.Contains(t, unrepairable.Path, "stuck.yaml")
	assert.Contains(t, unrepairable.Mismatches, "a")
	assert.Equal(t, StateFatal, run.Results[0].State)
}

func TestValidateAll_LoadFailureIsFatal(t *testing.T) {
	e := &fakeEntity{
		path:    "broken.yaml",
		exists:  true,
		loadErr: errors.New("disk on fire"),
	}

	_, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestValidateAll_PriorityBarrier(t *testing.T) {
	var highDone atomic.Int32
	var violations atomic.Int32

	var high []entity.Entity
	for i := 0; i < 5; i++ {
		e := &fakeEntity{
			path:     "high.yaml",
			exists:   true,
			expected: map[string]interface{}{"k": "v"},
			content:  map[string]interface{}{"k": "v"},
		}
		e.onLoad = func() {
			time.Sleep(20 * time.Millisecond)
			highDone.Add(1)
		}
		e.priority = 10
		high = append(high, e)
	}

	low := &fakeEntity{
		path:     "low.yaml",
		exists:   true,
		expected: map[string]interface{}{"k": "v"},
		content:  map[string]interface{}{"k": "v"},
	}
	low.onLoad = func() {
		if highDone.Load() != 5 {
			violations.Add(1)
		}
	}

	entities := append([]entity.Entity{low}, high...)
	_, err := New().ValidateAll(context.Background(), entities)
	require.NoError(t, err)
	assert.Zero(t, violations.Load(), "priority-0 entity started before the priority-10 tier finished")
}

func TestValidateAll_FatalTierStopsLowerTiers(t *testing.T) {
	bad := &fakeEntity{
		path:     "bad.yaml",
		exists:   true,
		priority: 10,
		loadErr:  errors.New("boom"),
	}
	sibling := &fakeEntity{
		path:     "sibling.yaml",
		exists:   true,
		priority: 10,
		expected: map[string]interface{}{"k": "v"},
		content:  map[string]interface{}{"k": "v"},
	}
	var lowRan atomic.Bool
	low := &fakeEntity{
		path:     "low.yaml",
		exists:   true,
		expected: map[string]interface{}{"k": "v"},
		content:  map[string]interface{}{"k": "v"},
	}
	low.onLoad = func() { lowRan.Store(true) }

	run, err := New().ValidateAll(context.Background(), []entity.Entity{bad, sibling, low})
	require.Error(t, err)

	// The failing tier's sibling still finished; the lower tier never ran.
	assert.Len(t, run.Results, 2)
	assert.False(t, lowRan.Load(), "lower tier must not start after a fatal tier")
}

func TestValidatePriorityOnly(t *testing.T) {
	essential := &fakeEntity{
		path:     "essential.yaml",
		priority: 5,
		expected: map[string]interface{}{"k": "v"},
	}
	regular := &fakeEntity{
		path:     "regular.yaml",
		expected: map[string]interface{}{"k": "v"},
	}
	negative := &fakeEntity{
		path:     "late.yaml",
		priority: -1,
		expected: map[string]interface{}{"k": "v"},
	}

	run, err := New().ValidatePriorityOnly(context.Background(),
		[]entity.Entity{essential, regular, negative})
	require.NoError(t, err)

	require.Len(t, run.Results, 1)
	assert.Contains(t, run.Results[0].Path, "essential.yaml")
	assert.False(t, regular.exists, "priority-0 entity must not be touched")
	assert.False(t, negative.exists, "negative-priority entity must not be touched")
}

func TestValidateAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &fakeEntity{path: "any.yaml", expected: map[string]interface{}{"k": "v"}}
	_, err := New().ValidateAll(ctx, []entity.Entity{e})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.exists)
}

func TestCheckAll_ReportsWithoutRepairing(t *testing.T) {
	dir := t.TempDir()

	correct := &entity.Base{
		File:         artifact.File{Dir: dir, Name: "good", Ext: ".yaml", Codec: artifact.YAML{}},
		ExpectedFunc: func() (interface{}, error) { return map[string]interface{}{"a": 1}, nil },
	}
	require.NoError(t, correct.Save(map[string]interface{}{"a": 1, "extra": true}))

	wrong := &entity.Base{
		File:         artifact.File{Dir: dir, Name: "bad", Ext: ".yaml", Codec: artifact.YAML{}},
		ExpectedFunc: func() (interface{}, error) { return map[string]interface{}{"a": 1}, nil },
	}
	require.NoError(t, wrong.Save(map[string]interface{}{"a": 2}))

	missing := &entity.Base{
		File:         artifact.File{Dir: dir, Name: "absent", Ext: ".yaml", Codec: artifact.YAML{}},
		ExpectedFunc: func() (interface{}, error) { return map[string]interface{}{"a": 1}, nil },
	}

	run, err := New().CheckAll(context.Background(),
		[]entity.Entity{correct, wrong, missing})
	require.NoError(t, err)
	require.Len(t, run.Results, 3)

	assert.Equal(t, StateCorrect, run.Results[0].State)
	assert.Error(t, run.Results[1].Err)
	var incorrect *IncorrectError
	assert.True(t, errors.As(run.Results[1].Err, &incorrect))
	assert.Error(t, run.Results[2].Err)

	// Nothing was repaired or created.
	loaded, err := wrong.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 2}, loaded)
	exists, err := missing.File.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestValidateAll_FileBackedEndToEnd(t *testing.T) {
	dir := t.TempDir()
	expected := map[string]interface{}{
		"service": map[string]interface{}{"name": "demo", "replicas": 2},
	}

	e := &entity.Base{
		File:         artifact.File{Dir: dir, Name: "service", Ext: ".yaml", Codec: artifact.YAML{}},
		ExpectedFunc: func() (interface{}, error) { return expected, nil },
	}

	run, err := New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)
	assert.Equal(t, StateCorrect, run.Results[0].State)
	assert.Equal(t, 1, run.Repaired())

	loaded, err := e.Load()
	require.NoError(t, err)
	assert.True(t, tree.IsSubset(expected, loaded))

	// A second run finds everything correct.
	run, err = New().ValidateAll(context.Background(), []entity.Entity{e})
	require.NoError(t, err)
	assert.False(t, run.Results[0].Repaired)
	assert.Zero(t, run.Repaired())
}
