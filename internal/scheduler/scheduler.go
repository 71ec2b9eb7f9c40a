package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"driftwood/internal/artifact"
	"driftwood/internal/entity"
	"driftwood/internal/tree"
	"driftwood/pkg/logging"
)

// Scheduler validates and repairs entities in priority tiers: entities
// sharing a priority run concurrently, tiers run strictly one after another
// in descending priority order. The barrier between tiers is hard — a tier
// never starts until every entity of the previous tier reached a terminal
// state — because high-priority entities bootstrap files that lower-priority
// entities read while computing their expected trees.
type Scheduler struct {
	patcher tree.Patcher
}

// New returns a scheduler using the standard merge repair strategy.
func New() *Scheduler {
	return &Scheduler{patcher: tree.MergePatcher{}}
}

// NewWithPatcher returns a scheduler with a custom repair strategy.
func NewWithPatcher(p tree.Patcher) *Scheduler {
	return &Scheduler{patcher: p}
}

// ValidateAll validates every entity, all tiers.
//
// The returned Run always covers the tiers that executed; on failure the
// first fatal error is returned after the failing tier's in-flight workers
// have finished, and no later tier starts.
func (s *Scheduler) ValidateAll(ctx context.Context, entities []entity.Entity) (*Run, error) {
	return s.run(ctx, entities, false)
}

// ValidatePriorityOnly validates only entities with a priority strictly
// greater than the default. This is the fast bootstrap pass for essential
// artifacts (a manifest must be correct before entities that read fields
// out of it compute their expected trees).
func (s *Scheduler) ValidatePriorityOnly(ctx context.Context, entities []entity.Entity) (*Run, error) {
	return s.run(ctx, entities, true)
}

func (s *Scheduler) run(ctx context.Context, entities []entity.Entity, priorityOnly bool) (*Run, error) {
	run := &Run{ID: uuid.New().String()}

	tiers := make(map[int][]entity.Entity)
	for _, e := range entities {
		tiers[e.Priority()] = append(tiers[e.Priority()], e)
	}

	priorities := make([]int, 0, len(tiers))
	for priority := range tiers {
		priorities = append(priorities, priority)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))

	for _, priority := range priorities {
		if priorityOnly && priority <= 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}

		group := tiers[priority]
		logging.Info("Scheduler", "Run %s: validating %d entities at priority %d", run.ID, len(group), priority)

		// One worker per entity: each tier sizes its own concurrency, so
		// small tiers are not serialized and there is no idle global pool.
		results := make([]Result, len(group))
		g := new(errgroup.Group)
		for i, e := range group {
			i, e := i, e
			g.Go(func() error {
				results[i] = s.validate(ctx, e)
				return results[i].Err
			})
		}

		err := g.Wait()
		run.Results = append(run.Results, results...)
		if err != nil {
			return run, fmt.Errorf("reconciliation run %s failed at priority %d: %w", run.ID, priority, err)
		}
	}

	return run, nil
}

// CheckAll computes correctness for every entity without creating or
// repairing anything. Missing artifacts count as incorrect. The error is
// non-nil only when a check could not be computed at all; incorrect
// artifacts are reported through the Results.
func (s *Scheduler) CheckAll(ctx context.Context, entities []entity.Entity) (*Run, error) {
	run := &Run{ID: uuid.New().String()}

	var firstErr error
	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		result := Result{Path: entityPath(e), Priority: e.Priority(), State: StateUnvalidated}

		exists, err := artifactExists(e)
		switch {
		case err != nil:
			result.State = StateFatal
			result.Err = err
		case !exists:
			result.State = StateChecked
			result.Err = fmt.Errorf("artifact %s does not exist", result.Path)
		default:
			correct, optedOut, _, err := s.check(e, false)
			if err != nil {
				result.State = StateFatal
				result.Err = err
			} else {
				result.OptedOut = optedOut
				result.State = StateChecked
				if correct {
					result.State = StateCorrect
				} else {
					actual, loadErr := e.Load()
					expected, expErr := e.Expected()
					if loadErr == nil && expErr == nil {
						result.Err = &IncorrectError{Path: result.Path, Mismatches: tree.Mismatches(expected, actual)}
					}
				}
			}
		}

		if result.Err != nil && result.State == StateFatal && firstErr == nil {
			firstErr = result.Err
		}
		run.Results = append(run.Results, result)
	}

	return run, firstErr
}

func artifactExists(e entity.Entity) (bool, error) {
	loc := e.Location()
	f := artifact.File{Dir: loc.Dir, Name: loc.Name, Ext: loc.Ext}
	return f.Exists()
}

// validate drives one entity through the state machine:
//
//	Unvalidated -> Created -> Checked -> Correct
//	                                  -> Repairing -> Rechecked -> Correct
//	                                                            -> Fatal
func (s *Scheduler) validate(ctx context.Context, e entity.Entity) Result {
	result := Result{Path: entityPath(e), Priority: e.Priority(), State: StateUnvalidated}

	if err := ctx.Err(); err != nil {
		result.State = StateFatal
		result.Err = err
		return result
	}

	created, err := e.EnsureCreated()
	if err != nil {
		result.State = StateFatal
		result.Err = fmt.Errorf("failed to create artifact %s: %w", result.Path, err)
		return result
	}
	result.Created = created
	result.State = StateCreated

	// An artifact that existed before this run and is entirely empty is the
	// user's opt-out: they keep the file but refuse management of its
	// content. An artifact we just created is not an opt-out — it proceeds
	// to repair so it gets its initial content.
	correct, optedOut, expected, err := s.check(e, created)
	if err != nil {
		result.State = StateFatal
		result.Err = err
		return result
	}
	result.State = StateChecked
	result.OptedOut = optedOut
	if correct {
		result.State = StateCorrect
		return result
	}

	result.State = StateRepairing
	logging.Info("Scheduler", "Repairing %s", result.Path)
	if err := s.repair(e, expected); err != nil {
		result.State = StateFatal
		result.Err = err
		return result
	}
	result.Repaired = true

	correct, _, _, err = s.check(e, created)
	if err != nil {
		result.State = StateFatal
		result.Err = err
		return result
	}
	result.State = StateRechecked
	if !correct {
		actual, loadErr := e.Load()
		mismatches := []string{}
		if loadErr == nil {
			mismatches = tree.Mismatches(expected, actual)
		}
		result.State = StateFatal
		result.Err = &UnrepairableError{Path: result.Path, Mismatches: mismatches}
		return result
	}

	result.State = StateCorrect
	return result
}

// check computes correctness without side effects. It returns the expected
// tree so that a following repair does not recompute it.
func (s *Scheduler) check(e entity.Entity, createdThisRun bool) (correct, optedOut bool, expected interface{}, err error) {
	actual, err := e.Load()
	if err != nil {
		return false, false, nil, fmt.Errorf("failed to load artifact %s: %w", entityPath(e), err)
	}

	if actual == nil && !createdThisRun {
		return true, true, nil, nil
	}

	expected, err = e.Expected()
	if err != nil {
		return false, false, nil, fmt.Errorf("failed to compute expected tree for %s: %w", entityPath(e), err)
	}

	return tree.IsSubset(expected, actual), false, expected, nil
}

// repair reloads the artifact, patches in the missing content and persists
// the result.
func (s *Scheduler) repair(e entity.Entity, expected interface{}) error {
	actual, err := e.Load()
	if err != nil {
		return fmt.Errorf("failed to reload artifact %s for repair: %w", entityPath(e), err)
	}
	if actual == nil {
		actual = emptyLike(expected)
	}

	patched, _ := tree.Patch(expected, actual, s.patcher)
	if err := e.Save(patched); err != nil {
		return fmt.Errorf("failed to persist repaired artifact %s: %w", entityPath(e), err)
	}
	return nil
}

// emptyLike returns an empty container of the expected tree's kind, the
// starting point for repairing an artifact that has no content yet.
func emptyLike(expected interface{}) interface{} {
	switch tree.KindOf(expected) {
	case tree.KindMap:
		return map[string]interface{}{}
	case tree.KindSequence:
		return []interface{}{}
	default:
		return tree.Copy(expected)
	}
}

func entityPath(e entity.Entity) string {
	loc := e.Location()
	return filepath.Join(loc.Dir, loc.Name+loc.Ext)
}
