package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/kazz187/taskboard/internal/task"
	"github.com/kazz187/taskboard/internal/taskstore"
	"github.com/kazz187/taskboard/internal/view"
)

const maxConcurrentRequests = 4

var dueLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type optional[T any] struct {
	value T
	set   bool
}

// taskFlags are the editable task fields shared by create and edit.
type taskFlags struct {
	title          optional[string]
	description    optional[string]
	status         optional[string]
	priority       optional[string]
	due            optional[string]
	tags           optional[string]
	estimatedHours optional[int]
	actualHours    optional[int]
}

func registerTaskFlags(cmd *kingpin.CmdClause, withTitle bool) *taskFlags {
	f := &taskFlags{}
	if withTitle {
		cmd.Flag("title", "Task title").IsSetByUser(&f.title.set).StringVar(&f.title.value)
	}
	cmd.Flag("description", "Task description").IsSetByUser(&f.description.set).StringVar(&f.description.value)
	cmd.Flag("status", "TODO, IN_PROGRESS or DONE").IsSetByUser(&f.status.set).StringVar(&f.status.value)
	cmd.Flag("priority", "LOW, MEDIUM, HIGH or URGENT").IsSetByUser(&f.priority.set).StringVar(&f.priority.value)
	cmd.Flag("due", "Due date (2006-01-02, 2006-01-02T15:04 or RFC3339)").IsSetByUser(&f.due.set).StringVar(&f.due.value)
	cmd.Flag("tags", "Comma separated tags").IsSetByUser(&f.tags.set).StringVar(&f.tags.value)
	cmd.Flag("estimated-hours", "Estimated hours").IsSetByUser(&f.estimatedHours.set).IntVar(&f.estimatedHours.value)
	cmd.Flag("actual-hours", "Actual hours").IsSetByUser(&f.actualHours.set).IntVar(&f.actualHours.value)
	return f
}

func (f *taskFlags) draft(title string) (*task.Task, error) {
	p, err := f.patch()
	if err != nil {
		return nil, err
	}
	t := p.Apply(&task.Task{Title: title})
	t.ApplyDefaults()
	return t, nil
}

func (f *taskFlags) patch() (*task.Patch, error) {
	p := &task.Patch{}
	if f.title.set {
		p.Title = &f.title.value
	}
	if f.description.set {
		p.Description = &f.description.value
	}
	if f.status.set {
		st, err := task.ParseStatus(f.status.value)
		if err != nil {
			return nil, err
		}
		p.Status = &st
	}
	if f.priority.set {
		pr, err := task.ParsePriority(f.priority.value)
		if err != nil {
			return nil, err
		}
		p.Priority = &pr
	}
	if f.due.set {
		due, err := parseDue(f.due.value)
		if err != nil {
			return nil, err
		}
		p.DueDate = &due
	}
	if f.tags.set {
		p.Tags = task.ParseTags(f.tags.value)
	}
	if f.estimatedHours.set {
		p.EstimatedHours = &f.estimatedHours.value
	}
	if f.actualHours.set {
		p.ActualHours = &f.actualHours.value
	}
	return p, nil
}

// parseDue reads a due date in local time unless the input carries a zone.
func parseDue(s string) (time.Time, error) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

type listOptions struct {
	status       string
	priority     string
	page         int
	size         int
	search       string
	onlyStatus   string
	onlyPriority string
}

func (o listOptions) filter() (task.Filter, error) {
	f := task.Filter{Page: o.page, Size: o.size}
	var err error
	if o.status != "" {
		if f.Status, err = task.ParseStatus(o.status); err != nil {
			return task.Filter{}, err
		}
	}
	if o.priority != "" {
		if f.Priority, err = task.ParsePriority(o.priority); err != nil {
			return task.Filter{}, err
		}
	}
	return f, nil
}

func (o listOptions) selector() (task.Selector, error) {
	sel := task.Selector{Search: o.search, Status: task.All, Priority: task.All}
	var err error
	if o.onlyStatus != "" && o.onlyStatus != task.All {
		if sel.Status, err = task.ParseStatus(o.onlyStatus); err != nil {
			return task.Selector{}, err
		}
	}
	if o.onlyPriority != "" && o.onlyPriority != task.All {
		if sel.Priority, err = task.ParsePriority(o.onlyPriority); err != nil {
			return task.Selector{}, err
		}
	}
	return sel, nil
}

type cli struct {
	store *taskstore.Store
	out   *view.Renderer
	now   func() time.Time
}

func (c *cli) list(ctx context.Context, o listOptions) error {
	f, err := o.filter()
	if err != nil {
		return err
	}
	sel, err := o.selector()
	if err != nil {
		return err
	}
	if err := c.store.List(ctx, f); err != nil {
		return err
	}
	return c.out.Tasks(sel.Apply(c.store.Tasks()))
}

func (c *cli) show(ctx context.Context, id task.ID) error {
	if err := c.store.List(ctx, task.Filter{}); err != nil {
		return err
	}
	t, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}
	return c.out.Task(t)
}

func (c *cli) create(ctx context.Context, title string, flags *taskFlags) error {
	draft, err := flags.draft(title)
	if err != nil {
		return err
	}
	if err := task.ValidateDraft(draft, c.now()); err != nil {
		return err
	}
	created, err := c.store.Create(ctx, draft)
	if err != nil {
		return err
	}
	if err := c.out.Message("Created task %s", created.ID); err != nil {
		return err
	}
	return c.out.Task(created)
}

func (c *cli) edit(ctx context.Context, id task.ID, flags *taskFlags) error {
	p, err := flags.patch()
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return errors.New("nothing to update: pass at least one field flag")
	}
	if err := task.ValidatePatch(p, c.now()); err != nil {
		return err
	}
	updated, err := c.store.Update(ctx, id, p)
	if err != nil {
		return err
	}
	return c.out.Task(updated)
}

func (c *cli) setStatus(ctx context.Context, id task.ID, status string) error {
	st, err := task.ParseStatus(status)
	if err != nil {
		return err
	}
	text, err := c.store.UpdateStatus(ctx, id, st)
	if err != nil {
		return err
	}
	return c.out.Message("%s", text)
}

// done marks every id as DONE in parallel and then shows the refreshed list.
func (c *cli) done(ctx context.Context, ids []task.ID) error {
	p := pool.NewWithResults[string]().
		WithContext(ctx).
		WithMaxGoroutines(maxConcurrentRequests)
	for _, id := range ids {
		p.Go(func(ctx context.Context) (string, error) {
			return c.store.UpdateStatus(ctx, id, task.StatusDone)
		})
	}
	texts, updateErr := p.Wait()
	for _, text := range texts {
		if err := c.out.Message("%s", text); err != nil {
			return err
		}
	}
	if updateErr != nil {
		return updateErr
	}
	if err := c.store.List(ctx, task.Filter{}); err != nil {
		return err
	}
	return c.out.Tasks(c.store.Tasks())
}

func (c *cli) delete(ctx context.Context, ids []task.ID) error {
	var errs []error
	for _, id := range ids {
		if err := c.store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", id, err))
			continue
		}
		if err := c.out.Message("Deleted task %s", id); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

func (c *cli) search(ctx context.Context, keyword string) error {
	if err := c.store.Search(ctx, keyword); err != nil {
		return err
	}
	return c.out.Tasks(c.store.Tasks())
}

func (c *cli) board(ctx context.Context) error {
	if err := c.store.List(ctx, task.Filter{}); err != nil {
		return err
	}
	return c.out.Board(task.NewBoard(c.store.Tasks()))
}

func (c *cli) stats(ctx context.Context) error {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return err
	}
	return c.out.Stats(*stats)
}
