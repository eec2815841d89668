package trace

import (
	"math"
	"sort"
	"strings"
)

// correlator joins before events to their matching after events by call
// identifier. It is transient state for one reconstruction pass: opened
// actions are looked up by identifier while replaying, then drained in
// insertion order at finalization.
type correlator struct {
	byCallID map[string]*Action
	order    []*Action
}

func newCorrelator() *correlator {
	return &correlator{byCallID: make(map[string]*Action)}
}

// open registers a new in-progress action. A repeated call identifier
// replaces the earlier action so identifiers stay unique within the
// context.
func (c *correlator) open(action *Action) {
	if prev, exists := c.byCallID[action.CallID]; exists {
		for i, a := range c.order {
			if a == prev {
				c.order[i] = action
				break
			}
		}
	} else {
		c.order = append(c.order, action)
	}
	c.byCallID[action.CallID] = action
}

// lookup returns the in-progress action for a call identifier, or nil.
func (c *correlator) lookup(callID string) *Action {
	return c.byCallID[callID]
}

// drain returns all opened actions in insertion order.
func (c *correlator) drain() []*Action {
	return c.order
}

// Reconstruct replays one trace-event stream, plus an optional network
// stream, into a Context. It never fails: lines that cannot be decoded
// are reported as warnings and skipped, and an after event with no
// matching before is silently discarded.
func Reconstruct(traceText, networkText string) (*Context, []Warning) {
	ctx := &Context{
		StartTime: math.MaxFloat64,
		Pages:     []*Page{},
		Actions:   []*Action{},
		Events:    []Event{},
	}

	actions := newCorrelator()
	pagesByID := make(map[string]*Page)
	var pageOrder []*Page
	var warnings []Warning

	apply := func(event Event) {
		switch e := event.(type) {
		case *ContextOptionsEvent:
			// Last write wins if the stream repeats context options.
			ctx.BrowserName = e.BrowserName
			ctx.Platform = e.Platform
			ctx.PlaywrightVersion = e.PlaywrightVersion
			ctx.WallTime = e.WallTime
			ctx.Title = e.Title
			if e.MonotonicTime > 0 && e.MonotonicTime < ctx.StartTime {
				ctx.StartTime = e.MonotonicTime
			}
		case *BeforeEvent:
			action := &Action{
				ActionType: string(KindBefore),
				CallID:     e.CallID,
				StartTime:  e.StartTime,
				Title:      e.Title,
				Class:      e.Class,
				Method:     e.Method,
				Params:     e.Params,
				PageID:     e.PageID,
				ParentID:   e.ParentID,
			}
			if action.Params == nil {
				action.Params = map[string]any{}
			}
			if action.StartTime < ctx.StartTime {
				ctx.StartTime = action.StartTime
			}
			actions.open(action)
		case *AfterEvent:
			action := actions.lookup(e.CallID)
			if action == nil {
				// No orphan action is created for an unmatched after.
				return
			}
			endTime := e.EndTime
			action.EndTime = &endTime
			action.Error = e.Error
			if endTime > ctx.EndTime {
				ctx.EndTime = endTime
			}
		case *ScreencastFrameEvent:
			page, ok := pagesByID[e.PageID]
			if !ok {
				page = &Page{PageID: e.PageID, ScreencastFrames: []ScreencastFrame{}}
				pagesByID[e.PageID] = page
				pageOrder = append(pageOrder, page)
			}
			page.ScreencastFrames = append(page.ScreencastFrames, ScreencastFrame{
				SHA1:      e.SHA1,
				Timestamp: e.Timestamp,
				Width:     e.Width,
				Height:    e.Height,
			})
		}
	}

	replay := func(stage, text string, mutate bool) {
		if text == "" {
			return
		}
		for i, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			event, err := DecodeEvent([]byte(line))
			if err != nil {
				warnings = append(warnings, Warning{
					Stage:   stage,
					Line:    i + 1,
					Message: err.Error(),
				})
				continue
			}
			if mutate {
				apply(event)
			}
			ctx.Events = append(ctx.Events, event)
		}
	}

	replay("trace", traceText, true)
	// Network events are decoded with the same decoder and retained in
	// the raw sequence; they drive no state transitions.
	replay("network", networkText, false)

	ctx.Actions = actions.drain()
	// Sorted ascending by start time; stable so equal starts keep their
	// source order. Downstream consumers rely on this ordering.
	sort.SliceStable(ctx.Actions, func(i, j int) bool {
		return ctx.Actions[i].StartTime < ctx.Actions[j].StartTime
	})

	ctx.Pages = pageOrder
	if ctx.Pages == nil {
		ctx.Pages = []*Page{}
	}

	if ctx.StartTime == math.MaxFloat64 {
		ctx.StartTime = 0
	}

	return ctx, warnings
}
