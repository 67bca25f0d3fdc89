// Package tui renders live progress for a test run.
package tui

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/crossrun/crossrun/internal/pool"
)

const tableTitle = "Tests"

// UI coordinates the interactive run view backed by tview.
type UI struct {
	app    *tview.Application
	table  *tview.Table
	status *tview.TextView
	events <-chan pool.Event

	mu    sync.Mutex
	tasks map[string]*taskState

	stopOnce sync.Once
	done     chan struct{}
}

type taskState struct {
	name     string
	state    pool.EventType
	message  string
	duration time.Duration
}

// New constructs a UI consuming the provided event stream.
func New(events <-chan pool.Event) *UI {
	app := tview.NewApplication()

	table := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	table.SetBorder(true).SetTitle(tableTitle)

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBorder(true)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(status, 3, 0, false)

	ui := &UI{
		app:    app,
		table:  table,
		status: status,
		events: events,
		tasks:  make(map[string]*taskState),
		done:   make(chan struct{}),
	}

	app.SetRoot(flex, true)
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Key() == tcell.KeyCtrlC:
			ui.Stop()
			return nil
		case event.Rune() == 'q':
			ui.Stop()
			return nil
		}
		return event
	})

	return ui
}

// Run drives the UI until the event stream closes or the user quits.
func (u *UI) Run() error {
	go u.consume()
	defer u.Stop()
	return u.app.Run()
}

// Stop terminates the UI event loop.
func (u *UI) Stop() {
	u.stopOnce.Do(func() {
		close(u.done)
		u.app.Stop()
	})
}

func (u *UI) consume() {
	for {
		select {
		case <-u.done:
			return
		case evt, ok := <-u.events:
			if !ok {
				return
			}
			u.apply(evt)
			u.app.QueueUpdateDraw(u.render)
		}
	}
}

// apply folds one event into the view state.
func (u *UI) apply(evt pool.Event) {
	u.mu.Lock()
	defer u.mu.Unlock()

	state, ok := u.tasks[evt.Task]
	if !ok {
		state = &taskState{name: evt.Task}
		u.tasks[evt.Task] = state
	}
	state.state = evt.Type
	state.message = evt.Message
	if evt.Type != pool.EventTypeStarted {
		state.duration = evt.Duration
	}
}

func (u *UI) render() {
	u.mu.Lock()
	rows := make([]*taskState, 0, len(u.tasks))
	for _, state := range u.tasks {
		rows = append(rows, state)
	}
	u.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	u.table.Clear()
	for col, header := range []string{"Test", "State", "Duration", "Detail"} {
		u.table.SetCell(0, col, tview.NewTableCell(header).SetSelectable(false).SetAttributes(tcell.AttrBold))
	}

	var passed, failed, running int
	for i, state := range rows {
		row := i + 1
		u.table.SetCell(row, 0, tview.NewTableCell(state.name))
		u.table.SetCell(row, 1, stateCell(state.state))
		duration := ""
		if state.duration > 0 {
			duration = state.duration.Round(time.Millisecond).String()
		}
		u.table.SetCell(row, 2, tview.NewTableCell(duration))
		u.table.SetCell(row, 3, tview.NewTableCell(state.message))

		switch state.state {
		case pool.EventTypePassed:
			passed++
		case pool.EventTypeFailed, pool.EventTypeTimeout:
			failed++
		case pool.EventTypeStarted:
			running++
		}
	}

	u.status.SetText(fmt.Sprintf("[green]%d passed[-]  [red]%d failed[-]  %d running  (q to quit)", passed, failed, running))
}

func stateCell(state pool.EventType) *tview.TableCell {
	switch state {
	case pool.EventTypePassed:
		return tview.NewTableCell("PASS").SetTextColor(tcell.ColorGreen)
	case pool.EventTypeFailed:
		return tview.NewTableCell("FAIL").SetTextColor(tcell.ColorRed)
	case pool.EventTypeTimeout:
		return tview.NewTableCell("TIMEOUT").SetTextColor(tcell.ColorRed)
	default:
		return tview.NewTableCell("RUN").SetTextColor(tcell.ColorYellow)
	}
}

// Summary reports the tallies shown in the footer. Exposed for tests.
func (u *UI) Summary() (passed, failed, running int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, state := range u.tasks {
		switch state.state {
		case pool.EventTypePassed:
			passed++
		case pool.EventTypeFailed, pool.EventTypeTimeout:
			failed++
		case pool.EventTypeStarted:
			running++
		}
	}
	return passed, failed, running
}
