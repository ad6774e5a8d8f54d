package agenda

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoDrag         = errors.New("agenda: no drag in progress")
	ErrDragInProgress = errors.New("agenda: drag already in progress")
)

type InteractionKind int

const (
	InteractionNone InteractionKind = iota
	InteractionMenu
	InteractionDragging
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionMenu:
		return "menu"
	case InteractionDragging:
		return "dragging"
	default:
		return "none"
	}
}

// InteractionState is the single transient UI state: nothing, an open menu
// for EventID, or a drag of EventID that started on Date.
type InteractionState struct {
	Kind    InteractionKind
	EventID string
	Date    string
}

type Interaction struct {
	mu    sync.Mutex
	state InteractionState
}

func (i *Interaction) Current() InteractionState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// OpenMenu replaces any menu; it is refused while dragging.
func (i *Interaction) OpenMenu(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Kind == InteractionDragging {
		return ErrDragInProgress
	}
	i.state = InteractionState{Kind: InteractionMenu, EventID: id}
	return nil
}

func (i *Interaction) BeginDrag(id, date string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Kind == InteractionDragging {
		return ErrDragInProgress
	}
	i.state = InteractionState{Kind: InteractionDragging, EventID: id, Date: date}
	return nil
}

func (i *Interaction) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state = InteractionState{}
}

// DropTarget is either another event on the same date (reorder) or a date
// column (reschedule).
type DropTarget struct {
	EventID string
	Date    string
}

// Drop finishes the current drag against target. The interaction is reset
// on every path, including errors and panics in the store.
func (s *Store) Drop(ctx context.Context, it *Interaction, target DropTarget) error {
	state := it.Current()
	defer it.Reset()
	if state.Kind != InteractionDragging {
		return ErrNoDrag
	}
	switch {
	case target.EventID != "":
		return s.Reorder(ctx, state.EventID, target.EventID, state.Date)
	case target.Date != "" && target.Date != state.Date:
		_, err := s.Reschedule(ctx, state.EventID, target.Date)
		return err
	default:
		return nil
	}
}
