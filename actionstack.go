package loom

// Action pairs a forward operation with its inverse. Do performs the
// action; Undo must exactly reverse whatever Do did at the time it ran.
type Action struct {
	Do   func()
	Undo func()
}

// ActionStack is a bounded, type-erased undo/redo deque. Executing a new
// action past a prior undo discards every action from the undo cursor
// onward, exactly as a single-branch editor history works: there is no
// redo tree, only a single future that a fresh Execute replaces.
type ActionStack struct {
	actions []Action
	cursor  int
	limit   int
}

// NewActionStack returns an empty stack bounded to limit actions. A limit
// of zero or less uses Config.ActionStackSize.
func NewActionStack(limit int) *ActionStack {
	if limit <= 0 {
		limit = Config.ActionStackSize
	}
	return &ActionStack{limit: limit}
}

// Execute truncates any redoable actions past the current cursor, appends
// a and advances the cursor past it, then runs a.Do — in that order, so a
// nested Execute called from within a.Do sees a stack that already
// contains a — and finally pops the oldest action if the stack now exceeds
// its capacity.
func (s *ActionStack) Execute(a Action) {
	s.actions = s.actions[:s.cursor]
	s.actions = append(s.actions, a)
	s.cursor = len(s.actions)
	a.Do()
	if len(s.actions) > s.limit {
		s.actions = s.actions[1:]
		s.cursor--
	}
}

// CanUndo reports whether Undo has an action to reverse.
func (s *ActionStack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether Redo has an action to replay.
func (s *ActionStack) CanRedo() bool {
	return s.cursor < len(s.actions)
}

// Undo reverses the most recently executed (or redone) action and moves the
// cursor back over it. It is a no-op if CanUndo is false.
func (s *ActionStack) Undo() {
	if !s.CanUndo() {
		return
	}
	s.cursor--
	s.actions[s.cursor].Undo()
}

// Redo re-runs the action just undone and advances the cursor past it. It
// is a no-op if CanRedo is false.
func (s *ActionStack) Redo() {
	if !s.CanRedo() {
		return
	}
	s.actions[s.cursor].Do()
	s.cursor++
}

// Len returns how many actions the stack currently retains, undoable and
// redoable combined.
func (s *ActionStack) Len() int {
	return len(s.actions)
}
