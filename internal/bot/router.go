// Package bot implements the dialog handlers: a deterministic mapping
// from inbound chat events and per-owner conversation state to store
// mutations and outbound replies.
package bot

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/stellarlinkco/taskbot/internal/bus"
	"github.com/stellarlinkco/taskbot/internal/dialog"
	"github.com/stellarlinkco/taskbot/internal/task"
)

// Router dispatches inbound events first-match. Events that match no
// handler are dropped without a reply.
type Router struct {
	store   *task.Store
	dialogs *dialog.Tracker
	now     func() time.Time // injectable clock
}

func NewRouter(store *task.Store, dialogs *dialog.Tracker) *Router {
	return &Router{
		store:   store,
		dialogs: dialogs,
		now:     time.Now,
	}
}

func (r *Router) Handle(in bus.InboundMessage) []bus.OutboundMessage {
	switch in.Kind {
	case bus.KindText:
		return r.handleText(in)
	case bus.KindCallback:
		return r.handleCallback(in)
	}
	return nil
}

// handleText dispatches plain text. Order matters: the add-task entry
// overrides any dialog in progress (silent overwrite), while the other
// menu entries are matched only after phase handlers, so mid-dialog
// they are consumed as dialog input.
func (r *Router) handleText(in bus.InboundMessage) []bus.OutboundMessage {
	if in.Content == cmdStart {
		return r.reply(in, welcomeText, withMenu())
	}
	if in.Content == menuAdd {
		r.dialogs.Set(in.OwnerID, dialog.State{Phase: dialog.PhaseNewTaskText})
		return r.reply(in, "Enter the task text:")
	}

	switch r.dialogs.Get(in.OwnerID).Phase {
	case dialog.PhaseNewTaskText:
		return r.newTaskText(in)
	case dialog.PhaseNewTaskDeadline:
		return r.newTaskDeadline(in)
	case dialog.PhaseEditText:
		return r.editText(in)
	case dialog.PhaseEditDeadline:
		return r.editDeadline(in)
	}

	switch in.Content {
	case menuList:
		return r.listPending(in)
	case menuHistory:
		return r.showHistory(in)
	case menuHelp:
		return r.reply(in, welcomeText, withMenu())
	}
	return nil
}

func (r *Router) handleCallback(in bus.InboundMessage) []bus.OutboundMessage {
	tag := in.Callback
	switch {
	case strings.HasPrefix(tag, cbPriority):
		return r.newTaskPriority(in, strings.TrimPrefix(tag, cbPriority))
	case strings.HasPrefix(tag, cbSetPriority):
		return r.editPriority(in, strings.TrimPrefix(tag, cbSetPriority))
	case strings.HasPrefix(tag, cbEditText):
		return r.startEdit(in, dialog.PhaseEditText, strings.TrimPrefix(tag, cbEditText))
	case strings.HasPrefix(tag, cbEditPriority):
		return r.startEdit(in, dialog.PhaseEditPriority, strings.TrimPrefix(tag, cbEditPriority))
	case strings.HasPrefix(tag, cbEditDeadline):
		return r.startEdit(in, dialog.PhaseEditDeadline, strings.TrimPrefix(tag, cbEditDeadline))
	case strings.HasPrefix(tag, cbTask):
		return r.taskActions(in, strings.TrimPrefix(tag, cbTask))
	case strings.HasPrefix(tag, cbDone):
		return r.setStatus(in, strings.TrimPrefix(tag, cbDone), task.StatusDone, "✅ Task completed!")
	case strings.HasPrefix(tag, cbCancel):
		return r.setStatus(in, strings.TrimPrefix(tag, cbCancel), task.StatusCanceled, "❌ Task canceled!")
	}
	return nil
}

// ---- add-task flow ----

func (r *Router) newTaskText(in bus.InboundMessage) []bus.OutboundMessage {
	text := strings.TrimSpace(in.Content)
	if !task.ValidText(text) {
		return r.reply(in, "⚠️ Task text cannot be empty! Try again.")
	}

	r.dialogs.Set(in.OwnerID, dialog.State{Phase: dialog.PhaseNewTaskPriority, Text: text})
	return r.reply(in, "Choose a priority:", withButtons(priorityKeyboard(cbPriority)))
}

func (r *Router) newTaskPriority(in bus.InboundMessage, name string) []bus.OutboundMessage {
	state := r.dialogs.Get(in.OwnerID)
	if state.Phase != dialog.PhaseNewTaskPriority {
		return nil // stale button press, no dialog waiting on it
	}
	priority, ok := task.ParsePriority(name)
	if !ok {
		return nil
	}

	state.Phase = dialog.PhaseNewTaskDeadline
	state.Priority = string(priority)
	r.dialogs.Set(in.OwnerID, state)
	return r.reply(in, deadlinePrompt)
}

func (r *Router) newTaskDeadline(in bus.InboundMessage) []bus.OutboundMessage {
	dueAt, ok := parseDeadline(in.Content)
	if !ok {
		return r.reply(in, deadlineFormatWarning)
	}

	state := r.dialogs.Get(in.OwnerID)
	createdOn := r.now().Format("2006-01-02")
	if _, err := r.store.Create(in.OwnerID, state.Text, createdOn, task.Priority(state.Priority), dueAt); err != nil {
		log.Printf("[bot] create task for owner %d: %v", in.OwnerID, err)
		return r.reply(in, storeErrorText, withMenu())
	}

	r.dialogs.Clear(in.OwnerID)
	return r.reply(in, "✅ Task added!", withMenu())
}

// ---- listing ----

func (r *Router) listPending(in bus.InboundMessage) []bus.OutboundMessage {
	tasks, err := r.store.List(in.OwnerID, task.StatusPending)
	if err != nil {
		log.Printf("[bot] list tasks for owner %d: %v", in.OwnerID, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	if len(tasks) == 0 {
		return r.reply(in, "No active tasks.", withMenu())
	}

	buttons := make([][]bus.Button, 0, len(tasks))
	for _, t := range tasks {
		buttons = append(buttons, []bus.Button{{
			Label: taskPreview(t),
			Data:  cbTask + strconv.FormatInt(t.ID, 10),
		}})
	}
	return r.reply(in, "📋 Pick a task to manage:", withButtons(buttons))
}

func (r *Router) taskActions(in bus.InboundMessage, rawID string) []bus.OutboundMessage {
	return r.reply(in, "Choose an action:", withButtons(taskActionKeyboard(rawID)))
}

func (r *Router) showHistory(in bus.InboundMessage) []bus.OutboundMessage {
	done, err := r.store.ListGroupedByDate(in.OwnerID, task.StatusDone)
	if err != nil {
		log.Printf("[bot] list done for owner %d: %v", in.OwnerID, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	canceled, err := r.store.ListGroupedByDate(in.OwnerID, task.StatusCanceled)
	if err != nil {
		log.Printf("[bot] list canceled for owner %d: %v", in.OwnerID, err)
		return r.reply(in, storeErrorText, withMenu())
	}

	if len(done) == 0 && len(canceled) == 0 {
		return r.reply(in, "✅❌ You have no done or canceled tasks.", withMenu())
	}
	return r.reply(in, formatHistory(done, canceled), withMenu())
}

// ---- edit flows ----

func (r *Router) startEdit(in bus.InboundMessage, phase dialog.Phase, rawID string) []bus.OutboundMessage {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}
	r.dialogs.Set(in.OwnerID, dialog.State{Phase: phase, TaskID: id})

	switch phase {
	case dialog.PhaseEditText:
		return r.reply(in, "✏️ Enter the new task text:")
	case dialog.PhaseEditPriority:
		return r.reply(in, "Choose the new priority:", withButtons(priorityKeyboard(cbSetPriority)))
	case dialog.PhaseEditDeadline:
		return r.reply(in, "🗓️ "+deadlinePrompt)
	}
	return nil
}

func (r *Router) editText(in bus.InboundMessage) []bus.OutboundMessage {
	text := strings.TrimSpace(in.Content)
	if !task.ValidText(text) {
		return r.reply(in, "⚠️ Task text cannot be empty! Try again.")
	}

	state := r.dialogs.Get(in.OwnerID)
	if err := r.store.UpdateText(state.TaskID, text); err != nil {
		log.Printf("[bot] update text of task %d: %v", state.TaskID, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	r.dialogs.Clear(in.OwnerID)
	return r.reply(in, "✅ Task text updated!", withMenu())
}

func (r *Router) editPriority(in bus.InboundMessage, name string) []bus.OutboundMessage {
	state := r.dialogs.Get(in.OwnerID)
	if state.Phase != dialog.PhaseEditPriority {
		return nil
	}
	priority, ok := task.ParsePriority(name)
	if !ok {
		return nil
	}

	if err := r.store.UpdatePriority(state.TaskID, priority); err != nil {
		log.Printf("[bot] update priority of task %d: %v", state.TaskID, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	r.dialogs.Clear(in.OwnerID)
	return r.reply(in, "✅ Task priority updated!", withMenu())
}

func (r *Router) editDeadline(in bus.InboundMessage) []bus.OutboundMessage {
	dueAt, ok := parseDeadline(in.Content)
	if !ok {
		return r.reply(in, deadlineFormatWarning)
	}

	state := r.dialogs.Get(in.OwnerID)
	if err := r.store.UpdateDue(state.TaskID, dueAt); err != nil {
		log.Printf("[bot] update deadline of task %d: %v", state.TaskID, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	r.dialogs.Clear(in.OwnerID)
	return r.reply(in, "✅ Task deadline updated!", withMenu())
}

// ---- status changes ----

func (r *Router) setStatus(in bus.InboundMessage, rawID string, status task.Status, confirmation string) []bus.OutboundMessage {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}
	if err := r.store.UpdateStatus(id, status); err != nil {
		log.Printf("[bot] update status of task %d: %v", id, err)
		return r.reply(in, storeErrorText, withMenu())
	}
	return r.reply(in, confirmation, withMenu())
}

// ---- outbound helpers ----

type replyOpt func(*bus.OutboundMessage)

func withMenu() replyOpt {
	return func(m *bus.OutboundMessage) { m.Menu = mainMenu() }
}

func withButtons(buttons [][]bus.Button) replyOpt {
	return func(m *bus.OutboundMessage) { m.Buttons = buttons }
}

func (r *Router) reply(in bus.InboundMessage, text string, opts ...replyOpt) []bus.OutboundMessage {
	out := bus.OutboundMessage{
		Channel: in.Channel,
		ChatID:  in.ChatID,
		Content: text,
	}
	for _, opt := range opts {
		opt(&out)
	}
	return []bus.OutboundMessage{out}
}
