package eisenhower

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedTasks(t *testing.T, kv *memKV) []Task {
	t.Helper()
	raw, ok := kv.raw(KeyTasks)
	require.True(t, ok, "tasks not persisted")
	var tasks []Task
	require.NoError(t, json.Unmarshal([]byte(raw), &tasks))
	return tasks
}

func TestTaskStore_AddUsesCurrentSession(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	curr, _ := sessions.CurrentSession()

	titles := []string{"write report", "book flights", "water plants"}
	for _, title := range titles {
		_, err := tasks.AddTask(NewTask{Title: title, Priority: PriorityUrgentImportant})
		require.NoError(t, err)
	}

	list := tasks.ListTasks()
	require.Len(t, list, len(titles))
	for i, task := range list {
		assert.Equal(t, titles[i], task.Title)
		assert.Equal(t, curr.ID, task.SessionID)
		assert.NotEmpty(t, task.ID)
		assert.False(t, task.CreatedAt.IsZero())
	}
	assert.Len(t, storedTasks(t, kv), len(titles))
}

func TestTaskStore_AddTrimsAndValidates(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	writes := kv.writeCount()

	_, err := tasks.AddTask(NewTask{Title: "  ", Priority: PriorityUrgentImportant})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = tasks.AddTask(NewTask{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
	assert.Empty(t, tasks.ListTasks())
	assert.Equal(t, writes, kv.writeCount())

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	task, err := tasks.AddTask(NewTask{Title: " plan trip ", Description: " Lisbon ", Priority: PriorityImportantNotUrgent, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "plan trip", task.Title)
	assert.Equal(t, "Lisbon", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, &due, task.DueDate)
}

func TestTaskStore_NoActiveSession(t *testing.T) {
	kv := newMemKV()
	tasks, err := NewTaskStore(noSession{}, NewPersister(kv, nil, 0), nil)
	require.NoError(t, err)

	_, err = tasks.AddTask(NewTask{Title: "orphan", Priority: PriorityUrgentImportant})
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Empty(t, tasks.ListTasks())
	assert.Empty(t, tasks.CountBySession())
	_, ok := kv.raw(KeyTasks)
	assert.False(t, ok, "refused add must not write")
}

func TestTaskStore_SessionsDoNotBleed(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)

	work, _ := sessions.CreateSession("Work")
	w1, _ := tasks.AddTask(NewTask{Title: "standup", Priority: PriorityUrgentImportant})
	w2, _ := tasks.AddTask(NewTask{Title: "review PR", Priority: PriorityUrgentNotImportant})

	home, _ := sessions.CreateSession("Home")
	h1, _ := tasks.AddTask(NewTask{Title: "laundry", Priority: PriorityNotUrgentNotImportant})

	assert.Equal(t, []Task{h1}, tasks.ListTasks())

	_, err := sessions.SwitchSession(work.ID)
	require.NoError(t, err)
	assert.Equal(t, []Task{w1, w2}, tasks.ListTasks())

	_, err = sessions.SwitchSession(home.ID)
	require.NoError(t, err)
	assert.Equal(t, []Task{h1}, tasks.ListTasks())

	assert.Len(t, storedTasks(t, kv), 3, "all sessions are persisted together")
}

func TestTaskStore_TasksByPriority(t *testing.T) {
	_, tasks := newStores(t, newMemKV())
	task, err := tasks.AddTask(NewTask{Title: "fix prod", Priority: PriorityUrgentImportant})
	require.NoError(t, err)

	assert.Equal(t, []Task{task}, tasks.TasksByPriority(PriorityUrgentImportant))
	assert.Empty(t, tasks.TasksByPriority(PriorityImportantNotUrgent))
}

func TestTaskStore_DeleteUnknownIsRefused(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	_, _ = tasks.AddTask(NewTask{Title: "a", Priority: PriorityUrgentImportant})
	writes := kv.writeCount()

	err := tasks.DeleteTask("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Len(t, tasks.ListTasks(), 1)
	assert.Equal(t, writes, kv.writeCount())
}

func TestTaskStore_DeleteIgnoresSession(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	def, _ := sessions.CurrentSession()
	task, _ := tasks.AddTask(NewTask{Title: "a", Priority: PriorityUrgentImportant})

	_, _ = sessions.CreateSession("Other")
	require.NoError(t, tasks.DeleteTask(task.ID))
	assert.Empty(t, storedTasks(t, kv))

	_, _ = sessions.SwitchSession(def.ID)
	assert.Empty(t, tasks.ListTasks())
}

func TestTaskStore_UpdateWrongSessionRefused(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	a, _ := sessions.CreateSession("A")
	_, _ = sessions.CreateSession("B")
	_, _ = sessions.SwitchSession(a.ID)

	task, err := tasks.AddTask(NewTask{Title: "under A", Priority: PriorityUrgentImportant})
	require.NoError(t, err)

	b, _ := sessions.SessionByName("B")
	_, _ = sessions.SwitchSession(b.ID)
	writes := kv.writeCount()

	_, err = tasks.UpdateTask(task)
	assert.ErrorIs(t, err, ErrSessionMismatch)
	assert.Equal(t, writes, kv.writeCount())
	stored := storedTasks(t, kv)
	require.Len(t, stored, 1)
	assert.Equal(t, task.ID, stored[0].ID)
	assert.Equal(t, a.ID, stored[0].SessionID)
}

func TestTaskStore_UpdateCannotMoveTaskBetweenSessions(t *testing.T) {
	sessions, tasks := newStores(t, newMemKV())
	def, _ := sessions.CurrentSession()
	task, _ := tasks.AddTask(NewTask{Title: "mine", Priority: PriorityUrgentImportant})

	other, _ := sessions.CreateSession("Other")
	task.SessionID = other.ID
	_, err := tasks.UpdateTask(task)
	assert.ErrorIs(t, err, ErrSessionMismatch)

	_, _ = sessions.SwitchSession(def.ID)
	got, err := tasks.TaskByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, got.SessionID)
}

func TestTaskStore_UpdateOverwritesFields(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	task, _ := tasks.AddTask(NewTask{Title: "draft", Priority: PriorityNotUrgentNotImportant})

	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	edited := task
	edited.Title = "final"
	edited.Description = "ship it"
	edited.Priority = PriorityUrgentImportant
	edited.DueDate = &due
	edited.Completed = true
	edited.CreatedAt = time.Time{}

	got, err := tasks.UpdateTask(edited)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt), "createdAt is immutable")

	stored := storedTasks(t, kv)
	require.Len(t, stored, 1)
	assert.Equal(t, "ship it", stored[0].Description)
	assert.Equal(t, PriorityUrgentImportant, stored[0].Priority)
	assert.True(t, stored[0].Completed)
	require.NotNil(t, stored[0].DueDate)
	assert.True(t, stored[0].DueDate.Equal(due))

	edited.ID = "missing"
	_, err = tasks.UpdateTask(edited)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskStore_ToggleTwiceRestores(t *testing.T) {
	_, tasks := newStores(t, newMemKV())
	task, _ := tasks.AddTask(NewTask{Title: "a", Priority: PriorityUrgentImportant})

	toggled, err := tasks.ToggleCompletion(task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	toggled, err = tasks.ToggleCompletion(task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = tasks.ToggleCompletion("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskStore_DeletedSessionOrphansTasks(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	gone, _ := sessions.CreateSession("Temporary")
	task, _ := tasks.AddTask(NewTask{Title: "left behind", Priority: PriorityUrgentImportant})

	require.NoError(t, sessions.DeleteSession(gone.ID))
	assert.Empty(t, tasks.ListTasks())
	assert.Equal(t, 1, tasks.CountBySession()[gone.ID])
	stored := storedTasks(t, kv)
	require.Len(t, stored, 1)
	assert.Equal(t, task.ID, stored[0].ID)
	assert.Equal(t, gone.ID, stored[0].SessionID)
}

func TestTaskStore_Rehydrates(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	due := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	added, _ := tasks.AddTask(NewTask{Title: "persist me", Priority: PriorityImportantNotUrgent, DueDate: &due})
	_, _ = tasks.ToggleCompletion(added.ID)
	curr, _ := sessions.CurrentSession()

	reloadedSessions, reloadedTasks := newStores(t, kv)
	reloadedCurr, _ := reloadedSessions.CurrentSession()
	assert.Equal(t, curr.ID, reloadedCurr.ID)

	list := reloadedTasks.ListTasks()
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)
	assert.True(t, list[0].Completed)
	assert.True(t, list[0].CreatedAt.Equal(added.CreatedAt))
	require.NotNil(t, list[0].DueDate)
	assert.True(t, list[0].DueDate.Equal(due))
}

func TestTaskStore_WriteFailureKeepsMemoryState(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	kv.failWrites = true

	task, err := tasks.AddTask(NewTask{Title: "volatile", Priority: PriorityUrgentImportant})
	require.NoError(t, err, "storage errors are not surfaced to callers")
	assert.Equal(t, []Task{task}, tasks.ListTasks())
	_, ok := kv.raw(KeyTasks)
	assert.False(t, ok)
}

func TestTaskStore_DueDateIsNotShared(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	added, err := tasks.AddTask(NewTask{Title: "renew passport", Priority: PriorityImportantNotUrgent, DueDate: &due})
	require.NoError(t, err)
	writes := kv.writeCount()

	due = due.AddDate(1, 0, 0)
	*added.DueDate = time.Time{}
	*tasks.ListTasks()[0].DueDate = time.Time{}.Add(time.Hour)
	*tasks.TasksByPriority(PriorityImportantNotUrgent)[0].DueDate = time.Time{}
	got, err := tasks.TaskByID(added.ID)
	require.NoError(t, err)
	*got.DueDate = time.Time{}
	toggled, err := tasks.ToggleCompletion(added.ID)
	require.NoError(t, err)
	*toggled.DueDate = time.Time{}

	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	list := tasks.ListTasks()
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DueDate)
	assert.True(t, list[0].DueDate.Equal(want))
	assert.Equal(t, writes+1, kv.writeCount(), "only the toggle wrote")
	assert.True(t, storedTasks(t, kv)[0].DueDate.Equal(want))

	edit := list[0]
	newDue := want.AddDate(0, 1, 0)
	edit.DueDate = &newDue
	updated, err := tasks.UpdateTask(edit)
	require.NoError(t, err)
	newDue = time.Time{}
	*updated.DueDate = time.Time{}
	assert.True(t, tasks.ListTasks()[0].DueDate.Equal(want.AddDate(0, 1, 0)))
}

func TestTaskStore_UpdateTrimsDescription(t *testing.T) {
	kv := newMemKV()
	_, tasks := newStores(t, kv)
	task, err := tasks.AddTask(NewTask{Title: "draft", Priority: PriorityUrgentImportant})
	require.NoError(t, err)

	task.Title = "  final "
	task.Description = "  ship it\n"
	updated, err := tasks.UpdateTask(task)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "ship it", updated.Description)
	assert.Equal(t, "ship it", storedTasks(t, kv)[0].Description)
}

func TestTaskStore_UnreadableStorageFails(t *testing.T) {
	kv := newMemKV()
	sessions, tasks := newStores(t, kv)
	_, err := tasks.AddTask(NewTask{Title: "keep me", Priority: PriorityUrgentImportant})
	require.NoError(t, err)
	before, _ := kv.raw(KeyTasks)

	kv.failReads = true
	_, err = NewTaskStore(sessions, NewPersister(kv, nil, 0), nil)
	assert.Error(t, err)
	kv.failReads = false

	after, _ := kv.raw(KeyTasks)
	assert.Equal(t, before, after)
	_, reloaded := newStores(t, kv)
	require.Len(t, reloaded.ListTasks(), 1)
	assert.Equal(t, "keep me", reloaded.ListTasks()[0].Title)
}
