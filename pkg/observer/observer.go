package observer

type EventType int

const (
	ItemFailedEvent    EventType = 1
	BatchSavedEvent    EventType = 2
	TaskRetriedEvent   EventType = 3
	TaskSucceededEvent EventType = 4
	TaskFailedEvent    EventType = 5
)

// Event describes something that happened while running a task. Only the fields
// relevant to E are set.
type Event struct {
	E        EventType
	Task     string
	Key      string
	Rows     int
	Failures int
	Attempts int
	Err      error
}

func NewItemFailedEvent(task, key string, err error) Event {
	return Event{E: ItemFailedEvent, Task: task, Key: key, Err: err}
}

func NewBatchSavedEvent(task string, rows, failures int) Event {
	return Event{E: BatchSavedEvent, Task: task, Rows: rows, Failures: failures}
}

func NewTaskRetriedEvent(task string, attempts int, err error) Event {
	return Event{E: TaskRetriedEvent, Task: task, Attempts: attempts, Err: err}
}

func NewTaskSucceededEvent(task string, attempts int) Event {
	return Event{E: TaskSucceededEvent, Task: task, Attempts: attempts}
}

func NewTaskFailedEvent(task string, attempts int, err error) Event {
	return Event{E: TaskFailedEvent, Task: task, Attempts: attempts, Err: err}
}

type Observer interface {
	OnNotify(Event)
}

type Notifier interface {
	RegisterObserver(Observer)
}
