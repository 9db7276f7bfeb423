package menu

// Screen identifies one page of the menu.
type Screen int

// Menu screens.
const (
	ScreenMain Screen = iota
	ScreenRepositoryList
	ScreenNewRepository
	ScreenRepositoryDetail
	ScreenAddACL
	ScreenEditACL
	ScreenConfirmDelete
	ScreenQuit
)

var screenNames = map[Screen]string{
	ScreenMain:             "main",
	ScreenRepositoryList:   "repository list",
	ScreenNewRepository:    "new repository",
	ScreenRepositoryDetail: "repository detail",
	ScreenAddACL:           "add ACL",
	ScreenEditACL:          "edit ACL",
	ScreenConfirmDelete:    "confirm delete",
	ScreenQuit:             "quit",
}

func (screen Screen) String() string {
	if name, known := screenNames[screen]; known {
		return name
	}
	return "unknown"
}

// EventKind identifies what happened on a screen.
type EventKind int

// Menu events.
const (
	EventNone EventKind = iota
	EventBack
	EventQuit
	EventFailed
	EventOpenNewRepository
	EventOpenRepositories
	EventRepositoryCreated
	EventSelectRepository
	EventOpenAddACL
	EventOpenEditACL
	EventACLSaved
	EventRequestDelete
	EventDeleteConfirmed
	EventDeleteCancelled
)

// Event is the outcome of rendering a screen. Repository and User carry the selection when the kind needs one.
type Event struct {
	Kind       EventKind
	Repository string
	User       string
}

// State is the current screen and the selection it operates on.
type State struct {
	Screen     Screen
	Repository string
	User       string
}

// InitialState is the state the menu starts in.
func InitialState() State {
	return State{Screen: ScreenMain}
}

// Transition returns the state that follows event on state. Events a screen does not handle leave the state unchanged.
func Transition(state State, event Event) State {
	switch state.Screen {
	case ScreenMain:
		switch event.Kind {
		case EventOpenNewRepository:
			return State{Screen: ScreenNewRepository}
		case EventOpenRepositories:
			return State{Screen: ScreenRepositoryList}
		case EventQuit, EventBack:
			return State{Screen: ScreenQuit}
		}
	case ScreenNewRepository:
		switch event.Kind {
		case EventRepositoryCreated, EventBack, EventFailed:
			return State{Screen: ScreenMain}
		case EventQuit:
			return State{Screen: ScreenQuit}
		}
	case ScreenRepositoryList:
		switch event.Kind {
		case EventSelectRepository:
			return State{Screen: ScreenRepositoryDetail, Repository: event.Repository}
		case EventBack, EventFailed:
			return State{Screen: ScreenMain}
		case EventQuit:
			return State{Screen: ScreenQuit}
		}
	case ScreenRepositoryDetail:
		switch event.Kind {
		case EventOpenAddACL:
			return State{Screen: ScreenAddACL, Repository: state.Repository}
		case EventOpenEditACL:
			return State{Screen: ScreenEditACL, Repository: state.Repository, User: event.User}
		case EventRequestDelete:
			return State{Screen: ScreenConfirmDelete, Repository: state.Repository}
		case EventBack, EventFailed:
			return State{Screen: ScreenRepositoryList}
		case EventQuit:
			return State{Screen: ScreenQuit}
		}
	case ScreenAddACL, ScreenEditACL:
		switch event.Kind {
		case EventACLSaved, EventBack, EventFailed:
			return State{Screen: ScreenRepositoryDetail, Repository: state.Repository}
		case EventQuit:
			return State{Screen: ScreenQuit}
		}
	case ScreenConfirmDelete:
		switch event.Kind {
		case EventDeleteConfirmed:
			return State{Screen: ScreenRepositoryList}
		case EventDeleteCancelled, EventBack, EventFailed:
			return State{Screen: ScreenRepositoryDetail, Repository: state.Repository}
		case EventQuit:
			return State{Screen: ScreenQuit}
		}
	}
	return state
}
