package app

import (
	"github.com/google/uuid"

	"github.com/osor/tray-weather/internal/settings"
)

// Kind identifies what produced a Message.
type Kind int

const (
	KindTimer Kind = iota
	KindMenu
	KindTrayClicked
	KindSettingsCompleted
)

func (k Kind) String() string {
	switch k {
	case KindTimer:
		return "timer"
	case KindMenu:
		return "menu"
	case KindTrayClicked:
		return "tray_clicked"
	case KindSettingsCompleted:
		return "settings_completed"
	default:
		return "unknown"
	}
}

// MenuAction is the tray menu item behind a KindMenu message.
type MenuAction int

const (
	MenuUpdate MenuAction = iota
	MenuOpenSettings
	MenuQuit
)

func (a MenuAction) String() string {
	switch a {
	case MenuUpdate:
		return "update"
	case MenuOpenSettings:
		return "open_settings"
	case MenuQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Message is one event on the controller's intake.
type Message struct {
	ID     uuid.UUID
	Kind   Kind
	Action MenuAction // KindMenu only
	// Settings is the dialog result for KindSettingsCompleted; nil means the
	// user cancelled.
	Settings *settings.Settings
}

// TimerMessage reports that the refresh interval elapsed.
func TimerMessage() Message {
	return Message{ID: uuid.New(), Kind: KindTimer}
}

// MenuMessage reports a click on a tray menu item.
func MenuMessage(action MenuAction) Message {
	return Message{ID: uuid.New(), Kind: KindMenu, Action: action}
}

// TrayClickedMessage reports a primary-button release on the tray icon.
func TrayClickedMessage() Message {
	return Message{ID: uuid.New(), Kind: KindTrayClicked}
}

// SettingsCompletedMessage carries a settings dialog result. A nil s means
// the dialog was cancelled.
func SettingsCompletedMessage(s *settings.Settings) Message {
	return Message{ID: uuid.New(), Kind: KindSettingsCompleted, Settings: s}
}

func (m Message) String() string {
	if m.Kind == KindMenu {
		return m.Kind.String() + ":" + m.Action.String()
	}
	return m.Kind.String()
}
