package setup

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/weather"
)

type fakeSearcher struct {
	queries []string
	results []weather.Location
	err     error
}

func (f *fakeSearcher) SearchLocation(_ context.Context, name, language string) ([]weather.Location, error) {
	f.queries = append(f.queries, name+"/"+language)
	return f.results, f.err
}

type fakeStore struct {
	loaded  settings.Settings
	loadErr error
	saveErr error
	saved   []settings.Settings
}

func (f *fakeStore) Load() (settings.Settings, error) {
	return f.loaded, f.loadErr
}

func (f *fakeStore) Save(s settings.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

var (
	lyon   = weather.Location{ID: 2996944, Name: "Lyon", Admin1: "Auvergne-Rhône-Alpes", Country: "France", Timezone: "Europe/Paris"}
	lyonKS = weather.Location{ID: 4274994, Name: "Lyon", Admin1: "Kansas", Country: "United States", Timezone: "America/Chicago"}
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// drain runs cmd and feeds the messages the model cares about back into it.
func drain(t *testing.T, m Model, cmd tea.Cmd) (Model, bool) {
	t.Helper()
	quit := false
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case searchResultMsg, savedMsg:
			var next tea.Cmd
			m, next = update(t, m, msg)
			var q bool
			m, q = drain(t, m, next)
			quit = quit || q
		case tea.QuitMsg:
			quit = true
		}
	}
	return m, quit
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestSetupSearchPickAndSave(t *testing.T) {
	searcher := &fakeSearcher{results: []weather.Location{lyon, lyonKS}}
	store := &fakeStore{loadErr: settings.ErrNotFound}
	m := New(context.Background(), searcher, store, "fr")

	m.input.SetValue(" Lyon ")
	m, cmd := update(t, m, key("enter"))
	if m.phase != phaseSearching {
		t.Fatalf("phase = %v, want searching", m.phase)
	}
	m, quit := drain(t, m, cmd)
	if quit {
		t.Fatal("quit after search")
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "Lyon/fr" {
		t.Fatalf("queries = %q, want [Lyon/fr]", searcher.queries)
	}
	if m.phase != phaseResults || len(m.results) != 2 {
		t.Fatalf("phase = %v results = %d, want 2 results", m.phase, len(m.results))
	}
	if !strings.Contains(m.View(), "Kansas") {
		t.Fatalf("view does not list results:\n%s", m.View())
	}

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 (clamped)", m.cursor)
	}

	m, cmd = update(t, m, key("enter"))
	m, quit = drain(t, m, cmd)
	if !quit {
		t.Fatal("program did not quit after saving")
	}
	if len(store.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(store.saved))
	}
	want, _ := settings.New(lyonKS, icons.DefaultTheme, false, settings.DefaultUpdateInterval)
	if !store.saved[0].Equal(want) {
		t.Fatalf("saved = %+v, want %+v", store.saved[0], want)
	}
	if m.Saved() == nil || !m.Saved().Equal(want) {
		t.Fatalf("Saved() = %v", m.Saved())
	}
}

func TestSetupKeepsExistingFields(t *testing.T) {
	existing, _ := settings.New(lyon, icons.ThemeMonochrome, true, 60)
	store := &fakeStore{loaded: existing}
	searcher := &fakeSearcher{results: []weather.Location{lyonKS}}
	m := New(context.Background(), searcher, store, "")

	if m.input.Value() != "Lyon" {
		t.Fatalf("input = %q, want current location name", m.input.Value())
	}
	m, cmd := update(t, m, key("enter"))
	m, _ = drain(t, m, cmd)
	m, cmd = update(t, m, key("enter"))
	_, _ = drain(t, m, cmd)

	if len(store.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(store.saved))
	}
	got := store.saved[0]
	if !got.Location.Equal(lyonKS) || got.IconTheme != icons.ThemeMonochrome || !got.AutorunEnabled || got.UpdateInterval != 60 {
		t.Fatalf("saved = %+v, want new location with existing fields", got)
	}
	if searcher.queries[0] != "Lyon/en" {
		t.Fatalf("query = %q, want default language", searcher.queries[0])
	}
}

func TestSetupSearchFailures(t *testing.T) {
	searcher := &fakeSearcher{err: &weather.Error{Kind: weather.KindTransport, Err: errors.New("offline")}}
	m := New(context.Background(), searcher, &fakeStore{loadErr: settings.ErrNotFound}, "en")

	m, cmd := update(t, m, key("enter"))
	if cmd != nil || m.status == "" || len(searcher.queries) != 0 {
		t.Fatalf("empty query: status = %q queries = %v", m.status, searcher.queries)
	}

	m.input.SetValue("Lyon")
	m, cmd = update(t, m, key("enter"))
	m, _ = drain(t, m, cmd)
	if m.phase != phaseInput || m.status != "Weather update failed: service unreachable" {
		t.Fatalf("phase = %v status = %q", m.phase, m.status)
	}

	searcher.err = nil
	m, cmd = update(t, m, key("enter"))
	m, _ = drain(t, m, cmd)
	if m.phase != phaseInput || m.status != "No places found." {
		t.Fatalf("phase = %v status = %q", m.phase, m.status)
	}
}

func TestSetupSaveFailure(t *testing.T) {
	store := &fakeStore{loadErr: settings.ErrNotFound, saveErr: errors.New("read-only file system")}
	m := New(context.Background(), &fakeSearcher{results: []weather.Location{lyon}}, store, "en")

	m.input.SetValue("Lyon")
	m, cmd := update(t, m, key("enter"))
	m, _ = drain(t, m, cmd)
	m, cmd = update(t, m, key("enter"))
	m, quit := drain(t, m, cmd)

	if quit || m.Saved() != nil {
		t.Fatalf("quit = %v saved = %v after failed save", quit, m.Saved())
	}
	if m.phase != phaseResults || !strings.Contains(m.status, "read-only file system") {
		t.Fatalf("phase = %v status = %q", m.phase, m.status)
	}
}

func TestSetupEscape(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{results: []weather.Location{lyon}}, &fakeStore{loadErr: settings.ErrNotFound}, "en")
	m.input.SetValue("Lyon")
	m, cmd := update(t, m, key("enter"))
	m, _ = drain(t, m, cmd)

	m, _ = update(t, m, key("esc"))
	if m.phase != phaseInput || m.results != nil {
		t.Fatalf("esc in results: phase = %v results = %v", m.phase, m.results)
	}
	_, cmd = update(t, m, key("esc"))
	if _, quit := drain(t, m, cmd); !quit {
		t.Fatal("esc in input did not quit")
	}
}
