package window

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/weather"
)

// LocationSearcher looks up places by name.
type LocationSearcher interface {
	SearchLocation(ctx context.Context, name, language string) ([]weather.Location, error)
}

// SettingsForm edits one Settings value. onDone receives the validated
// result, or nil when the user cancels; it is called at most once. All
// methods run on the UI goroutine.
type SettingsForm struct {
	ctx      context.Context
	searcher LocationSearcher
	language string
	onDone   func(*settings.Settings)
	// async runs searches off the UI goroutine.
	async func(func())

	current    settings.Settings
	candidates []weather.Location
	selected   weather.Location

	query    *widget.Entry
	search   *widget.Button
	results  *widget.Select
	picked   *widget.Label
	interval *widget.Entry
	theme    *widget.Select
	autorun  *widget.Check
	status   *widget.Label
	save     *widget.Button
	cancel   *widget.Button
	content  fyne.CanvasObject

	done bool
}

func newSettingsForm(ctx context.Context, current settings.Settings, searcher LocationSearcher, onDone func(*settings.Settings)) *SettingsForm {
	f := &SettingsForm{
		ctx:      ctx,
		searcher: searcher,
		language: "en",
		onDone:   onDone,
		async:    func(fn func()) { go fn() },
		current:  current,
		selected: current.Location,
	}
	f.build()
	return f
}

func (f *SettingsForm) build() {
	f.query = widget.NewEntry()
	f.query.SetPlaceHolder("City or place name")
	f.query.OnSubmitted = func(string) { f.Search() }
	f.search = widget.NewButtonWithIcon("Search", theme.SearchIcon(), f.Search)

	f.results = widget.NewSelect(nil, f.onResultSelected)
	f.results.PlaceHolder = "Search for a location first"
	f.results.Disable()

	f.picked = widget.NewLabel(describeLocation(f.current.Location))
	f.picked.Wrapping = fyne.TextWrapWord

	f.interval = widget.NewEntry()
	f.interval.SetText(strconv.Itoa(f.current.UpdateInterval))

	themeNames := make([]string, 0, len(icons.Themes()))
	for _, t := range icons.Themes() {
		themeNames = append(themeNames, t.String())
	}
	f.theme = widget.NewSelect(themeNames, nil)
	selectedTheme := f.current.IconTheme
	if !selectedTheme.Valid() {
		selectedTheme = icons.DefaultTheme
	}
	f.theme.SetSelected(selectedTheme.String())

	f.autorun = widget.NewCheck("Start with the system", nil)
	f.autorun.SetChecked(f.current.AutorunEnabled)

	f.status = widget.NewLabel("")
	f.status.Wrapping = fyne.TextWrapWord

	f.save = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), f.Save)
	f.save.Importance = widget.HighImportance
	f.cancel = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), f.Cancel)

	form := widget.NewForm(
		widget.NewFormItem("Search", container.NewBorder(nil, nil, nil, f.search, f.query)),
		widget.NewFormItem("Results", f.results),
		widget.NewFormItem("Location", f.picked),
		widget.NewFormItem("Update every (min)", f.interval),
		widget.NewFormItem("Icon theme", f.theme),
		widget.NewFormItem("", f.autorun),
	)
	buttons := container.NewHBox(f.status, layout.NewSpacer(), f.cancel, f.save)
	f.content = container.NewBorder(nil, buttons, nil, nil, form)
}

// Content is the form's root object.
func (f *SettingsForm) Content() fyne.CanvasObject {
	return f.content
}

// Search looks up the query text and fills the results list.
func (f *SettingsForm) Search() {
	name := strings.TrimSpace(f.query.Text)
	if name == "" {
		f.status.SetText("Enter a place name to search.")
		return
	}
	f.status.SetText("Searching...")
	f.search.Disable()

	f.async(func() {
		found, err := f.searcher.SearchLocation(f.ctx, name, f.language)
		fyne.Do(func() {
			f.search.Enable()
			if err != nil {
				f.status.SetText(weather.Message(err))
				return
			}
			f.showResults(found)
		})
	})
}

func (f *SettingsForm) showResults(found []weather.Location) {
	f.candidates = found
	options := make([]string, 0, len(found))
	for _, loc := range found {
		options = append(options, describeLocation(loc))
	}
	f.results.Options = options
	f.results.Refresh()
	f.results.ClearSelected()
	if len(found) == 0 {
		f.results.Disable()
		f.status.SetText("No places found.")
		return
	}
	f.results.Enable()
	f.status.SetText(fmt.Sprintf("%d places found.", len(found)))
	f.results.SetSelectedIndex(0)
}

func (f *SettingsForm) onResultSelected(string) {
	idx := f.results.SelectedIndex()
	if idx < 0 || idx >= len(f.candidates) {
		return
	}
	f.selected = f.candidates[idx]
	f.picked.SetText(describeLocation(f.selected))
}

// Save validates the form and reports the result. Invalid input is shown
// on the form and nothing is reported.
func (f *SettingsForm) Save() {
	minutes, err := strconv.Atoi(strings.TrimSpace(f.interval.Text))
	if err != nil {
		f.status.SetText("Update interval must be a whole number of minutes.")
		return
	}
	th, err := icons.ParseTheme(f.theme.Selected)
	if err != nil {
		f.status.SetText("Pick an icon theme.")
		return
	}
	result, err := settings.New(f.selected, th, f.autorun.Checked, minutes)
	if err != nil {
		f.status.SetText(validationMessage(err))
		return
	}
	f.finishWith(&result)
}

// Cancel reports that the user discarded the form.
func (f *SettingsForm) Cancel() {
	f.finishWith(nil)
}

// finishWith may be re-entered from onDone, for example when it closes the
// window and the close handler cancels.
func (f *SettingsForm) finishWith(result *settings.Settings) {
	if f.done {
		return
	}
	f.done = true
	f.onDone(result)
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Settings are incomplete."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func describeLocation(loc weather.Location) string {
	if loc.IsZero() {
		return "No location selected"
	}
	text := loc.HumanReadable()
	if loc.Timezone != "" {
		text += " (" + loc.Timezone + ")"
	}
	return text
}
