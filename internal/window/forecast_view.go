package window

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/osor/tray-weather/internal/icons"
	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/weather"
)

const (
	hourlyCards = 24
	cardIconDp  = 40
)

// ForecastSource loads the full forecast for a location.
type ForecastSource interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
}

// ForecastView shows the current conditions, the next hours and the next
// days for one location.
type ForecastView struct {
	ctx      context.Context
	source   ForecastSource
	renderer *icons.Renderer
	settings settings.Settings
	now      func() time.Time
	async    func(func())

	title   *widget.Label
	status  *widget.Label
	current *fyne.Container
	hourly  *fyne.Container
	daily   *fyne.Container
	content fyne.CanvasObject
}

func newForecastView(ctx context.Context, s settings.Settings, source ForecastSource, renderer *icons.Renderer) *ForecastView {
	v := &ForecastView{
		ctx:      ctx,
		source:   source,
		renderer: renderer,
		settings: s,
		now:      time.Now,
		async:    func(fn func()) { go fn() },
	}
	v.build()
	return v
}

func (v *ForecastView) build() {
	v.title = widget.NewLabelWithStyle(describeLocation(v.settings.Location), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.status = widget.NewLabel("Loading forecast...")
	v.current = container.NewHBox()
	v.hourly = container.NewHBox()
	v.daily = container.NewHBox()

	v.content = container.NewVBox(
		v.title,
		v.status,
		v.current,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Next hours", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHScroll(v.hourly),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Next days", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHScroll(v.daily),
	)
}

// Content is the view's root object.
func (v *ForecastView) Content() fyne.CanvasObject {
	return v.content
}

// Load fetches the forecast in the background and fills the view.
func (v *ForecastView) Load() {
	v.status.SetText("Loading forecast...")
	v.async(func() {
		forecast, err := v.source.Forecast(v.ctx, v.settings.Location)
		fyne.Do(func() {
			if err != nil {
				v.status.SetText(weather.Message(err))
				return
			}
			v.show(forecast)
		})
	})
}

func (v *ForecastView) show(f *weather.Forecast) {
	v.status.SetText("Updated " + v.now().Format("15:04"))

	v.current.RemoveAll()
	if c := f.Current; c != nil {
		v.current.Add(v.icon(c.IconName()))
		v.current.Add(container.NewVBox(
			widget.NewLabelWithStyle(fmt.Sprintf("%.1f°C", c.Temperature), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(weather.Description(c.WeatherCode)),
			widget.NewLabel(fmt.Sprintf("Wind %.0f km/h  Precipitation %.1f mm", c.WindSpeed, c.Precipitation)),
		))
	}

	v.hourly.RemoveAll()
	now := v.now()
	if f.Location != nil {
		now = now.In(f.Location)
	}
	for _, h := range f.HoursFrom(now, hourlyCards) {
		v.hourly.Add(v.card(
			h.Time.Format("15:04"),
			h.IconName(),
			fmt.Sprintf("%.0f°C", h.Temperature),
			fmt.Sprintf("%.1f mm", h.Precipitation),
		))
	}

	v.daily.RemoveAll()
	for _, d := range f.Daily {
		v.daily.Add(v.card(
			d.Date.Format("Mon 2"),
			weather.IconName(d.WeatherCode, true),
			fmt.Sprintf("%.0f° / %.0f°", d.TemperatureMax, d.TemperatureMin),
			fmt.Sprintf("%.1f mm", d.PrecipitationSum),
		))
	}

	v.current.Refresh()
	v.hourly.Refresh()
	v.daily.Refresh()
}

func (v *ForecastView) card(heading, iconName, primary, secondary string) fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabelWithStyle(heading, fyne.TextAlignCenter, fyne.TextStyle{}),
		container.NewCenter(v.icon(iconName)),
		widget.NewLabelWithStyle(primary, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(secondary, fyne.TextAlignCenter, fyne.TextStyle{}),
	)
}

func (v *ForecastView) icon(name string) fyne.CanvasObject {
	img := canvas.NewImageFromImage(v.renderer.Image(v.settings.IconTheme, name))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(cardIconDp, cardIconDp))
	return img
}
