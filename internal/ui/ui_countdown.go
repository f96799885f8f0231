package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

// countdownView shows the remaining time, then the invitation once the
// target has been reached.
type countdownView struct {
	content *fyne.Container

	title  *canvas.Text
	digits *fyne.Container
	values [4]*canvas.Text

	invitation *fyne.Container
	greeting   *canvas.Text
	gift       *widget.Button
}

func newCountdownView(app *CelebrateApp) *countdownView {
	v := &countdownView{}

	v.title = canvas.NewText(app.GetMsg(config.TKeyCountdownTitle), theme.Color(theme.ColorNameForeground))
	v.title.TextSize = config.HeadingTextSize
	v.title.Alignment = fyne.TextAlignCenter

	unitKeys := [4]string{config.TKeyUnitDays, config.TKeyUnitHours, config.TKeyUnitMinutes, config.TKeyUnitSeconds}
	cells := make([]fyne.CanvasObject, len(unitKeys))
	for i, key := range unitKeys {
		value := canvas.NewText("0", theme.Color(theme.ColorNamePrimary))
		value.TextSize = config.CountdownTextSize
		value.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		value.Alignment = fyne.TextAlignCenter
		v.values[i] = value

		unit := canvas.NewText(app.GetMsg(key), theme.Color(theme.ColorNameForeground))
		unit.TextSize = config.UnitTextSize
		unit.Alignment = fyne.TextAlignCenter

		cells[i] = widget.NewCard("", "", container.NewVBox(value, unit))
	}
	v.digits = container.NewGridWithColumns(len(cells), cells...)

	v.greeting = canvas.NewText(app.GetMsgData(config.TKeyHappyBirthday, map[string]any{"Name": app.Honoree.Name}),
		theme.Color(theme.ColorNamePrimary))
	v.greeting.TextSize = config.HeadingTextSize
	v.greeting.TextStyle = fyne.TextStyle{Bold: true}
	v.greeting.Alignment = fyne.TextAlignCenter

	v.gift = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnGift), theme.ConfirmIcon(), func() {
		app.handleEvent(engine.EventStart)
	})
	v.gift.Importance = widget.HighImportance

	v.invitation = container.NewVBox(v.greeting, container.NewCenter(v.gift))
	v.invitation.Hide()

	v.content = container.NewCenter(container.NewVBox(v.title, v.digits, v.invitation))
	return v
}

// SetRemaining renders rem. Days are unpadded; the other units use two digits.
func (v *countdownView) SetRemaining(rem engine.RemainingDuration) {
	texts := [4]string{
		strconv.Itoa(rem.Days),
		fmt.Sprintf(config.FormatTwoDigits, rem.Hours),
		fmt.Sprintf(config.FormatTwoDigits, rem.Minutes),
		fmt.Sprintf(config.FormatTwoDigits, rem.Seconds),
	}
	for i, t := range texts {
		if v.values[i].Text == t {
			continue
		}
		v.values[i].Text = t
		v.values[i].Refresh()
	}
}

// ShowInvitation replaces the digits with the greeting and the gift button.
func (v *countdownView) ShowInvitation() {
	v.title.Hide()
	v.digits.Hide()
	v.invitation.Show()
	v.content.Refresh()
}
