package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel holds the detection form, the expansion margin and the
// display switches. Detection and expansion apply on the button; display
// switches apply immediately.
type SettingsPanel interface {
	ShowDetection(d settings.Detection)
	ShowDisplay(d settings.Display)
	ShowExpand(p settings.ExpandPercent)
}

// SettingsHandlers receive parsed form values.
type SettingsHandlers struct {
	OnDetection func(settings.Detection)
	OnExpand    func(settings.ExpandPercent)
	OnDisplay   func(settings.Display)
}

type settingsPanel struct {
	h        SettingsHandlers
	widgets  map[string]*TextWidget // keyed by field id
	applyBtn *TButtonWidget

	detection  settings.Detection
	display    settings.Display
	displayBtn map[string]*TButtonWidget
}

// NewSettingsPanel builds the form inside parent starting at startRow.
func NewSettingsPanel(parent *FrameWidget, startRow int, h SettingsHandlers) SettingsPanel {
	v := &settingsPanel{
		h:          h,
		widgets:    make(map[string]*TextWidget),
		display:    settings.DefaultDisplay(),
		displayBtn: make(map[string]*TButtonWidget),
	}
	v.build(parent, startRow)
	v.ShowDetection(settings.DefaultDetection())
	v.ShowExpand(0)
	return v
}

func (v *settingsPanel) build(parent *FrameWidget, startRow int) {
	row := startRow
	makeRow := func(id, label string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(10))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		v.widgets[id] = w
		row++
	}
	makeRow("conf", "Confidence (0-1)")
	makeRow("heightLimit", "Height limit")
	makeRow("elbowAngle", "Elbow angle (deg)")
	makeRow("reach", "Reach alert (true/false)")
	makeRow("fall", "Fall alert (true/false)")
	makeRow("expand", "Zone margin (%)")
	v.applyBtn = TButton(Txt("Apply Settings"), Style(theme.StylePrimaryButton), Command(v.apply))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++

	toggles := Frame()
	Grid(toggles, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	for i, id := range []string{"objects", "zones", "onlyAlert"} {
		id := id
		b := TButton(Txt(displayLabel(id)), Command(func() { v.toggleDisplay(id) }))
		Grid(b, In(toggles), Row(0), Column(i), Sticky("we"), Padx("0.2m"))
		v.displayBtn[id] = b
	}
}

func displayLabel(id string) string {
	switch id {
	case "objects":
		return "Draw objects"
	case "zones":
		return "Draw zones"
	default:
		return "Only alerts"
	}
}

func (v *settingsPanel) setText(id, value string) {
	w := v.widgets[id]
	if w == nil {
		return
	}
	w.Delete("1.0", END)
	w.Insert("1.0", value)
}

func (v *settingsPanel) text(id string) string {
	w := v.widgets[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *settingsPanel) ShowDetection(d settings.Detection) {
	if v == nil {
		return
	}
	v.detection = d
	v.setText("conf", fmt.Sprintf("%.2f", d.Conf))
	v.setText("heightLimit", strconv.Itoa(d.HeightLimit))
	v.setText("elbowAngle", strconv.Itoa(d.ElbowAngle))
	v.setText("reach", strconv.FormatBool(d.ReachEnabled))
	v.setText("fall", strconv.FormatBool(d.FallEnabled))
}

func (v *settingsPanel) ShowExpand(p settings.ExpandPercent) {
	if v == nil {
		return
	}
	v.setText("expand", strconv.Itoa(int(p)))
}

func (v *settingsPanel) ShowDisplay(d settings.Display) {
	if v == nil {
		return
	}
	v.display = d
	state := map[string]bool{"objects": d.DrawObjects, "zones": d.DrawZones, "onlyAlert": d.ShowOnlyAlert}
	for id, b := range v.displayBtn {
		style := "TButton"
		if state[id] {
			style = theme.StyleToggleOn
		}
		b.Configure(Style(style))
	}
}

func (v *settingsPanel) toggleDisplay(id string) {
	d := v.display
	switch id {
	case "objects":
		d.DrawObjects = !d.DrawObjects
	case "zones":
		d.DrawZones = !d.DrawZones
	case "onlyAlert":
		d.ShowOnlyAlert = !d.ShowOnlyAlert
	}
	v.ShowDisplay(d)
	if v.h.OnDisplay != nil {
		v.h.OnDisplay(d)
	}
}

// apply parses the form. Fields that do not parse keep their previous value.
func (v *settingsPanel) apply() {
	d := v.detection
	if f, ok := parseFloatField(v.text("conf")); ok {
		d.Conf = f
	}
	if i, ok := parseIntField(v.text("heightLimit")); ok {
		d.HeightLimit = i
	}
	if i, ok := parseIntField(v.text("elbowAngle")); ok {
		d.ElbowAngle = i
	}
	if b, ok := parseBoolLoose(v.text("reach")); ok {
		d.ReachEnabled = b
	}
	if b, ok := parseBoolLoose(v.text("fall")); ok {
		d.FallEnabled = b
	}
	if v.h.OnDetection != nil {
		v.h.OnDetection(d)
	}
	if i, ok := parseIntField(v.text("expand")); ok && v.h.OnExpand != nil {
		v.h.OnExpand(settings.ExpandPercent(i))
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
