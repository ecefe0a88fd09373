package view

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SourcePanel picks the backend's video source and detection model.
type SourcePanel interface {
	SetVideos(videos []string)
	SelectVideo(name string)
	SetModel(name string)
}

// SourceHandlers receive the operator's source actions.
type SourceHandlers struct {
	OnChangeSource  func(source string, kind remote.SourceKind)
	OnUpload        func(path string)
	OnModel         func(name string)
	OnRefreshVideos func()
}

var sourceKinds = []remote.SourceKind{remote.SourceWebcam, remote.SourceURL, remote.SourceFile}

func kindNames() []string {
	out := make([]string, len(sourceKinds))
	for i, k := range sourceKinds {
		out[i] = string(k)
	}
	return out
}

type sourcePanel struct {
	h      SourceHandlers
	logger *slog.Logger

	kindSelect  *TComboboxWidget
	sourceText  *TextWidget
	videoSelect *TComboboxWidget
	videos      []string
	uploadText  *TextWidget
	modelSelect *TComboboxWidget
	models      []string
}

// NewSourcePanel builds the panel inside parent starting at startRow and
// returns the next free row through the second value.
func NewSourcePanel(parent *FrameWidget, startRow int, models []string, h SourceHandlers, logger *slog.Logger) (SourcePanel, int) {
	v := &sourcePanel{h: h, logger: logger, models: append([]string(nil), models...)}
	row := startRow

	v.kindSelect = TCombobox(Values(kindNames()), Width(8))
	Grid(v.kindSelect, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.kindSelect.Current(0)
	v.sourceText = Text(Height(1), Width(24))
	Grid(v.sourceText, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.sourceText.Insert("1.0", "0")
	switchBtn := TButton(Txt("Switch Source"), Style(theme.StylePrimaryButton), Command(v.switchSource))
	Grid(switchBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	v.videoSelect = TCombobox(Values([]string{"<none>"}), Width(24))
	Grid(v.videoSelect, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	Bind(v.videoSelect, "<<ComboboxSelected>>", Command(v.openVideo))
	refreshBtn := TButton(Txt("Refresh"), Command(func() {
		if v.h.OnRefreshVideos != nil {
			v.h.OnRefreshVideos()
		}
	}))
	Grid(refreshBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	v.uploadText = Text(Height(1), Width(24))
	Grid(v.uploadText, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	uploadBtn := TButton(Txt("Upload Video"), Command(v.upload))
	Grid(uploadBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	if len(v.models) == 0 {
		v.models = []string{"<none>"}
	}
	v.modelSelect = TCombobox(Values(v.models), Width(24))
	Grid(v.modelSelect, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.modelSelect.Current(0)
	Bind(v.modelSelect, "<<ComboboxSelected>>", Command(func() {
		if name, ok := v.selected(v.modelSelect, v.models); ok && v.h.OnModel != nil {
			v.h.OnModel(name)
		}
	}))
	row++
	return v, row
}

// selected resolves a combobox's current index against its values.
func (v *sourcePanel) selected(cb *TComboboxWidget, values []string) (string, bool) {
	if cb == nil {
		return "", false
	}
	idxStr := cb.Current(nil)
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(values) {
		if v.logger != nil {
			v.logger.Error("combobox selection parse error", "index", idxStr, "error", err)
		}
		return "", false
	}
	return values[idx], true
}

func textValue(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *sourcePanel) switchSource() {
	kind, ok := v.selected(v.kindSelect, kindNames())
	if !ok || v.h.OnChangeSource == nil {
		return
	}
	v.h.OnChangeSource(textValue(v.sourceText), remote.SourceKind(kind))
}

func (v *sourcePanel) openVideo() {
	name, ok := v.selected(v.videoSelect, v.videos)
	if !ok || v.h.OnChangeSource == nil {
		return
	}
	v.h.OnChangeSource(name, remote.SourceFile)
}

func (v *sourcePanel) upload() {
	if v.h.OnUpload != nil {
		v.h.OnUpload(textValue(v.uploadText))
	}
}

func (v *sourcePanel) SetVideos(videos []string) {
	if v == nil || v.videoSelect == nil {
		return
	}
	v.videos = append(v.videos[:0], videos...)
	values := v.videos
	if len(values) == 0 {
		values = []string{"<none>"}
	}
	v.videoSelect.Configure(Values(values))
}

func (v *sourcePanel) SelectVideo(name string) {
	if v == nil || v.videoSelect == nil {
		return
	}
	for i, n := range v.videos {
		if n == name {
			v.videoSelect.Current(i)
			return
		}
	}
}

func (v *sourcePanel) SetModel(name string) {
	if v == nil || v.modelSelect == nil {
		return
	}
	for i, n := range v.models {
		if n == name {
			v.modelSelect.Current(i)
			return
		}
	}
}
