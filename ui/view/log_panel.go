package view

import (
	"fmt"
	"strings"

	"github.com/soocke/zone-guard-go/domain/remote"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// LogPanel is a read-only list of the backend's alert log.
type LogPanel interface {
	SetLogs(entries []remote.LogEntry)
}

type logPanel struct {
	text *TextWidget
}

func NewLogPanel(parent *FrameWidget, row int) LogPanel {
	t := Text(Height(8), Width(60), State("disabled"))
	Grid(t, In(parent), Row(row), Column(0), Sticky("nswe"), Padx("0.4m"), Pady("0.4m"))
	return &logPanel{text: t}
}

func (v *logPanel) SetLogs(entries []remote.LogEntry) {
	if v == nil || v.text == nil {
		return
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s [%s] %s\n", e.Time, strings.ToUpper(e.Level), e.Message)
	}
	v.text.Configure(State("normal"))
	v.text.Delete("1.0", END)
	v.text.Insert("1.0", b.String())
	v.text.Configure(State("disabled"))
}
