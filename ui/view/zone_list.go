package view

import (
	"fmt"

	"github.com/soocke/zone-guard-go/ui/presenter"
	"github.com/soocke/zone-guard-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ZoneList renders one row per zone with a type switch and a delete button.
type ZoneList interface {
	SetZoneRows(rows []presenter.ZoneRow)
}

type zoneList struct {
	frame    *FrameWidget
	widgets  []*Window // row widgets, destroyed on every rebuild
	onToggle func(id int64)
	onDelete func(id int64)
}

func NewZoneList(parent *FrameWidget, row int, onToggle, onDelete func(id int64)) ZoneList {
	f := Frame(Borderwidth(1), Relief("groove"))
	Grid(f, In(parent), Row(row), Column(0), Sticky("nwe"), Padx("0.4m"), Pady("0.4m"))
	v := &zoneList{frame: f, onToggle: onToggle, onDelete: onDelete}
	v.SetZoneRows(nil)
	return v
}

func (v *zoneList) SetZoneRows(rows []presenter.ZoneRow) {
	if v == nil || v.frame == nil {
		return
	}
	for _, w := range v.widgets {
		Destroy(w)
	}
	v.widgets = v.widgets[:0]
	if len(rows) == 0 {
		empty := Label(Txt(presenter.EmptyZonesText), Anchor("w"))
		Grid(empty, In(v.frame), Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.2m"))
		v.widgets = append(v.widgets, empty.Window)
		return
	}
	for i, r := range rows {
		id := r.ID
		name := Label(Txt(fmt.Sprintf("%s: %s", r.Name, r.TypeLabel)), Anchor("w"), Width(28))
		Grid(name, In(v.frame), Row(i), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		toggle := TButton(Txt("Switch type"), Command(func() {
			if v.onToggle != nil {
				v.onToggle(id)
			}
		}))
		Grid(toggle, In(v.frame), Row(i), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
		del := TButton(Txt("Delete"), Style(theme.StyleDangerButton), Command(func() {
			if v.onDelete != nil {
				v.onDelete(id)
			}
		}))
		Grid(del, In(v.frame), Row(i), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
		v.widgets = append(v.widgets, name.Window, toggle.Window, del.Window)
	}
}
