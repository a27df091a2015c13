package editor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/dispatcher"
	"github.com/conecourse/editor/pkg/core"
)

type conePayload struct {
	ID uint64 `json:"id"`
}

type pointPayload struct {
	LatLng core.LatLng `json:"latlng"`
}

type coneAtPayload struct {
	ID     uint64      `json:"id"`
	LatLng core.LatLng `json:"latlng"`
}

type anglePayload struct {
	ID    uint64  `json:"id"`
	Angle float64 `json:"angle"`
}

type modePayload struct {
	Mode string `json:"mode"`
	Kind string `json:"kind"`
}

type gridPayload struct {
	core.GridSettings
	Origin core.LatLng `json:"origin"`
}

type importPayload struct {
	// Data is a course file, as JSON or base64 encoded gzip.
	Data string `json:"data"`
	// Course is the same file as a JSON object. It goes through the file
	// decoder too, so both forms are checked alike.
	Course json.RawMessage `json:"course"`
}

type exportPayload struct {
	Compress bool `json:"compress"`
}

// ExportResult is returned by the export event.
type ExportResult struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	// Data holds JSON text, or base64 when the export is compressed.
	Data string `json:"data"`
}

// Bind registers a handler for every editor event on d. Handlers run on the
// caller's goroutine, one event at a time.
func (e *Editor) Bind(d *dispatcher.Dispatcher) {
	d.Register("click", func(ev dispatcher.Event) (any, error) {
		var p pointPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		e.Click(p.LatLng)
		return e.Stats(), nil
	}, dispatcher.Logged())

	d.Register("cone_click", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.ConeClick(p.ID)
	}, dispatcher.Logged())

	d.Register("drag_start", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.BeginDrag(p.ID)
	})

	// Drags arrive at pointer rate; they are not logged.
	d.Register("drag", func(ev dispatcher.Event) (any, error) {
		var p coneAtPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.Drag(p.ID, p.LatLng)
	})

	d.Register("drag_end", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.EndDrag(p.ID)
	}, dispatcher.Logged())

	d.Register("move", func(ev dispatcher.Event) (any, error) {
		var p coneAtPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.MoveCone(p.ID, p.LatLng)
	}, dispatcher.Logged())

	d.Register("context_menu", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return e.ContextMenu(p.ID), nil
	})

	d.Register("box_start", func(ev dispatcher.Event) (any, error) {
		var p pointPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		e.BoxStart(p.LatLng)
		return nil, nil
	})

	d.Register("box_end", func(ev dispatcher.Event) (any, error) {
		var p pointPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return e.BoxEnd(p.LatLng), nil
	}, dispatcher.Logged())

	d.Register("select_all", func(ev dispatcher.Event) (any, error) {
		e.SelectAll()
		return len(e.sel.IDs()), nil
	})

	d.Register("deselect_all", func(ev dispatcher.Event) (any, error) {
		e.DeselectAll()
		return nil, nil
	})

	d.Register("rotate_start", func(ev dispatcher.Event) (any, error) {
		return nil, e.StartGroupRotation()
	}, dispatcher.Logged())

	d.Register("rotate_update", func(ev dispatcher.Event) (any, error) {
		var p anglePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.UpdateGroupRotation(p.Angle)
	})

	d.Register("rotate_finish", func(ev dispatcher.Event) (any, error) {
		e.FinishGroupRotation()
		return nil, nil
	}, dispatcher.Logged())

	d.Register("rotate_cancel", func(ev dispatcher.Event) (any, error) {
		e.CancelGroupRotation()
		return nil, nil
	}, dispatcher.Logged())

	d.Register("set_angle", func(ev dispatcher.Event) (any, error) {
		var p anglePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.SetConeAngle(p.ID, p.Angle)
	}, dispatcher.Logged())

	d.Register("reset_angle", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.ResetConeAngle(p.ID)
	}, dispatcher.Logged())

	d.Register("toggle_type", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.ToggleConeType(p.ID)
	}, dispatcher.Logged())

	d.Register("delete", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.DeleteCone(p.ID)
	}, dispatcher.Logged())

	d.Register("delete_selected", func(ev dispatcher.Event) (any, error) {
		return e.DeleteSelected(), nil
	}, dispatcher.Logged())

	d.Register("clear_all", func(ev dispatcher.Event) (any, error) {
		return e.ClearAll(), nil
	}, dispatcher.Logged())

	d.Register("copy", func(ev dispatcher.Event) (any, error) {
		return nil, e.Copy()
	}, dispatcher.Logged())

	d.Register("paste_start", func(ev dispatcher.Event) (any, error) {
		var p pointPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return e.StartPaste(p.LatLng)
	}, dispatcher.Logged())

	d.Register("paste_rotate", func(ev dispatcher.Event) (any, error) {
		var p anglePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return e.UpdatePasteRotation(p.Angle)
	})

	d.Register("paste_confirm", func(ev dispatcher.Event) (any, error) {
		return e.ConfirmPaste(), nil
	}, dispatcher.Logged())

	d.Register("paste_cancel", func(ev dispatcher.Event) (any, error) {
		e.CancelPaste()
		return nil, nil
	}, dispatcher.Logged())

	d.Register("undo", func(ev dispatcher.Event) (any, error) {
		return e.Undo(), nil
	}, dispatcher.Logged())

	d.Register("redo", func(ev dispatcher.Event) (any, error) {
		return e.Redo(), nil
	}, dispatcher.Logged())

	d.Register("grid", func(ev dispatcher.Event) (any, error) {
		var p gridPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		e.SetGrid(p.GridSettings, p.Origin)
		return e.Grid(), nil
	}, dispatcher.Logged())

	d.Register("view", func(ev dispatcher.Event) (any, error) {
		var v View
		if err := ev.Decode(&v); err != nil {
			return nil, err
		}
		e.SetView(v)
		return nil, nil
	})

	d.Register("mode", func(ev dispatcher.Event) (any, error) {
		var p modePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		m, err := ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		if p.Kind != "" {
			kind, err := core.ParseConeKind(p.Kind)
			if err != nil {
				return nil, err
			}
			e.SetConeKind(kind)
		}
		e.SetMode(m)
		return m.String(), nil
	}, dispatcher.Logged())

	d.Register("line_start", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.StartLine(p.ID)
	})

	d.Register("line_end", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return nil, e.EndLine(p.ID)
	}, dispatcher.Logged())

	d.Register("line_remove", func(ev dispatcher.Event) (any, error) {
		var p conePayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		return e.RemoveLine(p.ID), nil
	}, dispatcher.Logged())

	d.Register("measure", func(ev dispatcher.Event) (any, error) {
		var p pointPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		seg, ok := e.MeasureClick(p.LatLng)
		if !ok {
			return nil, nil
		}
		return seg, nil
	})

	d.Register("import", func(ev dispatcher.Event) (any, error) {
		var p importPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		if len(p.Course) > 0 && string(p.Course) != "null" {
			if err := e.ImportBytes(p.Course); err != nil {
				return nil, err
			}
			return e.Stats(), nil
		}
		data, err := importData(p.Data)
		if err != nil {
			return nil, e.warn(err)
		}
		if err := e.ImportBytes(data); err != nil {
			return nil, err
		}
		return e.Stats(), nil
	}, dispatcher.Logged())

	d.Register("export", func(ev dispatcher.Event) (any, error) {
		var p exportPayload
		if err := ev.Decode(&p); err != nil {
			return nil, err
		}
		now := time.Now()
		data, err := courseio.Marshal(e.Export(now), p.Compress)
		if err != nil {
			return nil, err
		}
		out := ExportResult{
			FileName:    courseio.FileName(now, p.Compress),
			ContentType: courseio.ContentType(p.Compress),
			Data:        string(data),
		}
		if p.Compress {
			out.Data = base64.StdEncoding.EncodeToString(data)
		}
		return out, nil
	}, dispatcher.Logged())

	d.Register("stats", func(ev dispatcher.Event) (any, error) {
		return e.Stats(), nil
	})
}

// importData accepts course JSON as is and anything else as base64.
func importData(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", courseio.ErrMalformed)
	}
	if s[0] == '{' {
		return []byte(s), nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", courseio.ErrMalformed, err)
	}
	return data, nil
}
