//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/10Vaibhav/CollabDraw/internal/canvas"
	"github.com/10Vaibhav/CollabDraw/internal/protocol"
	"github.com/10Vaibhav/CollabDraw/internal/shape"
)

// The browser owns the websocket; outbound messages go through a JS
// callback registered with setSendCallback.
type jsConn struct {
	callback js.Value
}

func (c *jsConn) Send(msg *protocol.Message) error {
	if c.callback.IsUndefined() {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.callback.Invoke(string(data))
	return nil
}

var (
	conn   = &jsConn{callback: js.Undefined()}
	editor *canvas.Editor
)

func main() {
	store := canvas.NewStore()
	sync := canvas.NewSync(conn, "", store)
	editor = canvas.NewEditor(context.Background(), store, sync, canvas.NopRenderer{}, nil, 0)

	api := js.Global().Get("Object").New()

	// Commands (frontend -> editor)
	api.Set("setSendCallback", js.FuncOf(setSendCallback))
	api.Set("setRoom", js.FuncOf(setRoom))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("loadShapes", js.FuncOf(loadShapes))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("handleMessage", js.FuncOf(handleMessage))

	// Queries (frontend <- editor)
	api.Set("getFrame", js.FuncOf(getFrame))

	js.Global().Set("collabDraw", api)

	select {}
}

func setSendCallback(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("setSendCallback requires a function")
	}
	conn.callback = args[0]
	return okResult()
}

func setRoom(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("setRoom requires a room id")
	}
	editor.Sync().SetRoom(args[0].String())
	editor.Sync().JoinRoom()
	return okResult()
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("setTool requires a tool name")
	}
	editor.SetTool(canvas.Tool(args[0].String()))
	return okResult()
}

func loadShapes(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("loadShapes requires a JSON array")
	}
	var shapes []shape.Shape
	if err := json.Unmarshal([]byte(args[0].String()), &shapes); err != nil {
		return errResult("parse shapes: " + err.Error())
	}
	editor.LoadShapes(shapes)
	return okResult()
}

func pointerDown(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errResult("pointerDown requires x, y")
	}
	editor.PointerDown(args[0].Float(), args[1].Float())
	return okResult()
}

func pointerMove(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errResult("pointerMove requires x, y")
	}
	editor.PointerMove(args[0].Float(), args[1].Float())
	return okResult()
}

func pointerUp(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errResult("pointerUp requires x, y")
	}
	editor.PointerUp(args[0].Float(), args[1].Float())
	return okResult()
}

func handleMessage(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("handleMessage requires a JSON message")
	}
	var msg protocol.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return errResult("parse message: " + err.Error())
	}
	editor.HandleMessage(&msg)
	return okResult()
}

func getFrame(this js.Value, args []js.Value) any {
	selection := -1
	if idx, ok := editor.SelectionIndex(); ok {
		selection = idx
	}

	frame := struct {
		Shapes      []shape.Shape      `json:"shapes"`
		Selection   int                `json:"selection"`
		Overlay     *shape.Shape       `json:"overlay,omitempty"`
		EraserTrail []shape.Coordinate `json:"eraserTrail,omitempty"`
	}{
		Shapes:      editor.VisibleShapes(),
		Selection:   selection,
		Overlay:     editor.OverlayShape(),
		EraserTrail: editor.EraserTrail(),
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return errResult("marshal frame: " + err.Error())
	}
	return js.ValueOf(string(data))
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func errResult(msg string) any {
	return js.ValueOf(map[string]any{"ok": false, "error": msg})
}
