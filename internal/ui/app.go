package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"CurveBoard/internal/state"
)

type AppOptions struct {
	Title     string
	Width     float32
	Height    float32
	ShareLink string
}

func statusText(e *state.Editor, shareLink string) string {
	text := fmt.Sprintf("%d/%d points", e.Len(), e.Options().Capacity)
	if shareLink != "" {
		text += " | sharing at " + shareLink
	}
	return text
}

// RunApp opens the editor window and blocks until it is closed or escape is
// pressed.
func RunApp(editor *state.Editor, board *BoardWidget, opts AppOptions) {
	myApp := app.New()
	myWindow := myApp.NewWindow(opts.Title)
	myWindow.Resize(fyne.NewSize(opts.Width, opts.Height))

	status := widget.NewLabel(statusText(editor, opts.ShareLink))
	redraw := editor.OnChange
	editor.OnChange = func() {
		if redraw != nil {
			redraw()
		}
		status.SetText(statusText(editor, opts.ShareLink))
	}
	editor.OnQuit = myApp.Quit

	c := myWindow.Canvas()
	c.SetOnTypedRune(editor.Key)
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			editor.Key(state.KeyEscape)
		}
	})

	toolbar := NewToolbar(board, editor)
	myWindow.SetContent(container.NewBorder(toolbar, status, nil, nil, board))
	myWindow.ShowAndRun()
}

// RunViewer opens a read-only window showing the scenes delivered by feed,
// which runs until its context is cancelled when the window closes.
func RunViewer(board *BoardWidget, opts AppOptions, feed func(ctx context.Context, show func(state.Scene)) error) {
	myApp := app.New()
	myWindow := myApp.NewWindow(opts.Title + " (viewer)")
	myWindow.Resize(fyne.NewSize(opts.Width, opts.Height))

	status := widget.NewLabel("Connecting to " + opts.ShareLink)
	myWindow.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			myApp.Quit()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		first := true
		err := feed(ctx, func(s state.Scene) {
			fyne.Do(func() {
				if first {
					status.SetText("Watching " + opts.ShareLink)
					first = false
				}
				board.SetScene(s)
			})
		})
		if ctx.Err() != nil {
			return
		}
		text := "Host closed the board"
		if err != nil {
			text = fmt.Sprintf("Disconnected: %v", err)
		}
		fyne.Do(func() { status.SetText(text) })
	}()

	myWindow.SetContent(container.NewBorder(nil, status, nil, nil, board))
	myWindow.ShowAndRun()
}
