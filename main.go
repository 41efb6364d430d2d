package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"CurveBoard/internal/config"
	"CurveBoard/internal/export"
	boardnet "CurveBoard/internal/net"
	"CurveBoard/internal/state"
	"CurveBoard/internal/ui"
	"CurveBoard/internal/xlog"
)

const discoverTimeout = 3 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	share := flag.Bool("share", false, "share the board read-only on the local network")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] [-share]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "       %s [-config path] %shost:port|%s%s\n",
			os.Args[0], boardnet.LinkScheme, boardnet.LinkScheme, boardnet.AutoHost)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *share {
		cfg.Share.Enabled = true
	}

	logger, err := xlog.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	style, err := ui.StyleFromConfig(cfg.Render)
	if err != nil {
		logger.Fatal("bad render config", zap.Error(err))
	}

	if args := flag.Args(); len(args) > 0 && boardnet.IsShareLink(args[0]) {
		runViewer(cfg, style, logger, args[0])
		return
	}
	runHost(cfg, style, logger)
}

func appOptions(cfg config.Config, link string) ui.AppOptions {
	return ui.AppOptions{
		Title:     cfg.Window.Title,
		Width:     float32(cfg.Window.Width),
		Height:    float32(cfg.Window.Height),
		ShareLink: link,
	}
}

func runHost(cfg config.Config, style ui.Style, logger *zap.Logger) {
	logger.Info("starting editor",
		zap.Int("capacity", cfg.Editor.Capacity),
		zap.Bool("share", cfg.Share.Enabled))
	editor := state.NewEditor(cfg.EditorOptions(), logger.Named("editor"))
	board := ui.NewBoardWidget(editor, style)
	editor.OnChange = board.Refresh

	editor.OnExport = func(s state.Scene) {
		opts := export.DefaultPDFOptions()
		opts.CurveColor = export.RGB(board.Style().CurveColor)
		if err := export.ExportPDF(cfg.Export.PDFPath, s, opts); err != nil {
			logger.Error("export failed", zap.Error(err))
			return
		}
		logger.Info("exported scene",
			zap.String("path", cfg.Export.PDFPath),
			zap.Int("points", len(s.Points)))
	}

	var link string
	if cfg.Share.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shareLog := logger.Named("share")
		hub := boardnet.NewHub(shareLog)
		go func() {
			if err := hub.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Share.Port)); err != nil {
				shareLog.Error("share server stopped", zap.Error(err))
			}
		}()

		if cfg.Share.Advertise {
			server, err := boardnet.Advertise(cfg.Share.Port, hub.Session())
			if err != nil {
				shareLog.Warn("mDNS advertising disabled", zap.Error(err))
			} else {
				defer server.Shutdown()
			}
		}

		publish := func() {
			if err := hub.Publish(editor.Scene()); err != nil {
				shareLog.Error("publish failed", zap.Error(err))
			}
		}
		redraw := editor.OnChange
		editor.OnChange = func() {
			redraw()
			publish()
		}
		publish()

		link = boardnet.ShareLink(boardnet.OutgoingIP(shareLog), cfg.Share.Port)
		shareLog.Info("share link", zap.String("link", link))
	}

	ui.RunApp(editor, board, appOptions(cfg, link))
}

func runViewer(cfg config.Config, style ui.Style, logger *zap.Logger, link string) {
	addr, err := boardnet.ParseShareLink(link)
	if err != nil {
		logger.Fatal("bad share link", zap.String("link", link), zap.Error(err))
	}
	if addr == boardnet.AutoHost {
		logger.Info("looking for a host", zap.Duration("timeout", discoverTimeout))
		addr, err = boardnet.Discover(discoverTimeout)
		if err != nil {
			logger.Fatal("discovery failed", zap.Error(err))
		}
		link = boardnet.LinkScheme + addr
	}

	logger.Info("starting viewer", zap.String("addr", addr))
	board := ui.NewViewerWidget(style)
	url := boardnet.SceneURL(addr)
	ui.RunViewer(board, appOptions(cfg, link), func(ctx context.Context, show func(state.Scene)) error {
		return boardnet.Watch(ctx, url, logger.Named("viewer"), func(m boardnet.Message) {
			show(m.Scene)
		})
	})
}
