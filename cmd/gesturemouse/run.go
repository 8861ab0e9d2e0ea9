package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/gesturemouse/internal/app"
	"github.com/ayusman/gesturemouse/internal/capture"
	"github.com/ayusman/gesturemouse/internal/config"
	"github.com/ayusman/gesturemouse/internal/control"
	"github.com/ayusman/gesturemouse/internal/detector"
	"github.com/ayusman/gesturemouse/internal/journal"
	"github.com/ayusman/gesturemouse/internal/render"
	"github.com/ayusman/gesturemouse/internal/server"
	"github.com/ayusman/gesturemouse/internal/tray"
)

// trayPollInterval is how often the tray menu picks up the current gesture.
const trayPollInterval = 250 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start gesture control (default)",
	RunE:  runController,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntP("camera", "c", 0, "camera device index")
	f.Int("width", capture.DefaultWidth, "capture width in pixels")
	f.Int("height", capture.DefaultHeight, "capture height in pixels")
	f.Bool("no-mirror", false, "do not flip the camera image horizontally")
	f.Bool("headless", false, "run without a preview window")
	f.Bool("tray", false, "show a system tray menu (implies --headless)")
	f.String("http", "", "status server address, e.g. 127.0.0.1:8765 (empty disables)")
}

// applyRunFlags copies explicitly set run flags over the environment config.
func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("camera") {
		c.Camera, _ = f.GetInt("camera")
	}
	if f.Changed("width") {
		c.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		c.Height, _ = f.GetInt("height")
	}
	if f.Changed("no-mirror") {
		noMirror, _ := f.GetBool("no-mirror")
		c.Mirror = !noMirror
	}
	if f.Changed("headless") {
		c.Headless, _ = f.GetBool("headless")
	}
	if f.Changed("tray") {
		c.Tray, _ = f.GetBool("tray")
	}
	if f.Changed("http") {
		c.HTTPAddr, _ = f.GetString("http")
	}
}

func runController(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, err := buildController(logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer ctrl.close()

	if ctrl.server != nil {
		go func() {
			if err := ctrl.server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
				logger.Error("status server stopped", zap.Error(err))
			}
		}()
	}

	if !cfg.Tray {
		err = ctrl.session.Run(ctx)
	} else {
		err = runWithTray(ctx, ctrl, logger)
	}

	if err != nil {
		logger.Error("gesture mouse stopped", zap.Error(err))
	}
	return err
}

// controller is everything one run wires together.
type controller struct {
	session *app.Session
	journal *journal.Journal
	server  *server.Server
}

func (c *controller) close() {
	if c.journal != nil {
		c.journal.Close()
	}
}

func buildController(logger *zap.Logger) (*controller, error) {
	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig(), logger.Named("mediapipe"))
	if err != nil {
		if errors.Is(err, detector.ErrScriptNotFound) {
			return nil, fmt.Errorf("%w: install scripts/mediapipe_service.py next to the binary or under ~/.gesturemouse/scripts", err)
		}
		return nil, err
	}

	cam := capture.NewCamera(capture.Options{
		DeviceID: cfg.Camera,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Mirror:   cfg.Mirror,
	})

	var renderer render.Renderer
	if cfg.Headless || cfg.Tray {
		// The tray owns the main thread, so no highgui window alongside it.
		renderer = render.NewHeadless(cfg.HTTPAddr != "")
	} else {
		renderer = render.NewWindow("Gesture Control")
	}

	c := &controller{}
	appCfg := app.Config{
		Camera:      cam,
		Detector:    det,
		Actuator:    control.NewRobotgoActuator(logger.Named("input")),
		Renderer:    renderer,
		FrameWidth:  cfg.Width,
		FrameHeight: cfg.Height,
		Preview:     cfg.HTTPAddr != "",
		Logger:      logger,
	}

	if cfg.Journal != "" {
		j, err := openOrCreateJournal(cfg.Journal)
		if err != nil {
			logger.Warn("journal disabled", zap.String("path", cfg.Journal), zap.Error(err))
		} else {
			c.journal = j
			appCfg.Journal = j
		}
	}

	var hub *server.EventHub
	if cfg.HTTPAddr != "" {
		hub = server.NewEventHub(logger)
		appCfg.Publisher = hub
	}

	session, err := app.New(appCfg)
	if err != nil {
		c.close()
		return nil, err
	}
	c.session = session

	if hub != nil {
		c.server = server.New(server.Config{
			Session: session,
			Journal: c.journal,
			Events:  hub,
			Logger:  logger,
		})
	}

	return c, nil
}

// runWithTray runs the tray on the calling goroutine and the frame loop in
// the background. Quitting from the tray cancels the loop; the loop ending
// for any reason closes the tray.
func runWithTray(ctx context.Context, ctrl *controller, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New()
	t.OnToggle(func(active bool) { ctrl.session.SetPaused(!active) })
	t.OnQuit(cancel)
	if cfg.HTTPAddr != "" {
		url := statusURL(cfg.HTTPAddr)
		t.OnOpenStatus(func() {
			if err := openBrowser(url); err != nil {
				logger.Warn("failed to open status page", zap.String("url", url), zap.Error(err))
			}
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- ctrl.session.Run(ctx)
		t.Quit()
	}()

	go func() {
		ticker := time.NewTicker(trayPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetMode(ctrl.session.Status().Mode.String())
			}
		}
	}()

	t.Run()
	cancel()
	return <-done
}

func openOrCreateJournal(path string) (*journal.Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	return journal.Open(path)
}

func statusURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/api/status"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/status"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
