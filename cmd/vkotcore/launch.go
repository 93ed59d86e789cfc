package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/creack/pty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vkot/vkotcore/internal/colortable"
	"github.com/vkot/vkotcore/internal/config"
	"github.com/vkot/vkotcore/internal/debugapi"
	"github.com/vkot/vkotcore/internal/debugrec"
	"github.com/vkot/vkotcore/internal/engine"
	"github.com/vkot/vkotcore/internal/screen"
	"github.com/vkot/vkotcore/internal/session"
	"github.com/vkot/vkotcore/internal/vt"
)

// ptyWinsize adapts a *os.File PTY master to engine.PTYSizer via
// pty.Setsize.
type ptyWinsize struct {
	f *os.File
}

func (p ptyWinsize) SetSize(cols, rows int16) error {
	return pty.Setsize(p.f, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// controllingTerminalSize returns the size of the process's own controlling
// terminal, falling back to 80x24 when there is none (e.g. running under a
// non-interactive supervisor). The display server's own Resized message,
// once connected, is the authority the engine actually tracks afterwards.
func controllingTerminalSize() (int16, int16) {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return 80, 24
	}
	return int16(w), int16(h)
}

// newLaunchCmd builds the "launch" subcommand: the thin, out-of-core-scope
// bootstrap that opens a PTY, execs the given command, dials the display
// server socket, and hands both to the engine.
func newLaunchCmd(configPath, controlDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch <command> [args...]",
		Short: "Start a command on a PTY and bridge it to the display server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(*configPath, *controlDir, args[0], args[1:])
		},
	}
	return cmd
}

func runLaunch(configPath, controlDir, command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}

	scr := screen.New()
	w, h := controllingTerminalSize()
	scr.Resize(w, h)

	palette, err := colortable.NewWatched(cfg.PaletteOverridePath, func() {
		cols, rows := scr.Size()
		scr.IncludeDamage(screen.SizeBox(cols, rows))
	})
	if err != nil {
		return fmt.Errorf("launch: loading palette: %w", err)
	}
	defer palette.Close()

	interp := vt.New(scr, palette)

	conn, err := net.Dial("unix", cfg.Socket)
	if err != nil {
		return fmt.Errorf("launch: dialing display server at %s: %w", cfg.Socket, err)
	}
	defer conn.Close()

	mgr, err := session.NewManager(controlDir)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	rec, err := mgr.Create(append([]string{command}, args...), cfg.Socket)
	if err != nil {
		return fmt.Errorf("launch: recording session: %w", err)
	}
	defer func() {
		if err := mgr.MarkExited(rec.ID); err != nil {
			log.Printf("[vkotcore] marking session %s exited: %v", rec.ID, err)
		}
	}()

	recorder := newConfiguredRecorder()
	if recorder != nil {
		defer recorder.Close()
	}

	if cfg.Debug.Listen != "" {
		hub := debugapi.NewHub()
		if recorder != nil {
			recorder.AddSink(hub)
		}
		srv := debugapi.NewServer(cfg.Debug.Listen, rec.ID, hub)
		go func() {
			if err := srv.Serve(); err != nil {
				log.Printf("[vkotcore] debug server stopped: %v", err)
			}
		}()
		if cfg.Debug.NgrokAuthtoken != "" {
			go srv.ServeTunneled(context.Background(), cfg.Debug.NgrokAuthtoken)
		}
		log.Printf("[vkotcore] debug server listening on %s", srv.Addr())
	}

	c := exec.Command(command, args...)
	c.Env = append(os.Environ(), "TERM=st-256color")

	ptmx, err := pty.Start(c)
	if err != nil {
		return fmt.Errorf("launch: starting %s on a pty: %w", command, err)
	}
	defer ptmx.Close()

	sizer := ptyWinsize{f: ptmx}
	if err := sizer.SetSize(w, h); err != nil {
		log.Printf("[vkotcore] initial pty resize failed: %v", err)
	}

	eng := engine.New(scr, interp, ptmx, sizer, conn, recorder)

	ch := make(chan engine.Msg, 64)
	go engine.PTYReader(ptmx, ch)
	go engine.ServerReader(conn, ch)

	eng.Run(ch)

	_ = c.Process.Signal(syscall.SIGTERM)
	_, _ = c.Process.Wait()
	return nil
}

// newConfiguredRecorder builds a debug recorder when VKOT_SYNC_DEBUG is
// set, returning nil otherwise. A nil *debugrec.Recorder is valid and every
// method on it is a no-op.
func newConfiguredRecorder() *debugrec.Recorder {
	ms, ok := os.LookupEnv("VKOT_SYNC_DEBUG")
	if !ok {
		return nil
	}
	sleepMS, err := strconv.Atoi(ms)
	if err != nil {
		sleepMS = 0
	}
	recorder, err := debugrec.New(sleepMS)
	if err != nil {
		log.Printf("[vkotcore] debug recorder disabled: %v", err)
		return nil
	}
	return recorder
}
