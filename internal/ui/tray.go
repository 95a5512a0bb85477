package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/lumina/iris-studio/internal/generate"
	"github.com/lumina/iris-studio/internal/project"
)

type Tray struct {
	project *project.Store
	runner  *generate.Runner
	logger  *slog.Logger

	stateItem *systray.MenuItem
	clipsItem *systray.MenuItem
	pauseItem *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Project *project.Store
	Runner  *generate.Runner
	Logger  *slog.Logger
	OnQuit  func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		project: cfg.Project,
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		onQuit:  cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Lumina")
	systray.SetTooltip("Lumina Iris Studio")

	t.stateItem = systray.AddMenuItem("Playback: Paused", "Current playback state")
	t.stateItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Clips on the timeline")
	t.clipsItem.Disable()

	systray.AddSeparator()

	playItem := systray.AddMenuItem("Play / Pause", "Toggle playback")
	t.pauseItem = systray.AddMenuItem("Pause Generation", "Pause the generation queue")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Lumina Iris Studio")

	t.project.OnChange(func(snap project.Snapshot) {
		t.UpdateFrom(snap)
	})
	t.UpdateFrom(t.project.Snapshot())

	go func() {
		for {
			select {
			case <-playItem.ClickedCh:
				t.togglePlayback()
			case <-t.pauseItem.ClickedCh:
				t.toggleGeneration()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePlayback() {
	snap := t.project.Snapshot()
	t.project.SetPlaying(!snap.IsPlaying)
}

func (t *Tray) toggleGeneration() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause Generation")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume Generation")
	}
}

// UpdateFrom refreshes the menu labels from a project snapshot.
func (t *Tray) UpdateFrom(snap project.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stateItem == nil || t.clipsItem == nil {
		return
	}

	state := "Paused"
	if snap.IsPlaying {
		state = "Playing"
	}
	t.stateItem.SetTitle("Playback: " + state)
	t.clipsItem.SetTitle(fmt.Sprintf("Clips: %d", len(snap.Clips)))
}

func (t *Tray) Quit() {
	systray.Quit()
}
