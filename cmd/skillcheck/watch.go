package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 500,
	}
}

// fileEvent represents a file system event with additional metadata
type fileEvent struct {
	Path string
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-validate the skills directory whenever it changes",
	Long: `Continuously monitors the skills directory and re-runs validation whenever
a Markdown document is created or written. Findings are printed after every
run; the process keeps watching regardless of the result.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)
		validateConfig := getValidateConfigFromFlags(cmd)
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Cancellation requested, shutting down...")
			cancel()
		}()

		runWatchMode(ctx, root, config, validateConfig)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.Flags().String("skills-dir", "skills", "Skills directory relative to the repository root")
	watchCmd.Flags().Bool("strict", false, "Treat warnings as errors and reject unknown frontmatter keys")
	watchCmd.Flags().Bool("json", false, "Emit a machine-readable JSON report after every run")
	watchCmd.Flags().StringSlice("skills", nil, "Only validate skills matching these glob patterns")
	watchCmd.Flags().IntP("jobs", "j", 4, "Number of skills validated concurrently")

	rootCmd.AddCommand(watchCmd)
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil && debounceTime >= 0 {
		config.DebounceTime = debounceTime
	}
	return config
}

func runWatchMode(ctx context.Context, root string, config *WatchConfig, validateConfig *ValidateConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	events := make(chan fileEvent)
	debouncedEvents := make(chan fileEvent)
	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s", event.Path))
				logger.G(ctx).WithFields(map[string]interface{}{
					"file":      event.Path,
					"timestamp": event.Time,
				}).Debug("re-validating after change")
				runValidate(ctx, root, validateConfig)
				presenter.Separator()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				// New skill directories need watching too.
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if !strings.HasSuffix(event.Name, ".md") {
					continue
				}
				events <- fileEvent{Path: event.Name, Time: time.Now()}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	skillsRoot := filepath.Join(root, validateConfig.SkillsDir)
	err = filepath.Walk(skillsRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		presenter.Error(err, "Failed to watch skills directory")
		os.Exit(exitFatal)
	}

	presenter.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", skillsRoot))
	runValidate(ctx, root, validateConfig)
	presenter.Separator()

	<-ctx.Done()
}

// debounceFileEvents coalesces bursts of file events, emitting only the last
// event of each burst after the debounce interval passes quietly.
func debounceFileEvents(ctx context.Context, in <-chan fileEvent, out chan<- fileEvent, interval time.Duration) {
	var pending *fileEvent
	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-in:
			if !ok {
				close(out)
				return
			}
			pending = &event
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
		case <-timer.C:
			if pending != nil {
				out <- *pending
				pending = nil
			}
		case <-ctx.Done():
			close(out)
			return
		}
	}
}
