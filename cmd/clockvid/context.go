package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/goldsheep3/clockvid"
	"github.com/goldsheep3/clockvid/internal/config"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/metrics"
	"github.com/goldsheep3/clockvid/internal/reporter"
	"github.com/goldsheep3/clockvid/internal/util"
)

type globalFlags struct {
	configPath  string
	verbose     bool
	json        bool
	logDir      string
	noLog       bool
	tempDir     string
	metricsFile string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the config file once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if c.flags.tempDir != "" {
			if cfg.TempDir, err = config.ExpandPath(c.flags.tempDir); err != nil {
				c.configErr = err
				return
			}
		}
		if c.flags.logDir != "" {
			if cfg.LogDir, err = config.ExpandPath(c.flags.logDir); err != nil {
				c.configErr = err
				return
			}
		}
		if c.flags.verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session is the per-command state: run log, reporters, metrics and the
// library facade built from them.
type session struct {
	overlay     *clockvid.Overlay
	logger      *logging.Logger
	runLog      *logging.RunLog
	metrics     *metrics.Metrics
	metricsFile string
}

func (c *commandContext) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	runLog, err := logging.Setup(cfg.LogDir, cfg.LogLevel == "debug", c.flags.noLog)
	if err != nil {
		return nil, err
	}
	logger := runLog.Logger()
	logging.SetGlobal(logger)
	if path := runLog.FilePath(); path != "" {
		logger.Info("run started", "version", appVersion, "command", cmd.CommandPath(), "log", path)
	}

	s := &session{
		logger:      logger,
		runLog:      runLog,
		metricsFile: c.flags.metricsFile,
	}
	if s.metricsFile != "" {
		s.metrics = metrics.New()
	}

	if removed, err := util.CleanupStaleTempFiles(cfg.GetTempDir(), util.TempPrefix, cfg.StaleTempMaxAge()); err != nil {
		logger.Warn("stale temp cleanup failed", "dir", cfg.GetTempDir(), "error", err)
	} else if removed > 0 {
		logger.Info("removed stale temp files", "dir", cfg.GetTempDir(), "count", removed)
	}

	rep := reporter.NewCompositeReporter(c.userReporter(cmd), reporter.NewLogReporter(logger))
	util.CheckDiskSpace(cfg.GetTempDir(), func(format string, args ...any) {
		rep.Warning(fmt.Sprintf(format, args...))
	})

	s.overlay, err = clockvid.New(
		clockvid.WithConfig(cfg),
		clockvid.WithReporter(rep),
		clockvid.WithLogger(logger),
		clockvid.WithMetrics(s.metrics),
	)
	if err != nil {
		_ = runLog.Close()
		return nil, err
	}
	return s, nil
}

// userReporter picks the console reporter for the command's writers.
func (c *commandContext) userReporter(cmd *cobra.Command) reporter.Reporter {
	if c.flags.json {
		return reporter.NewJSONReporterWithWriter(cmd.OutOrStdout())
	}
	return reporter.NewTerminalReporterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), isInteractive(cmd.ErrOrStderr()))
}

// Close flushes metrics and closes the run log.
func (s *session) Close() error {
	var firstErr error
	if s.metricsFile != "" {
		if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
			s.logger.Error("failed to write metrics", "path", s.metricsFile, "error", err)
			firstErr = err
		}
	}
	if err := s.runLog.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
