package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/relaydeck/agent/config"
	"github.com/relaydeck/agent/internal/communicator"
	"github.com/relaydeck/agent/internal/executor"
	"github.com/relaydeck/agent/internal/sysinfo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	Version = "0.1.0"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := initLogger(cfg.LogPath)
	defer logger.Sync()

	// Identity is generated once per run; a restarted agent is a new agent.
	agentID := uuid.New().String()

	logger.Info("starting relaydeck agent",
		zap.String("version", Version),
		zap.String("agent_id", agentID),
		zap.String("coordinator", cfg.CoordinatorURL),
	)

	client := communicator.NewClient(communicator.ClientConfig{
		CoordinatorURL: cfg.CoordinatorURL,
		AgentID:        agentID,
		Logger:         logger,
	})
	exec := executor.NewExecutor(cfg.ExecTimeout)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if !register(cfg, logger, client, quit) {
		return
	}

	logger.Info("heartbeat loop started",
		zap.Duration("interval", cfg.HeartbeatInterval),
	)

	for {
		delay := cfg.HeartbeatInterval
		if err := poll(logger, client, exec); err != nil {
			logger.Warn("heartbeat failed, backing off",
				zap.Duration("backoff", cfg.RetryBackoff),
				zap.Error(err),
			)
			delay = cfg.RetryBackoff
		}

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			logger.Info("agent stopped gracefully")
			return
		case <-time.After(delay):
		}
	}
}

// register announces the agent, retrying transport failures forever. An
// explicit rejection from the coordinator is fatal. Returns false when the
// process should exit.
func register(cfg *config.Config, logger *zap.Logger, client *communicator.Client, quit <-chan os.Signal) bool {
	facts := sysinfo.Collect()

	for {
		resp, err := client.Register(facts)
		if err == nil {
			logger.Info("registered with coordinator",
				zap.String("hostname", resp.Agent.Hostname),
				zap.String("platform", resp.Agent.Platform),
			)
			return true
		}
		if errors.Is(err, communicator.ErrRejected) {
			logger.Error("registration rejected, exiting", zap.Error(err))
			return false
		}

		logger.Warn("registration failed, retrying",
			zap.Duration("backoff", cfg.RetryBackoff),
			zap.Error(err),
		)
		select {
		case <-quit:
			return false
		case <-time.After(cfg.RetryBackoff):
		}
	}
}

// poll sends one heartbeat and executes every command it returns, reporting
// exactly one result per command. Result delivery is best effort: the
// coordinator tolerates retries and treats duplicates as no-ops.
func poll(logger *zap.Logger, client *communicator.Client, exec *executor.Executor) error {
	facts := sysinfo.Collect()

	resp, err := client.Heartbeat(facts.Uptime)
	if err != nil {
		return err
	}

	for _, cmd := range resp.Commands {
		logger.Info("executing command",
			zap.String("command_id", cmd.ID),
		)

		result := exec.Execute(cmd.Command)

		logger.Info("command finished",
			zap.String("command_id", cmd.ID),
			zap.String("status", result.Status),
			zap.Int("exit_code", result.ExitCode),
			zap.Duration("duration", result.Duration),
		)

		if err := client.ReportResult(cmd.ID, result.Status, result.Output); err != nil {
			logger.Warn("failed to report command result",
				zap.String("command_id", cmd.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func initLogger(logPath string) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)

	cores := []zapcore.Core{consoleCore}

	if logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)
			fileCore := zapcore.NewCore(
				jsonEncoder,
				zapcore.AddSync(file),
				zapcore.InfoLevel,
			)
			cores = append(cores, fileCore)
		}
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller())
}
