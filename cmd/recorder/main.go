package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hearmony/backend/internal/client/predict"
	"github.com/hearmony/backend/internal/config"
	"github.com/hearmony/backend/internal/logging"
	"github.com/hearmony/backend/internal/recorder"
	"github.com/hearmony/backend/internal/tui"
)

func main() {
	once := flag.Bool("once", false, "触发一次录音并在结果返回后退出")
	server := flag.String("server", "", "预测服务地址，默认使用 RECORDER_SERVER_URL")
	timeout := flag.Duration("timeout", 0, "单次请求超时时间，0 表示使用 RECORDER_TIMEOUT（默认不限制）")
	logPath := flag.String("log", "recorder.log", "终端界面模式下的日志文件")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	if *server != "" {
		cfg.Recorder.ServerURL = *server
	}
	if *timeout > 0 {
		cfg.Recorder.Timeout = *timeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 终端界面占用 stdout，日志写入文件
	var logOut io.Writer = os.Stderr
	if !*once {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法打开日志文件 %s: %v\n", *logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	logger := logging.New(cfg.Log, logOut)
	log.Logger = logger
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file, continuing with system environment variables only")
	}

	client := predict.NewClient(predict.Config{
		BaseURL: cfg.Recorder.ServerURL,
		Timeout: cfg.Recorder.Timeout,
	}, logger)
	logger.Info().Str("url", client.URL()).Dur("timeout", cfg.Recorder.Timeout).Msg("recorder starting")

	if *once {
		os.Exit(runOnce(ctx, client, logger))
	}

	if err := runTUI(ctx, client, logger); err != nil {
		fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, client *predict.Client, logger zerolog.Logger) int {
	ui := recorder.NewConsoleUI(os.Stdout, recorder.LabelRecord)
	out := recorder.New(ui, client, logger).Run(ctx)
	if out.Err != nil {
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, client *predict.Client, logger zerolog.Logger) error {
	var rec *recorder.Handler
	model := tui.NewModel(ctx, func(ctx context.Context) <-chan recorder.Outcome {
		return rec.Trigger(ctx)
	}, client.URL())

	program := tea.NewProgram(model, tea.WithContext(ctx))
	rec = recorder.New(tui.NewProgramUI(program), client, logger)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
