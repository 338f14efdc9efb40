package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"requestdepot/clients"
	"requestdepot/clients/capture"
	"requestdepot/clients/discord"
	"requestdepot/clients/gpio"
	"requestdepot/clients/slack"
	"requestdepot/config"
	"requestdepot/core"
	"requestdepot/core/log"
	"requestdepot/services"
	"requestdepot/services/cursor"
	"requestdepot/usecases"
	"requestdepot/utils"
)

type Options struct {
	Debug int `long:"debug" default:"0" description:"0 disables logging, 1 logs to console, 2 logs to file, 9 logs to file at debug level"`
}

type CmdRunner struct {
	config          *config.AppConfig
	messagingClient clients.MessagingClient
	sessionService  *services.SessionService
	captureClient   *capture.CaptureClient
	lightClient     *gpio.LightClient
	runID           string
	runName         string
}

func NewCmdRunner(cfg *config.AppConfig) (*CmdRunner, error) {
	log.Info("📋 Starting to initialize CmdRunner")

	messagingClient, err := newMessagingClient(cfg)
	if err != nil {
		return nil, err
	}

	captureClient := capture.NewCaptureClient(cfg.CaptureConfig.ToolPath)
	log.Info("📷 Using capture tool %s", captureClient.ToolPath())
	lightClient := gpio.NewLightClient(cfg.LightConfig.Pin, cfg.LightConfig.ActiveLow)

	runID := core.NewID("run")
	runName, err := core.NewRunName()
	if err != nil {
		return nil, err
	}
	log.Info("🆔 Using run ID: %s (%s)", runID, runName)

	log.Info("📋 Completed successfully - initialized CmdRunner for %s", cfg.MessagingProvider)
	return &CmdRunner{
		config:          cfg,
		messagingClient: messagingClient,
		sessionService:  services.NewSessionService(messagingClient, os.Stdout),
		captureClient:   captureClient,
		lightClient:     lightClient,
		runID:           runID,
		runName:         runName,
	}, nil
}

func newMessagingClient(cfg *config.AppConfig) (clients.MessagingClient, error) {
	switch cfg.MessagingProvider {
	case config.ProviderSlack:
		return slack.NewSlackClient(cfg.SlackConfig.BotToken, cfg.SlackConfig.ContactsUserGroupID), nil
	case config.ProviderDiscord:
		client, err := discord.NewDiscordClient(
			cfg.DiscordConfig.BotToken,
			cfg.DiscordConfig.GuildID,
			cfg.DiscordConfig.ContactsRoleID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create discord client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %s", clients.ErrUnknownProvider, cfg.MessagingProvider)
	}
}

// Run bootstraps the session and hands control to the poll loop until a
// fatal error or process termination
func (cr *CmdRunner) Run(ctx context.Context) error {
	state, err := cr.sessionService.Bootstrap(ctx)
	if err != nil {
		return err
	}

	dispatchUseCase := usecases.NewDispatchUseCase(
		state,
		services.NewCommandService(services.DefaultCommandRules),
		cr.captureClient,
		cr.lightClient,
		cr.config.CaptureConfig.DefaultEmail,
	)
	watcherUseCase := usecases.NewWatcherUseCase(
		cr.messagingClient,
		dispatchUseCase,
		services.NewReplyService(cr.messagingClient),
		cursor.NewTracker(state.Anchor),
		cr.config.SleepCycle,
	)

	return watcherUseCase.Run(ctx)
}

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	debugLevel, err := utils.ParseDebugLevel(opts.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	verbose := debugLevel != debugOff

	defer func() {
		if r := recover(); r != nil {
			reportFatal(core.NewFatalError("panic", fmt.Errorf("%v", r)), verbose)
			exitCode = 1
		}
	}()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get home directory: %v\n", err)
		return 1
	}

	logging, err := setupProgramLogging(debugLevel, homeDir, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up program logging: %v\n", err)
		return 1
	}
	defer logging.Close()
	if logging.filePath != "" {
		defer func() {
			fmt.Fprintf(os.Stderr, "\n📝 App execution finished, logs for this session are stored in %s\n", logging.filePath)
		}()
	}

	instanceLock, err := utils.NewInstanceLock("", "requestdepot")
	if err != nil {
		reportFatal(core.NewFatalError("instance lock", err), verbose)
		return 1
	}
	if err := instanceLock.TryLock(); err != nil {
		reportFatal(core.NewFatalError("instance lock", err), verbose)
		return 1
	}
	defer func() {
		if err := instanceLock.Unlock(); err != nil {
			log.Warn("⚠️ Failed to release instance lock: %v", err)
		}
	}()
	log.Info("🔒 Acquired instance lock at %s", instanceLock.Path())

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	cmdRunner, err := NewCmdRunner(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing CmdRunner: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmdRunner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		reportFatal(err, verbose)
		return 1
	}

	log.Info("👋 Run %s (%s) finished", cmdRunner.runID, cmdRunner.runName)
	return 0
}

func reportFatal(err error, verbose bool) {
	log.Error("💥 %v", err)
	fmt.Fprintln(os.Stderr, core.DescribeError(err, verbose))
}
