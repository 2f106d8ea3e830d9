package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Cyclone1070/codr/internal/config"
	"github.com/Cyclone1070/codr/internal/policy"
	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/provider/gemini"
	"github.com/Cyclone1070/codr/internal/provider/openai"
	"github.com/Cyclone1070/codr/internal/session"
	"github.com/Cyclone1070/codr/internal/tool"
	"github.com/Cyclone1070/codr/internal/tool/file"
	"github.com/Cyclone1070/codr/internal/tool/service/fs"
	"github.com/Cyclone1070/codr/internal/ui"
	"github.com/Cyclone1070/codr/internal/workflow"
	"github.com/Cyclone1070/codr/internal/workflow/loop"
	"github.com/Cyclone1070/codr/internal/workflow/toolmanager"
)

// errReported marks an error the terminal has already shown.
var errReported = errors.New("already reported")

// Dependencies holds the process-level inputs of the CLI. Terminal builds
// the agent's terminal; Interrupt scopes ctx to one Ctrl-C.
type Dependencies struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Interactive bool
	LoadConfig  func() (*config.Config, error)
	Terminal    func() *ui.Terminal
	Interrupt   func(ctx context.Context) (context.Context, context.CancelFunc)
}

type options struct {
	workspace   string
	sessionFile string
	baseURL     string
	apiKey      string
	model       string
	backend     string
	verbose     bool
}

type app struct {
	deps   Dependencies
	opts   options
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	deps := Dependencies{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: ui.IsInteractive(),
		LoadConfig:  config.Load,
		Terminal:    ui.Stdio,
		Interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
	if err := newRootCmd(deps).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "codr:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(deps Dependencies) *cobra.Command {
	a := &app{deps: deps, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "codr",
		Short: "A coding agent that edits files in one project directory",
		Long: `codr talks to an OpenAI-compatible or Gemini model and lets it create,
read, replace and append to files inside the workspace.

Run without arguments to start an interactive session.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.workspace, "workspace", "w", ".", "Project root the agent may touch")
	flags.StringVar(&a.opts.sessionFile, "session-file", "", "YAML file to persist the conversation in")
	flags.StringVar(&a.opts.baseURL, "base-url", "", "Model endpoint base URL (or "+config.EnvBaseURL+")")
	flags.StringVar(&a.opts.apiKey, "api-key", "", "Model API key (or "+config.EnvAPIKey+")")
	flags.StringVar(&a.opts.model, "model", "", "Model name (or "+config.EnvModel+")")
	flags.StringVar(&a.opts.backend, "backend", "", "Wire protocol: openai or gemini (or "+config.EnvBackend+")")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "run <instruction>",
			Short: "Run a single instruction and exit",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runOnce(cmd.Context(), strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "tools",
			Short: "Print the tool catalog as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := json.MarshalIndent(tool.Catalog(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.deps.Stdout, string(data))
				return err
			},
		},
	)

	root.SetIn(deps.Stdin)
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup() error {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.opts.baseURL != "" {
		cfg.Provider.BaseURL = a.opts.baseURL
	}
	if a.opts.apiKey != "" {
		cfg.Provider.APIKey = a.opts.apiKey
	}
	if a.opts.model != "" {
		cfg.Provider.Model = a.opts.model
	}
	if a.opts.backend != "" {
		cfg.Provider.Backend = a.opts.backend
	}
	if a.opts.sessionFile != "" {
		cfg.Session.File = a.opts.sessionFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Logging, a.opts.verbose, a.deps.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// buildLogger writes JSON to logging.file when set, console output to
// stderr with verbose, and nothing otherwise.
func buildLogger(cfg config.LoggingConfig, verbose bool, stderr io.Writer) (*zap.Logger, error) {
	if cfg.File != "" {
		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		if verbose {
			level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		zc.Level = level
		return zc.Build()
	}
	if verbose {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(stderr),
			zapcore.DebugLevel,
		)
		return zap.New(core, zap.AddCaller()), nil
	}
	return zap.NewNop(), nil
}

// runtime is one wired agent: session, terminal and the event pump.
// rendered receives once per turn after its DoneEvent is displayed.
type runtime struct {
	session  *session.Session
	term     *ui.Terminal
	events   chan workflow.Event
	done     chan struct{}
	rendered chan struct{}
}

func (r *runtime) pump() {
	defer close(r.done)
	for ev := range r.events {
		r.term.Render(ev)
		if _, ok := ev.(workflow.DoneEvent); ok {
			r.rendered <- struct{}{}
		}
	}
}

// submit runs one turn and waits until its output is on screen.
func (r *runtime) submit(ctx context.Context, input string) error {
	_, err := r.session.Submit(ctx, input)
	if !errors.Is(err, session.ErrSessionClosed) {
		<-r.rendered
	}
	return err
}

// Close stops the event pump after all pending events are rendered.
func (r *runtime) Close() {
	close(r.events)
	<-r.done
}

func (a *app) newRuntime(ctx context.Context) (*runtime, error) {
	cfg := a.cfg
	if err := cfg.ValidateRequired(); err != nil {
		return nil, err
	}

	executor, root, err := file.NewWorkspaceExecutor(a.opts.workspace, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info("workspace ready", zap.String("root", root))

	term := a.deps.Terminal()

	// Without a terminal nobody can answer, so confirmations are denied.
	var prompter policy.Prompter
	if a.deps.Interactive {
		prompter = term
	}
	checker := policy.New(cfg.Policy, prompter, a.logger)
	tools := toolmanager.NewToolManager(executor, checker, cfg, a.logger)

	backend, err := newBackend(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}
	client := provider.NewClient(backend, provider.PolicyFromConfig(cfg.Provider), a.logger)

	prompt, err := session.LoadSystemPrompt(root, cfg.Orchestrator.SystemPromptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load system prompt: %w", err)
	}

	events := make(chan workflow.Event)
	agent := loop.NewLoop(client, tools, events, cfg.Orchestrator.MaxIterations, a.logger)

	opts := []session.Option{session.WithSystemPrompt(prompt), session.WithLogger(a.logger)}
	if cfg.Session.File != "" {
		path := cfg.Session.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		opts = append(opts, session.WithStore(session.NewStore(path, fs.NewOSFileSystem())))
	}
	sess, err := session.New(cfg, agent, opts...)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		session:  sess,
		term:     term,
		events:   events,
		done:     make(chan struct{}),
		rendered: make(chan struct{}, 1),
	}
	go rt.pump()
	return rt, nil
}

func newBackend(ctx context.Context, cfg config.ProviderConfig) (provider.Backend, error) {
	if cfg.Backend == config.BackendGemini {
		return gemini.NewFromConfig(ctx, cfg)
	}
	return openai.New(cfg), nil
}

// runOnce runs a single turn. Any turn failure exits non-zero.
func (a *app) runOnce(ctx context.Context, instruction string) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	turnCtx, stop := a.deps.Interrupt(ctx)
	defer stop()
	if err := rt.submit(turnCtx, instruction); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

// runInteractive reads instructions until EOF, "exit" or a fatal error.
// Ctrl-C aborts the running turn; at the prompt it ends the session.
func (a *app) runInteractive(ctx context.Context) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.term.WriteStatus(fmt.Sprintf("codr session %s. Type \"exit\" to quit.", rt.session.ID()))
	for {
		readCtx, stopRead := a.deps.Interrupt(ctx)
		input, err := rt.term.ReadInput(readCtx, "> ")
		stopRead()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		turnCtx, stopTurn := a.deps.Interrupt(ctx)
		err = rt.submit(turnCtx, input)
		stopTurn()
		switch {
		case err == nil:
		case session.IsFatal(err):
			return fmt.Errorf("%w: %w", errReported, err)
		case errors.Is(err, loop.ErrTurnAborted):
			rt.term.WriteStatus("turn aborted")
		default:
			a.logger.Debug("turn failed", zap.Error(err))
		}
	}
}
