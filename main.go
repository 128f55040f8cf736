package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/infra/auth"
	"github.com/volunteerhub/hubterm/infra/config"
	"github.com/volunteerhub/hubterm/infra/editor"
	"github.com/volunteerhub/hubterm/infra/hubapi"
	"github.com/volunteerhub/hubterm/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: hubterm [--version|-version|-v] [--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// promptCredentials reads the login email and password from stdin.
// Called before the TUI starts, so plain terminal IO is fine.
func promptCredentials() (auth.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("reading email: %w", err)
	}

	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("reading password: %w", err)
	}

	return auth.Credentials{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}, nil
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("HubTerm %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
	}

	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// 2. Build infrastructure.
	if err := auth.EnsureLogin(context.Background(), cfg.ServerURL, cfg.TokenPath, promptCredentials); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	tokenProvider := auth.NewFileTokenProvider(cfg.TokenPath)
	client := hubapi.NewClient(cfg.ServerURL, tokenProvider)

	// 3. Build services (concrete types satisfy app.* interfaces).
	accountSvc := hubapi.NewAccountService(client)
	viewer, err := accountSvc.CurrentUser(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "account: %v\n", err)
		os.Exit(1)
	}

	feedSvc := hubapi.NewFeedService(client, viewer.ID)
	eventSvc := hubapi.NewEventService(client)
	editorSvc := editor.NewEnvEditor()

	// 4. Wire shared state and the optimistic action layer.
	sink := tui.NewStatusSink()
	state := &app.State{}
	actions := app.NewActions(state, feedSvc, eventSvc, sink)
	actions.SetViewer(viewer)

	uiState, _ := config.LoadUIState(cfg.UIStatePath)
	initialEvent := cfg.EventID
	if initialEvent == "" {
		initialEvent = uiState.EventID
	}

	// 5. Wire root TUI model and run.
	rootModel := tui.NewApp(tui.Deps{
		Actions:   actions,
		Events:    eventSvc,
		Editor:    editorSvc,
		Status:    sink,
		EventID:   initialEvent,
		StatePath: cfg.UIStatePath,
	})

	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "hubterm: %v\n", err)
		os.Exit(1)
	}
}
