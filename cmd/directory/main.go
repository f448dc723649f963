package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/client"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/tui"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

const defaultLogOutput string = "directory.log"

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(os.Args[1:], osSignal); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func Main(args []string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup
	var envFile, logOutput string
	var altScreen bool

	flagSet := pflag.NewFlagSet("directory", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file read before the process environment")
	flagSet.StringVar(&logOutput, "log-output", "", "file to log to (overrides LOG_OUTPUT)")
	flagSet.BoolVar(&altScreen, "alt-screen", true, "render on the alternate screen")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	envs, err := internal.Envs(envFile)
	if err != nil {
		return err
	}

	//the screen belongs to the program, logs go to a file
	switch {
	case logOutput != "":
		envs["LOG_OUTPUT"] = logOutput
	case envs["LOG_OUTPUT"] == "", envs["LOG_OUTPUT"] == "stdout", envs["LOG_OUTPUT"] == "stderr":
		envs["LOG_OUTPUT"] = defaultLogOutput
	}

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()

	// create logger
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}
	defer logger.Close(context.Background())
	logger.Info(ctx, "directory: go-employee-directory v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create client
	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Error(ctx, "error while closing client: %s", err)
		}
	}()

	//run the program until it quits or a signal is received
	options := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		options = append(options, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(ctx, client, logger), options...)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
