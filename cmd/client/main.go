package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/client"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const usage string = `usage: client [--env-file FILE] COMMAND [FLAGS]

commands:
  list                                  list every employee
  read --id ID                          read one employee
  create --name --dob --gender --department
  update --id ID --name --dob --gender --department
  delete --id ID                        delete one employee
  cache-clear                           clear the server cache
  counters [--clear]                    read (or clear) cache hit/miss counters
  timers [--clear]                      read (or clear) endpoint timers
  version                               print the version
`

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
	if err := Main(os.Args[1:], os.Stdout, osSignal); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func printJson(w io.Writer, item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}

type employeeFlags struct {
	id         int64
	name       string
	dob        string
	gender     string
	department string
}

func (e *employeeFlags) employee() data.Employee {
	return data.Employee{
		Name:       e.name,
		Dob:        e.dob,
		Gender:     data.Gender(e.gender),
		Department: e.department,
	}
}

func parseCommand(command string, args []string) (*employeeFlags, bool, error) {
	var e employeeFlags
	var clearOnly bool

	flagSet := pflag.NewFlagSet(command, pflag.ContinueOnError)
	switch command {
	case "read", "delete":
		flagSet.Int64Var(&e.id, "id", 0, "id of the employee")
	case "create", "update":
		if command == "update" {
			flagSet.Int64Var(&e.id, "id", 0, "id of the employee")
		}
		flagSet.StringVar(&e.name, "name", "", "name of the employee")
		flagSet.StringVar(&e.dob, "dob", "", "date of birth (YYYY-MM-DD)")
		flagSet.StringVar(&e.gender, "gender", "", "Male, Female or Other")
		flagSet.StringVar(&e.department, "department", "", "department of the employee")
	case "counters", "timers":
		flagSet.BoolVar(&clearOnly, "clear", false, "clear instead of read")
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, false, err
	}
	switch command {
	case "read", "delete", "update":
		if e.id <= 0 {
			return nil, false, errors.Errorf("%s requires --id", command)
		}
	}
	return &e, clearOnly, nil
}

func execute(ctx context.Context, w io.Writer, c client.Client, command string, args []string) error {
	e, clearOnly, err := parseCommand(command, args)
	if err != nil {
		return err
	}
	switch command {
	default:
		return errors.Errorf("unsupported command: %s\n%s", command, usage)
	case "list":
		employees, err := c.EmployeesRead(ctx)
		if err != nil {
			return err
		}
		return printJson(w, employees)
	case "read":
		employee, err := c.EmployeeRead(ctx, e.id)
		if err != nil {
			return err
		}
		return printJson(w, employee)
	case "create":
		employee, err := c.EmployeeCreate(ctx, e.employee())
		if err != nil {
			return err
		}
		return printJson(w, employee)
	case "update":
		employee, err := c.EmployeeUpdate(ctx, e.id, e.employee())
		if err != nil {
			return err
		}
		return printJson(w, employee)
	case "delete":
		if err := c.EmployeeDelete(ctx, e.id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "deleted employee: %d\n", e.id)
		return err
	case "cache-clear":
		return c.CacheClear(ctx)
	case "counters":
		if clearOnly {
			return c.CacheCountersClear(ctx)
		}
		counters, err := c.CacheCountersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(w, counters)
	case "timers":
		if clearOnly {
			return c.TimersClear(ctx)
		}
		timers, err := c.TimersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(w, timers)
	}
}

func Main(args []string, w io.Writer, osSignal chan os.Signal) error {
	var wg sync.WaitGroup
	var envFile string

	flagSet := pflag.NewFlagSet("client", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file read before the process environment")
	flagSet.Usage = func() { fmt.Fprint(w, usage) }
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() == 0 {
		return errors.New(usage)
	}
	command, args := flagSet.Arg(0), flagSet.Args()[1:]
	if command == "version" {
		_, err := fmt.Fprintf(w, "client: go-employee-directory v%s (%s) built from: %s\n",
			Version, GitCommit, GitBranch)
		return err
	}
	envs, err := internal.Envs(envFile)
	if err != nil {
		return err
	}

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()
	ctx = internal.EnsureCorrelationId(ctx)

	//create logger
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}
	defer logger.Close(context.Background())

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

	// execute command
	return execute(ctx, w, client, command, args)
}
