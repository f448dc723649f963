package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/client"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

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

type scenarioConfig struct {
	readInterval     time.Duration
	writeInterval    time.Duration
	scenarioDuration time.Duration
}

func secondsFromEnv(envs map[string]string, key string, defaultValue time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return defaultValue
}

func newScenarioConfig(envs map[string]string) scenarioConfig {
	return scenarioConfig{
		readInterval:     secondsFromEnv(envs, "SCENARIO_READ_INTERVAL", time.Second),
		writeInterval:    secondsFromEnv(envs, "SCENARIO_WRITE_INTERVAL", 2*time.Second),
		scenarioDuration: secondsFromEnv(envs, "SCENARIO_DURATION", 10*time.Second),
	}
}

// scenarioReload has one client create and update employees while the
// others reload the whole list, the way every front end does after a
// mutation; it reports the hit ratio of the list cache.
func scenarioReload(ctx context.Context, config scenarioConfig, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_reload"
	const minClients int = 2

	var wg sync.WaitGroup
	var mu sync.Mutex
	var created []int64

	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, id := range created {
			if err := clients[0].EmployeeDelete(ctx, id); err != nil {
				logger.Error(ctx, "error while deleting employee (%d): %s", id, err)
			}
		}
		logger.Info(ctx, "deleted %d employees", len(created))
	}()

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create writer go routine
	wg.Add(1)
	go func(ctx context.Context, client client.Client) {
		defer wg.Done()

		writeFx := func(ctx context.Context, i int) error {
			mu.Lock()
			n := len(created)
			mu.Unlock()
			employee := data.Employee{
				Name:       "scenario " + internal.GenerateId()[:8],
				Dob:        "1990-01-15",
				Gender:     data.Genders[i%len(data.Genders)],
				Department: "scenario",
			}
			if i%2 == 1 && n > 0 {
				mu.Lock()
				id := created[n-1]
				mu.Unlock()
				_, err := client.EmployeeUpdate(ctx, id, employee)
				return err
			}
			employeeCreated, err := client.EmployeeCreate(ctx, employee)
			if err != nil {
				return err
			}
			mu.Lock()
			created = append(created, *employeeCreated.Id)
			mu.Unlock()
			return nil
		}
		tWrite := time.NewTicker(config.writeInterval)
		defer tWrite.Stop()
		<-start
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-tWrite.C:
				if err := writeFx(ctx, i); err != nil {
					logger.Error(ctx, "error while writing employee: %s", err)
				}
			}
		}
	}(ctx, clients[0])

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			ctx = internal.CtxWithCorrelationId(ctx, fmt.Sprintf("%s_%d", correlationId, clientNumber))
			tRead := time.NewTicker(config.readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if _, err := client.EmployeesRead(ctx); err != nil {
						logger.Error(ctx, "error while reading employees: %s", err)
					}
				}
			}
		}(ctx, i, clients[i])
	}

	//clear cache counters and start the go routines
	if err := clients[0].CacheClear(ctx); err != nil {
		return err
	}
	if err := clients[0].CacheCountersClear(ctx); err != nil {
		return err
	}
	close(start)

	//allow go routines to run
	select {
	case <-ctx.Done():
	case <-time.After(config.scenarioDuration):
	}

	//stop go routines
	close(stop)
	wg.Wait()

	//use initial client to get hit/miss ratios from server
	cacheCounters, err := clients[0].CacheCountersRead(ctx)
	if err != nil {
		return err
	}
	hit := cacheCounters.CounterHits[data.CounterKeyEmployees]
	miss := cacheCounters.CounterMisses[data.CounterKeyEmployees]
	total := hit + miss
	if total == 0 {
		logger.Info(ctx, "no reads of the employee list were counted")
		return nil
	}
	logger.Info(ctx, "cache hit miss ratio (%d/%d): %0.2f%%",
		hit, total, float64(hit)/float64(total)*100)
	return nil
}

func Main(args []string, osSignal chan os.Signal) error {
	var clients []client.Client
	var wg sync.WaitGroup
	var envFile, scenario string
	var nClients int

	flagSet := pflag.NewFlagSet("scenario", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file read before the process environment")
	flagSet.StringVar(&scenario, "scenario", "", "scenario to execute (overrides SCENARIO)")
	flagSet.IntVar(&nClients, "clients", 0, "number of clients (overrides N_CLIENTS)")
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
	if scenario == "" {
		scenario = envs["SCENARIO"]
	}
	if nClients <= 0 {
		nClients, _ = strconv.Atoi(envs["N_CLIENTS"])
	}

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}
	defer logger.Close(context.Background())

	//print version info
	logger.Info(ctx, "scenarios: go-employee-directory v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	for range nClients {
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
		clients = append(clients, client)
	}

	// execute scenario
	switch scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "reload":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioReload(ctx, newScenarioConfig(envs), logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
