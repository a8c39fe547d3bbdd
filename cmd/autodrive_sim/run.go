package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/internal/dispatcher"
	"github.com/OCAP2/autodrive/internal/scenario"
	"github.com/OCAP2/autodrive/internal/storage"
	"github.com/OCAP2/autodrive/internal/worker"
)

// Report summarises a run.
type Report struct {
	Scenario  string
	SessionID string
	Outcome   string
	Failure   string
	Message   string
	Turns     uint
	Crashed   bool
	Journal   string
	Elapsed   time.Duration
}

func (r Report) String() string {
	s := fmt.Sprintf("%s: %s after %d turns (%s)", r.Scenario, r.Outcome, r.Turns, r.Elapsed.Round(time.Millisecond))
	if r.Failure != "" {
		s += ", failure " + r.Failure
	}
	if r.Message != "" {
		s += ": " + r.Message
	}
	if r.Crashed {
		s += " [crashed]"
	}
	if r.Journal != "" {
		s += "\njournal: " + r.Journal
	}
	return s
}

func simResolver(sim *scenario.Sim) worker.ResolverFunc {
	return func(id int) (worker.Binding, error) {
		if id != sim.Vehicle.ID() {
			return worker.Binding{}, fmt.Errorf("vehicle %d not in scenario", id)
		}
		return worker.Binding{Vehicle: sim.Vehicle, Driver: sim.Driver, Map: sim.World, Name: sim.Vehicle.Name()}, nil
	}
}

func run(ctx context.Context, scenarioPath, configDir string) (report Report, err error) {
	start := time.Now()
	settings, err := loadSettings(configDir)
	if err != nil {
		return Report{}, err
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return Report{}, err
	}
	sim := scenario.New(sc)

	a := &app{settings: settings}
	defer func() {
		err = errors.Join(err, a.close())
	}()
	if err := a.setupLogging(start); err != nil {
		return Report{}, err
	}
	if err := a.setupStorage(); err != nil {
		return Report{}, err
	}
	a.setupInflux(ctx)
	if err := a.setupDispatcher(simResolver(sim)); err != nil {
		return Report{}, err
	}

	report, err = a.drive(sc, sim)
	report.Elapsed = time.Since(start)
	if err != nil {
		return report, err
	}

	// set by backends that export when the session ends
	if exp, ok := a.backend.(storage.Exporter); ok {
		report.Journal = exp.ExportedFilePath()
	}
	return report, nil
}

// drive starts the activity and steps the simulation until it ends or the
// turn limit is hit, in which case the activity is stopped.
func (a *app) drive(sc *scenario.Scenario, sim *scenario.Sim) (Report, error) {
	log := a.slog.Logger()
	id := strconv.Itoa(sim.Vehicle.ID())
	report := Report{Scenario: sc.Name}

	out, err := a.dispatcher.Dispatch(dispatcher.Event{Command: worker.CmdStart, Args: []string{id}})
	if err != nil {
		return report, err
	}
	report.SessionID, _ = out.(string)

	maxTurns := a.settings.Sim.MaxTurns
	var res autodrive.TurnResult
	for turn := 0; turn < maxTurns; turn++ {
		sim.BeginTurn()
		out, err := a.dispatcher.Dispatch(dispatcher.Event{Command: worker.CmdTurn, Args: []string{id}})
		sim.EndTurn()
		if err != nil {
			return report, err
		}
		res = out.(autodrive.TurnResult)
		if res.State.Done() {
			break
		}
	}

	if !res.State.Done() {
		log.Warn("Turn limit reached, stopping", "maxTurns", maxTurns)
		if _, err := a.dispatcher.Dispatch(dispatcher.Event{Command: worker.CmdStop, Args: []string{id}}); err != nil {
			return report, err
		}
		res.State, res.Failure = autodrive.StateAborted, autodrive.FailureStopped
	}

	report.Outcome = res.State.String()
	report.Failure = res.Failure.String()
	report.Message = res.Message
	report.Turns = res.Turn
	report.Crashed = sim.Vehicle.Crashed()
	log.Info("Run complete", "outcome", report.Outcome, "turns", report.Turns,
		"lastWrite", a.worker.LastWriteDuration())
	return report, nil
}
