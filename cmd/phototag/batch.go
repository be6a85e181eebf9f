package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"phototag/internal/app"
	"phototag/internal/domain"
	"phototag/internal/presentation"
	"phototag/internal/tui"
)

type batchJob struct {
	action  string
	verb    string
	apply   app.ApplyFunc
	success func(domain.FileResult)
}

// runBatch applies job to every path. A single file gets per-file messages;
// larger batches only report failures and add timing to the summary.
func (rt *runtime) runBatch(cmd *cobra.Command, paths []string, job batchJob) error {
	single := len(paths) == 1

	var (
		report domain.BatchReport
		err    error
	)
	if !single && rt.showProgress(cmd.OutOrStdout()) {
		report, err = rt.runWithProgress(cmd.Context(), cmd.OutOrStdout(), paths, job)
	} else {
		batch := app.Batch{
			Logger: rt.logger,
			OnResult: func(result domain.FileResult) {
				switch {
				case !result.OK():
					rt.printer.FileError(result.Err)
				case single:
					job.success(result)
				}
			},
		}
		report, err = batch.Run(cmd.Context(), paths, job.apply)
	}
	if err != nil {
		return err
	}

	rt.printer.Summary(job.verb, report, !single)
	if report.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

func (rt *runtime) showProgress(out io.Writer) bool {
	return !rt.cfg.NoProgress && isTerminal(out)
}

type batchOutcome struct {
	report domain.BatchReport
	err    error
}

// runWithProgress runs the batch in a goroutine while the progress bar owns
// the terminal. The two sides only talk through program messages.
func (rt *runtime) runWithProgress(ctx context.Context, out io.Writer, paths []string, job batchJob) (domain.BatchReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(tui.Config{Action: job.action, Total: len(paths), Cancel: cancel})
	program := tea.NewProgram(model, tea.WithOutput(out))

	done := make(chan batchOutcome, 1)
	go func() {
		batch := app.Batch{
			Logger: rt.logger,
			OnProgress: func(current, total int, path string) {
				program.Send(tui.ProgressMsg{Current: current, Total: total, File: path})
			},
			OnResult: func(result domain.FileResult) {
				if !result.OK() {
					program.Send(tui.FileFailedMsg{Message: presentation.FormatFileError(result.Err)})
				}
			},
		}
		report, err := batch.Run(ctx, paths, job.apply)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
		} else {
			program.Send(tui.DoneMsg{Report: report})
		}
		done <- batchOutcome{report: report, err: err}
	}()

	if _, err := program.Run(); err != nil {
		rt.logger.Error("progress display failed", "err", err)
		cancel()
		<-done
		return domain.BatchReport{}, err
	}
	outcome := <-done
	return outcome.report, outcome.err
}
