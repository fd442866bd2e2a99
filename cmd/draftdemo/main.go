// Command draftdemo walks a document through the draft lifecycle against an
// in-memory OData service: it provokes an edit conflict with another user's
// draft, resolves it through the confirmation gateway and then activates the
// resulting draft with the two-phase prepare+activate sequence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	draftflow "github.com/ArmandoTL8/draftflow"
	"github.com/ArmandoTL8/draftflow/factory"
	"github.com/ArmandoTL8/draftflow/internal/odatamock"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	journalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
	verbose := flag.Bool("verbose", false, "enable debug logging to the console")
	autoConfirm := flag.Bool("auto-confirm", false, "answer every confirmation with yes instead of prompting")
	flag.Parse()

	if err := run(*configPath, *verbose, *autoConfirm); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("draftdemo: "+err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, verbose, autoConfirm bool) error {
	cfg := draftflow.DefaultConfig()
	if configPath != "" {
		loaded, err := draftflow.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
		cfg.Logging.Development = true
	}

	cleanup, err := factory.SetupLogging(cfg.Logging)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := odatamock.NewTravelService()
	odatamock.NewTravelDraft(svc, map[string]any{
		"DraftUUID":     "f3b2f1f0-8f5a-4c83-9f9f-2f62a17d9a01",
		"CreatedByUser": "maria.crispin",
	})
	// The foreign draft makes the first edit attempt clash.
	svc.FailNextAction(odatamock.TravelEditAction, &odatamock.StatusError{
		Status: 409,
		Reason: "another draft of this document already exists",
	})

	var gateway draftflow.ConfirmationGateway
	if autoConfirm {
		gateway = confirmAll{}
	} else {
		gateway = &promptGateway{}
	}

	orchestrator, err := factory.NewOrchestrator(cfg, factory.Collaborators{
		Annotations:  svc,
		SideEffects:  svc,
		Confirmation: gateway,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	fmt.Println(titleStyle.Render("draftflow demo"))
	fmt.Println()

	fmt.Println(stepStyle.Render("1. creating a draft from " + odatamock.TravelActivePath))
	active := svc.BindContext(odatamock.TravelActivePath)
	draft, err := orchestrator.CreateDraftFromActiveDocument(ctx, active, draftflow.CreateDraftOptions{})
	if err != nil {
		if draftflow.IsCancellation(err) {
			fmt.Println(stepStyle.Render("   declined, keeping the other user's draft"))
			return nil
		}
		return err
	}
	fmt.Println(stepStyle.Render("   draft ready at " + draft.Path()))

	fmt.Println(stepStyle.Render("2. activating the draft (prepare + activate in one batch)"))
	activated, err := orchestrator.ActivateDocument(ctx, draft, draftflow.ActivateOptions{})
	if err != nil {
		return err
	}
	fmt.Println(stepStyle.Render("   document active at " + activated.Path()))
	fmt.Println()

	fmt.Println(titleStyle.Render("transport journal"))
	for _, entry := range svc.Journal() {
		line := fmt.Sprintf("%-12s group=%-8s action=%-28s path=%s", entry.Kind, entry.Group, entry.Action, entry.Path)
		fmt.Println(journalStyle.Render(line))
	}

	zap.S().Infow("demo finished", "activePath", activated.Path())
	return nil
}

// confirmAll answers yes to every confirmation, for non-interactive runs.
type confirmAll struct{}

func (confirmAll) Confirm(_ context.Context, req draftflow.ConfirmationRequest) (bool, error) {
	fmt.Println(stepStyle.Render("   [auto-confirm] " + req.Message))
	return true, nil
}
