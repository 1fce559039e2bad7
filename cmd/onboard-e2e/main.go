// Command onboard-e2e runs the onboarding journeys against a live
// deployment: register-company takes a fresh identity through signup,
// email verification, company registration, survey, and dashboard
// checks; bulk-invite logs an admin in and invites a batch of generated
// members by CSV upload.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/meray2212/sparkrock/internal/config"
	"github.com/meray2212/sparkrock/internal/fixture"
	"github.com/meray2212/sparkrock/internal/flow"
	"github.com/meray2212/sparkrock/internal/identity"
	"github.com/meray2212/sparkrock/internal/obs"
	"github.com/meray2212/sparkrock/internal/onboarding"
	"github.com/meray2212/sparkrock/internal/pwdriver"
)

func main() {
	headless, scenario := config.ParseFlags()
	cfg := config.MustLoadConfig(headless)

	obs.Init()
	cfg.PrintStartupSummary()

	if err := run(cfg, scenario); err != nil {
		obs.Pkg("main").Error("scenario failed", "scenario", scenario, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, scenario string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := pwdriver.Launch(pwdriver.Options{
		Headless:     cfg.Headless,
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer driver.Close()

	seq := flow.NewSequencer(driver, cfg.DefaultStepTimeout)
	harness := onboarding.NewHarness(
		seq,
		fixture.NewGenerator(),
		identity.NewClient(cfg.APIBaseURL, cfg.HomeURL),
		cfg.HomeURL,
		onboarding.DefaultBounds(),
	)

	log := obs.Pkg("main")
	switch scenario {
	case "register-company":
		report, err := harness.RegisterCompany(ctx)
		if report != nil {
			logResults(log, report.Results)
		}
		if err != nil {
			return err
		}
		log.Info("register-company passed", "email", report.Email, "company", report.CompanyName)

	case "bulk-invite":
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			return fmt.Errorf("bulk-invite requires ADMIN_EMAIL and ADMIN_PASSWORD")
		}
		report, err := harness.BulkInvite(ctx, cfg.AdminEmail, cfg.AdminPassword, 2)
		if report != nil {
			logResults(log, report.Results)
		}
		if err != nil {
			return err
		}
		log.Info("bulk-invite passed", "invited", len(report.Emails), "csv", report.CSVPath)

	default:
		// Anything else is treated as a path to a scenario YAML file.
		if !strings.HasSuffix(scenario, ".yaml") && !strings.HasSuffix(scenario, ".yml") {
			return fmt.Errorf("unknown scenario %q (want register-company, bulk-invite, or a .yaml file)", scenario)
		}
		loaded, err := flow.LoadScenario(scenario)
		if err != nil {
			return err
		}
		results, err := seq.RunAll(ctx, *loaded)
		logResults(log, results)
		if err != nil {
			return err
		}
		log.Info("scenario passed", "scenario", loaded.Name, "steps", len(results))
	}
	return nil
}

func logResults(log *slog.Logger, results []flow.Result) {
	for _, r := range results {
		log.Info("step finished", "step", r.Step, "state", string(r.State), "elapsed", r.Elapsed.String())
	}
}
